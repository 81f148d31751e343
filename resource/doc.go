// Package resource bounds the memory, concurrency and read throughput used
// when loading vector sets.
package resource
