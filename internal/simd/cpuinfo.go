package simd

import "github.com/klauspost/cpuid/v2"

// CPUReport describes the host CPU and the tier chosen for it.
type CPUReport struct {
	Brand         string
	Vendor        string
	PhysicalCores int
	LogicalCores  int
	CacheLine     int
	Features      []string
	Tier          Tier
	Overridden    bool
}

// Probe returns a CPUReport for the running process.
func Probe() CPUReport {
	return CPUReport{
		Brand:         cpuid.CPU.BrandName,
		Vendor:        cpuid.CPU.VendorString,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		CacheLine:     cpuid.CPU.CacheLine,
		Features:      cpuid.CPU.FeatureSet(),
		Tier:          ActiveTier(),
		Overridden:    IsOverridden(),
	}
}
