package simd

import (
	"os"
	"runtime"
	"strings"
)

// Tier represents an acceleration level.
type Tier uint8

const (
	// Scalar represents the pure Go reference loops.
	Scalar Tier = iota
	// Narrow represents 128-bit registers (SSE2, NEON).
	Narrow
	// Wide represents 256-bit registers (AVX2).
	Wide
)

// String returns the string representation of a Tier.
func (t Tier) String() string {
	switch t {
	case Scalar:
		return "scalar"
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

// RegisterBits returns the register width the tier processes per batch.
func (t Tier) RegisterBits() int {
	switch t {
	case Narrow:
		return 128
	case Wide:
		return 256
	default:
		return 0
	}
}

// ParseTier parses a string into a Tier value.
// Instruction set names are accepted as aliases.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar", "generic", "none":
		return Scalar, true
	case "narrow", "128", "sse", "sse2", "neon":
		return Narrow, true
	case "wide", "256", "avx", "avx2":
		return Wide, true
	default:
		return Scalar, false
	}
}

// OverrideEnv is the environment variable that forces a tier.
const OverrideEnv = "VECDIST_SIMD"

// Package-level state - initialized once at package init.
var (
	// activeTier is the selected tier.
	activeTier Tier

	// hasOverride is true if VECDIST_SIMD selected the tier.
	hasOverride bool

	// CPU feature flags (set by platform-specific init)
	hasSSE2  bool // x86-64 baseline
	hasAVX2  bool // x86-64 AVX2
	hasASIMD bool // ARM64 NEON
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	if override := os.Getenv(OverrideEnv); override != "" {
		if t, ok := ParseTier(override); ok && IsAvailable(t) {
			hasOverride = true
			activeTier = t
			return
		}
		// Invalid or unavailable override - fall through to auto-detection
	}

	activeTier = selectBestTier()
}

// IsAvailable reports whether the CPU provides the instruction set a tier
// is modelled on.
func IsAvailable(t Tier) bool {
	switch t {
	case Scalar:
		return true
	case Narrow:
		return hasSSE2 || hasASIMD
	case Wide:
		return hasAVX2
	default:
		return false
	}
}

func selectBestTier() Tier {
	switch runtime.GOARCH {
	case "amd64":
		if hasAVX2 {
			return Wide
		}
		if hasSSE2 {
			return Narrow
		}
	case "arm64":
		if hasASIMD {
			return Narrow
		}
	}
	return Scalar
}

// ActiveTier returns the tier selected at process start.
func ActiveTier() Tier {
	return activeTier
}

// IsOverridden returns true if VECDIST_SIMD selected the active tier.
func IsOverridden() bool {
	return hasOverride
}

// HasAVX2 returns true if x86-64 AVX2 is available.
func HasAVX2() bool {
	return hasAVX2
}

// HasASIMD returns true if ARM64 NEON is available.
func HasASIMD() bool {
	return hasASIMD
}
