package toolchain

import "sort"

// KnownTargets is the target matrix the configurators are tested against.
var KnownTargets = []string{
	"x86_64-unknown-linux-gnu",
	"aarch64-unknown-linux-gnu",
	"x86_64-unknown-linux-musl",
	"aarch64-linux-android",
	"x86_64-apple-darwin",
	"aarch64-apple-darwin",
	"aarch64-apple-ios",
	"aarch64-apple-ios-sim",
	"x86_64-pc-windows-msvc",
	"aarch64-pc-windows-msvc",
	"i686-pc-windows-msvc",
	"x86_64-pc-windows-gnu",
	"x86_64-pc-windows-gnullvm",
	"wasm32-unknown-emscripten",
	"wasm32-wasip1",
	"wasm32-wasip2",
}

// KnownProfiles are the build profiles the matrix covers.
var KnownProfiles = []string{"debug", "release"}

// Matrix is a set of targets and build profiles to plan for.
type Matrix struct {
	Targets  []string
	Profiles []string
}

// DefaultMatrix covers KnownTargets x KnownProfiles.
func DefaultMatrix() Matrix {
	return Matrix{Targets: KnownTargets, Profiles: KnownProfiles}
}

// Combination is one cell of a Matrix.
type Combination struct {
	Target  string
	Profile string
}

func (c Combination) String() string {
	return c.Target + "|" + c.Profile
}

// Combinations returns the cartesian product of the matrix, ordered by
// target then profile. Duplicates are dropped.
func (m *Matrix) Combinations() []Combination {
	targets := dedup(m.Targets)
	profiles := dedup(m.Profiles)
	sort.Strings(targets)
	sort.Strings(profiles)

	result := make([]Combination, 0, len(targets)*len(profiles))
	for _, t := range targets {
		for _, p := range profiles {
			result = append(result, Combination{Target: t, Profile: p})
		}
	}
	return result
}

// CombinationCount returns len(m.Combinations()) without building them.
func (m *Matrix) CombinationCount() int {
	return len(dedup(m.Targets)) * len(dedup(m.Profiles))
}

func dedup(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
