// Package toolchain resolves the compiler front-end and build target a
// build runs with.
package toolchain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/rivebuild/internal/env"
)

// ErrMissingEnv is returned by Resolve when a required variable is unset.
var ErrMissingEnv = errors.New("required environment variable is not set")

// Frontend is the compiler command-line dialect.
type Frontend int

const (
	FrontendPOSIX Frontend = iota
	FrontendMSVC
)

func (f Frontend) String() string {
	if f == FrontendMSVC {
		return "msvc"
	}
	return "posix"
}

func (f Frontend) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Profile describes the active toolchain. It is created once per build and
// never modified.
type Profile struct {
	Frontend     Frontend `json:"frontend"`
	Triple       string   `json:"target"`
	Target       Target   `json:"-"`
	BuildProfile string   `json:"profile"`
}

// IsRelease reports whether the build profile is a release profile.
func (p *Profile) IsRelease() bool {
	return strings.Contains(p.BuildProfile, "release")
}

// Pick returns msvc on the MSVC front-end and posix otherwise.
func (p *Profile) Pick(msvc, posix string) string {
	if p.Frontend == FrontendMSVC {
		return msvc
	}
	return posix
}

// Resolve builds a Profile from $TARGET and $PROFILE. msvc is the answer
// to "is the active compiler front-end MSVC-like", see DetectMSVC.
func Resolve(lookup env.Lookup, msvc bool) (*Profile, error) {
	triple, err := require(lookup, "TARGET")
	if err != nil {
		return nil, err
	}
	buildProfile, err := require(lookup, "PROFILE")
	if err != nil {
		return nil, err
	}
	target, err := ParseTarget(triple)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		Frontend:     FrontendPOSIX,
		Triple:       triple,
		Target:       target,
		BuildProfile: buildProfile,
	}
	if msvc {
		p.Frontend = FrontendMSVC
	}
	return p, nil
}

func require(lookup env.Lookup, key string) (string, error) {
	v := lookup.Get(key)
	if v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingEnv)
	}
	return v, nil
}

// DetectMSVC is the default front-end capability query: the target ABI is
// msvc, or the C++ driver is cl / clang-cl.
func DetectMSVC(target Target, compiler string) bool {
	if target.Env == "msvc" {
		return true
	}
	switch strings.ToLower(filepath.Base(compiler)) {
	case "cl", "cl.exe", "clang-cl", "clang-cl.exe":
		return true
	}
	return false
}

// ResolveEnv is Resolve with the front-end detected from the target ABI and
// the configured C++ driver. It also returns the tools for the profile.
func ResolveEnv(lookup env.Lookup) (*Profile, Tools, error) {
	triple, err := require(lookup, "TARGET")
	if err != nil {
		return nil, Tools{}, err
	}
	target, err := ParseTarget(triple)
	if err != nil {
		return nil, Tools{}, err
	}
	msvc := DetectMSVC(target, targetVar(lookup, "CXX", triple))
	p, err := Resolve(lookup, msvc)
	if err != nil {
		return nil, Tools{}, err
	}
	return p, FindTools(lookup, p.Triple, p.Frontend), nil
}
