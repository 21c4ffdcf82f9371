// Package unit defines the compilation unit set: everything needed to
// compile one subsystem into one static archive.
package unit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// Policy decides what happens when the compiler rejects a flag.
type Policy int

const (
	// PolicyRequired flags are passed as-is; rejection fails the build.
	PolicyRequired Policy = iota
	// PolicyAdvisory flags are only passed if the compiler accepts them.
	PolicyAdvisory
)

func (p Policy) String() string {
	if p == PolicyAdvisory {
		return "advisory"
	}
	return "required"
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Flag is one compiler argument tagged with its failure policy.
type Flag struct {
	Value  string `json:"value"`
	Policy Policy `json:"policy"`
}

// Define is a preprocessor macro. A nil Value defines the bare name; an
// empty Value defines it to nothing ("NAME=").
type Define struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// Set is the configuration for one archive. A Set is built by one
// configurator and consumed once by the driver.
type Set struct {
	Archive  string   `json:"archive"`
	Sources  []string `json:"sources"`
	Includes []string `json:"includes,omitempty"`
	Defines  []Define `json:"defines,omitempty"`
	Flags    []Flag   `json:"flags,omitempty"`
	CPP      bool     `json:"cpp"`
	Warnings bool     `json:"warnings"`
}

// New returns an empty Set producing archive name.
func New(name string) *Set {
	return &Set{Archive: name}
}

// File appends source files.
func (s *Set) File(paths ...string) *Set {
	s.Sources = append(s.Sources, paths...)
	return s
}

// Include appends include directories, skipping ones already present.
func (s *Set) Include(dirs ...string) *Set {
	for _, dir := range dirs {
		if !slices.Contains(s.Includes, dir) {
			s.Includes = append(s.Includes, dir)
		}
	}
	return s
}

// Define sets macro name to value, replacing an earlier definition in place.
func (s *Set) Define(name string, value *string) *Set {
	d := Define{Name: name, Value: value}
	if i := slices.IndexFunc(s.Defines, func(d Define) bool { return d.Name == name }); i >= 0 {
		s.Defines[i] = d
		return s
	}
	s.Defines = append(s.Defines, d)
	return s
}

// Flag appends a required flag. Empty flags are no-ops.
func (s *Set) Flag(value string) *Set {
	return s.addFlag(value, PolicyRequired)
}

// FlagIfSupported appends an advisory flag. Empty flags are no-ops.
func (s *Set) FlagIfSupported(value string) *Set {
	return s.addFlag(value, PolicyAdvisory)
}

func (s *Set) addFlag(value string, policy Policy) *Set {
	if value == "" {
		return s
	}
	f := Flag{Value: value, Policy: policy}
	if !slices.Contains(s.Flags, f) {
		s.Flags = append(s.Flags, f)
	}
	return s
}

// Fingerprint is a stable digest of the set's configuration.
func (s *Set) Fingerprint() string {
	data, err := json.Marshal(s)
	if err != nil {
		// Set only holds strings, bools and text marshalers.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Value returns a pointer to v, for Define.
func Value(v string) *string {
	return &v
}
