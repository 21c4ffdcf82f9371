// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package toolchain

import (
	"fmt"
	"strings"
)

// Target is a parsed target triple: <arch>-<vendor>-<os>[-<env>].
type Target struct {
	Arch   string
	Vendor string
	OS     string
	Env    string
}

// ParseTarget splits a target triple. Vendor-less forms are accepted too:
// three parts with a known OS ("aarch64-linux-android") and two-part
// <arch>-<os> triples ("wasm32-wasip1"). Their vendor is "unknown".
func ParseTarget(triple string) (Target, error) {
	parts := strings.Split(triple, "-")
	for _, p := range parts {
		if p == "" {
			return Target{}, fmt.Errorf("invalid target triple %q", triple)
		}
	}
	switch len(parts) {
	case 2:
		return Target{Arch: parts[0], Vendor: "unknown", OS: parts[1]}, nil
	case 3:
		if vendorless[parts[1]] {
			return Target{Arch: parts[0], Vendor: "unknown", OS: parts[1], Env: parts[2]}, nil
		}
		return Target{Arch: parts[0], Vendor: parts[1], OS: parts[2]}, nil
	case 4:
		return Target{Arch: parts[0], Vendor: parts[1], OS: parts[2], Env: parts[3]}, nil
	}
	return Target{}, fmt.Errorf("invalid target triple %q: want <arch>[-<vendor>]-<os>[-<env>]", triple)
}

var vendorless = map[string]bool{
	"linux": true,
	"none":  true,
}

func (t Target) String() string {
	s := t.Arch + "-" + t.Vendor + "-" + t.OS
	if t.Env != "" {
		s += "-" + t.Env
	}
	return s
}

// Family is the closed set of target classes the configurators branch on.
type Family int

const (
	FamilyOther Family = iota
	FamilyApple
	FamilyWindowsMSVC
	FamilyWindowsGNU
)

func (f Family) String() string {
	switch f {
	case FamilyApple:
		return "apple"
	case FamilyWindowsMSVC:
		return "windows-msvc"
	case FamilyWindowsGNU:
		return "windows-gnu"
	}
	return "other"
}

// Family classifies t. Windows targets are split by ABI; "gnullvm" counts
// as GNU since it uses the same assembler.
func (t Target) Family() Family {
	switch {
	case t.OS == "windows":
		if strings.HasPrefix(t.Env, "gnu") {
			return FamilyWindowsGNU
		}
		return FamilyWindowsMSVC
	case t.Vendor == "apple":
		return FamilyApple
	}
	return FamilyOther
}

func (t Target) IsWindows() bool {
	f := t.Family()
	return f == FamilyWindowsMSVC || f == FamilyWindowsGNU
}

func (t Target) IsWindowsGNU() bool { return t.Family() == FamilyWindowsGNU }

func (t Target) IsApple() bool { return t.Family() == FamilyApple }
