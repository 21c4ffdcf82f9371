package cc

import (
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// baseArgs are the target and profile flags every object gets.
func (c *Compiler) baseArgs() []string {
	p := c.Profile
	if p.Frontend == toolchain.FrontendMSVC {
		args := []string{"/nologo", "/c", "/MD"}
		if p.IsRelease() {
			return append(args, "/O2")
		}
		return append(args, "/Od", "/Z7")
	}
	var args []string
	if p.IsRelease() {
		args = append(args, "-O2")
	} else {
		args = append(args, "-O0", "-g")
	}
	if !p.Target.IsWindows() {
		args = append(args, "-fPIC")
	}
	return append(args, "-ffunction-sections", "-fdata-sections")
}

// compileArgs renders the command line compiling src into obj.
func (c *Compiler) compileArgs(s *unit.Set, flags []string, src, obj string) []string {
	msvc := c.Profile.Frontend == toolchain.FrontendMSVC
	args := c.baseArgs()
	args = append(args, flags...)
	for _, inc := range s.Includes {
		if msvc {
			args = append(args, "/I"+inc)
		} else {
			args = append(args, "-I", inc)
		}
	}
	for _, d := range s.Defines {
		args = append(args, defineArg(msvc, d))
	}
	if !s.Warnings {
		if msvc {
			args = append(args, "/W0")
		} else {
			args = append(args, "-w")
		}
	}
	if msvc {
		return append(args, "/Fo"+obj, src)
	}
	return append(args, "-c", "-o", obj, src)
}

func defineArg(msvc bool, d unit.Define) string {
	arg := "-D"
	if msvc {
		arg = "/D"
	}
	arg += d.Name
	if d.Value != nil {
		arg += "=" + *d.Value
	}
	return arg
}
