package cc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

func newCompiler(t *testing.T, triple, buildProfile string, frontend toolchain.Frontend) *Compiler {
	t.Helper()
	target, err := toolchain.ParseTarget(triple)
	if err != nil {
		t.Fatal(err)
	}
	p := &toolchain.Profile{Frontend: frontend, Triple: triple, Target: target, BuildProfile: buildProfile}
	return New(p, toolchain.Tools{}, "/out", 1)
}

func TestCompileArgs(t *testing.T) {
	s := unit.New("rive").
		Include("inc").
		Define("_RIVE_INTERNAL_", nil).
		Define("LEVEL", unit.Value("2"))

	tests := []struct {
		name     string
		triple   string
		profile  string
		frontend toolchain.Frontend
		want     []string
	}{
		{
			name:     "linux release",
			triple:   "x86_64-unknown-linux-gnu",
			profile:  "release",
			frontend: toolchain.FrontendPOSIX,
			want: []string{
				"-O2", "-fPIC", "-ffunction-sections", "-fdata-sections",
				"-std=c++17", "-I", "inc", "-D_RIVE_INTERNAL_", "-DLEVEL=2", "-w",
				"-c", "-o", "a.o", "a.cpp",
			},
		},
		{
			name:     "mingw debug",
			triple:   "x86_64-pc-windows-gnu",
			profile:  "debug",
			frontend: toolchain.FrontendPOSIX,
			want: []string{
				"-O0", "-g", "-ffunction-sections", "-fdata-sections",
				"-std=c++17", "-I", "inc", "-D_RIVE_INTERNAL_", "-DLEVEL=2", "-w",
				"-c", "-o", "a.o", "a.cpp",
			},
		},
		{
			name:     "msvc release",
			triple:   "x86_64-pc-windows-msvc",
			profile:  "release",
			frontend: toolchain.FrontendMSVC,
			want: []string{
				"/nologo", "/c", "/MD", "/O2",
				"-std=c++17", "/Iinc", "/D_RIVE_INTERNAL_", "/DLEVEL=2", "/W0",
				"/Foa.o", "a.cpp",
			},
		},
		{
			name:     "msvc debug",
			triple:   "x86_64-pc-windows-msvc",
			profile:  "debug",
			frontend: toolchain.FrontendMSVC,
			want: []string{
				"/nologo", "/c", "/MD", "/Od", "/Z7",
				"-std=c++17", "/Iinc", "/D_RIVE_INTERNAL_", "/DLEVEL=2", "/W0",
				"/Foa.o", "a.cpp",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCompiler(t, tt.triple, tt.profile, tt.frontend)
			got := c.compileArgs(s, []string{"-std=c++17"}, "a.cpp", "a.o")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("args (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileArgsWarnings(t *testing.T) {
	c := newCompiler(t, "aarch64-apple-darwin", "release", toolchain.FrontendPOSIX)
	s := unit.New("x")
	s.Warnings = true
	for _, a := range c.compileArgs(s, nil, "a.c", "a.o") {
		if a == "-w" {
			t.Fatal("-w passed with warnings enabled")
		}
	}
}

func TestDefineArg(t *testing.T) {
	tests := []struct {
		msvc bool
		def  unit.Define
		want string
	}{
		{false, unit.Define{Name: "A"}, "-DA"},
		{false, unit.Define{Name: "A", Value: unit.Value("")}, "-DA="},
		{true, unit.Define{Name: "A", Value: unit.Value("1")}, "/DA=1"},
	}
	for _, tt := range tests {
		if got := defineArg(tt.msvc, tt.def); got != tt.want {
			t.Errorf("defineArg(%v, %+v) = %q, want %q", tt.msvc, tt.def, got, tt.want)
		}
	}
}

func TestArchiveFile(t *testing.T) {
	if got := newCompiler(t, "x86_64-pc-windows-msvc", "release", toolchain.FrontendMSVC).ArchiveFile("rive"); got != "rive.lib" {
		t.Errorf("msvc archive = %s", got)
	}
	if got := newCompiler(t, "x86_64-pc-windows-gnu", "release", toolchain.FrontendPOSIX).ArchiveFile("rive"); got != "librive.a" {
		t.Errorf("gnu archive = %s", got)
	}
}

func TestObjectName(t *testing.T) {
	c := newCompiler(t, "x86_64-unknown-linux-gnu", "release", toolchain.FrontendPOSIX)
	a := c.objectName("/src/a/file.cpp")
	b := c.objectName("/src/b/file.cpp")
	if a == b {
		t.Errorf("same object name %s for distinct sources", a)
	}
	if len(a) != len("01234567-file.o") {
		t.Errorf("object name = %s", a)
	}
}
