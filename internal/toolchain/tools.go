package toolchain

import (
	"strings"

	"github.com/goplus/rivebuild/internal/env"
)

// Tools names the compiler drivers and archiver for one target.
type Tools struct {
	CC  string `json:"cc"`
	CXX string `json:"cxx"`
	AR  string `json:"ar"`
}

// FindTools picks the drivers for triple, spelled as the pipeline gave it.
// Variables are searched most
// specific first: CXX_x86_64_unknown_linux_gnu, CXX_x86_64-unknown-linux-gnu,
// then CXX. Unset tools fall back to the front-end defaults.
func FindTools(lookup env.Lookup, triple string, frontend Frontend) Tools {
	t := Tools{CC: "cc", CXX: "c++", AR: "ar"}
	if frontend == FrontendMSVC {
		t = Tools{CC: "cl.exe", CXX: "cl.exe", AR: "lib.exe"}
	}
	if v := targetVar(lookup, "CC", triple); v != "" {
		t.CC = v
	}
	if v := targetVar(lookup, "CXX", triple); v != "" {
		t.CXX = v
	}
	if v := targetVar(lookup, "AR", triple); v != "" {
		t.AR = v
	}
	return t
}

// CompilerFor returns the driver used for C++ or C sources.
func (t Tools) CompilerFor(cpp bool) string {
	if cpp {
		return t.CXX
	}
	return t.CC
}

func targetVar(lookup env.Lookup, name, triple string) string {
	for _, key := range []string{
		name + "_" + strings.ReplaceAll(triple, "-", "_"),
		name + "_" + triple,
		name,
	} {
		if v := lookup.Get(key); v != "" {
			return v
		}
	}
	return ""
}
