package internal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goplus/rivebuild/internal/env"
	"github.com/goplus/rivebuild/internal/manifest"
	"github.com/goplus/rivebuild/internal/toolchain"
)

// hostDir creates a host crate directory next to a minimal vendored tree
// and returns it.
func hostDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{
		"submodules/rive-cpp/include/rive/artboard.hpp",
		"submodules/rive-cpp/src/artboard.cpp",
		"submodules/yoga/yoga/YGNode.cpp",
		"submodules/harfbuzz/src/harfbuzz.cc",
		"submodules/SheenBidi/Headers/SheenBidi.h",
		"submodules/SheenBidi/Source/SheenBidi.c",
	} {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	host := filepath.Join(root, "host")
	if err := os.MkdirAll(host, 0o755); err != nil {
		t.Fatal(err)
	}
	return host
}

func TestMatrixPlans(t *testing.T) {
	host := hostDir(t)
	manifestPath := filepath.Join(host, manifest.DefaultFile)
	content := "features {\n  layout = true\n  text   = true\n}\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := manifest.Load(manifestPath, env.Map(nil))
	if err != nil {
		t.Fatal(err)
	}

	m := toolchain.DefaultMatrix()
	plans, err := matrixPlans(cfg, m)
	if err != nil {
		t.Fatalf("matrixPlans: %v", err)
	}
	if len(plans) != m.CombinationCount() {
		t.Fatalf("got %d plans, want %d", len(plans), m.CombinationCount())
	}
	for _, plan := range plans {
		var archives []string
		for _, s := range plan.Sets {
			archives = append(archives, s.Archive)
		}
		want := []string{"yoga", "harfbuzz", "sheenbidi", "rive"}
		if len(archives) != len(want) {
			t.Errorf("%s: archives = %v, want %v", plan.Profile.Triple, archives, want)
			continue
		}
		for i := range want {
			if archives[i] != want[i] {
				t.Errorf("%s: archives = %v, want %v", plan.Profile.Triple, archives, want)
				break
			}
		}
		msvc := plan.Profile.Target.Env == "msvc"
		if got := plan.Profile.Frontend == toolchain.FrontendMSVC; got != msvc {
			t.Errorf("%s: msvc front-end = %v, want %v", plan.Profile.Triple, got, msvc)
		}
	}
}

func TestProfileCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"profile", "--target", "x86_64-pc-windows-msvc", "--profile", "release"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("profile: %v", err)
	}

	var got struct {
		Frontend string `json:"frontend"`
		Target   string `json:"target"`
		Profile  string `json:"profile"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decoding %q: %v", out.String(), err)
	}
	if got.Frontend != "msvc" || got.Target != "x86_64-pc-windows-msvc" || got.Profile != "release" {
		t.Errorf("profile = %+v", got)
	}
}
