package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/goplus/rivebuild/internal/cc"
	"github.com/goplus/rivebuild/internal/unit"
)

var errCompile = errors.New("compile failed")

// mockCompiler records the sets it is asked to compile and writes an
// empty archive for each.
type mockCompiler struct {
	outDir string
	// fail names an archive whose compilation fails.
	fail string
	// dropped maps an archive to the advisory flags it reports dropped.
	dropped map[string][]string

	mu   sync.Mutex
	sets []*unit.Set
}

func (m *mockCompiler) Compile(ctx context.Context, s *unit.Set) (*cc.Archive, error) {
	m.mu.Lock()
	m.sets = append(m.sets, s)
	m.mu.Unlock()
	if s.Archive == m.fail {
		return nil, errCompile
	}
	path := filepath.Join(m.outDir, "lib"+s.Archive+".a")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, err
	}
	return &cc.Archive{Name: s.Archive, Path: path, Objects: len(s.Sources), Dropped: m.dropped[s.Archive]}, nil
}

// archives returns the compiled archive names in call order.
func (m *mockCompiler) archives() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, s := range m.sets {
		names = append(names, s.Archive)
	}
	return names
}

func (m *mockCompiler) reset() {
	m.mu.Lock()
	m.sets = nil
	m.mu.Unlock()
}
