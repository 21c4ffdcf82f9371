package cc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/execabs"

	"github.com/goplus/rivebuild/internal/toolchain"
)

const probeSource = "int main(void) { return 0; }\n"

// Supports reports whether driver accepts flag, by compiling an empty
// translation unit with it and the base arguments of every object. Results are cached per driver and flag.
//
// A flag is supported when the compile succeeds without diagnostics; cl
// only warns (D9002) about unknown options.
func (c *Compiler) Supports(ctx context.Context, driver string, cpp bool, flag string) (bool, error) {
	key := driver + "\x00" + flag
	c.mu.Lock()
	if ok, cached := c.probes[key]; cached {
		c.mu.Unlock()
		return ok, nil
	}
	c.mu.Unlock()

	ok, err := c.probe(ctx, driver, cpp, flag)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.probes == nil {
		c.probes = make(map[string]bool)
	}
	c.probes[key] = ok
	c.mu.Unlock()
	return ok, nil
}

func (c *Compiler) probe(ctx context.Context, driver string, cpp bool, flag string) (bool, error) {
	dir := filepath.Join(c.OutDir, "probe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	src := filepath.Join(dir, "flag_check.c")
	if cpp {
		src += "pp"
	}
	if err := os.WriteFile(src, []byte(probeSource), 0o644); err != nil {
		return false, err
	}
	obj := filepath.Join(dir, "flag_check.o")

	// Probe with the target and profile flags objects are compiled with.
	args := append(c.baseArgs(), flag)
	if c.Profile.Frontend == toolchain.FrontendMSVC {
		args = append(args, "/Fo"+obj, src)
	} else {
		args = append(args, "-c", "-o", obj, src)
	}
	var stdout, stderr bytes.Buffer
	cmd := execabs.CommandContext(ctx, driver, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *execabs.ExitError
	switch {
	case errors.As(err, &exitErr):
		return false, nil
	case err != nil:
		// The driver itself could not be started.
		return false, err
	}
	if c.Profile.Frontend == toolchain.FrontendMSVC {
		out := stdout.String() + stderr.String()
		return !strings.Contains(out, "D9002"), nil
	}
	return len(bytes.TrimSpace(stderr.Bytes())) == 0, nil
}
