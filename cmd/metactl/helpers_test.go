package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/metakit/internal/config"
	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/editstore"
)

// testEnv points every command at a seeded asset store and a shared memory
// edit store for the lifetime of t.
func testEnv(t *testing.T) editstore.Store {
	t.Helper()
	assetStore := testutil.NewStore(t)
	store := editstore.NewMemory()
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	orig := openEnv
	openEnv = func(context.Context) (*env, error) {
		return newEnv(&cfg, logger, assetStore, store)
	}
	t.Cleanup(func() { openEnv = orig })
	return store
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset flags
	composeMods = nil
	resolveOutput = ""
	exportFormat, exportOutput = "", ""
	importDryRun, importReplace = false, false
	metricsOut = ""

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("output is not valid JSON: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, want []string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q\nOutput: %s", w, output)
		}
	}
}

// assertNotContains checks that output contains none of the strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(output, u) {
			t.Errorf("output unexpectedly contains %q\nOutput: %s", u, output)
		}
	}
}
