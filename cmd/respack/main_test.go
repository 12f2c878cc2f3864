// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/respack/lib/packer"
	"github.com/bureau-foundation/respack/lib/testutil"
)

func TestParseArgsDefaults(t *testing.T) {
	cfg, _, err := parseArgs(nil)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if cfg.options.ManifestPath != ".manifest.yaml" {
		t.Errorf("ManifestPath = %q, want .manifest.yaml", cfg.options.ManifestPath)
	}
	if cfg.options.PackPath != "pack.smr" {
		t.Errorf("PackPath = %q, want pack.smr", cfg.options.PackPath)
	}
	if cfg.options.Jobs != 0 || cfg.options.Force || cfg.options.SkipMissing || cfg.options.Verify || cfg.options.ReportPath != "" {
		t.Errorf("unexpected non-default options: %+v", cfg.options)
	}
	if cfg.noColor || cfg.verbose || cfg.showVersion || cfg.showHelp {
		t.Errorf("unexpected non-default flags: %+v", cfg)
	}
}

func TestParseArgsFlags(t *testing.T) {
	cfg, _, err := parseArgs([]string{
		"-m", "assets/list.jsonc", "-j", "3", "--force", "--skip-missing",
		"--verify", "--report", "build.cbor", "--no-color", "-v", "out.smr",
	})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	want := packer.Options{
		ManifestPath: "assets/list.jsonc",
		PackPath:     "out.smr",
		Jobs:         3,
		Force:        true,
		SkipMissing:  true,
		Verify:       true,
		ReportPath:   "build.cbor",
	}
	if cfg.options != want {
		t.Errorf("options = %+v, want %+v", cfg.options, want)
	}
	if !cfg.noColor || !cfg.verbose {
		t.Errorf("noColor = %v, verbose = %v, want both true", cfg.noColor, cfg.verbose)
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"one.smr", "two.smr"},
		{"--jobs", "many"},
		{"--unknown"},
	} {
		if _, _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%q) succeeded", args)
		}
	}
}

func TestParseArgsHelp(t *testing.T) {
	cfg, _, err := parseArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if !cfg.showHelp {
		t.Error("showHelp = false for --help")
	}
}

func TestRunBuildsPack(t *testing.T) {
	directory := t.TempDir()
	testutil.WriteFile(t, filepath.Join(directory, "a.txt"), []byte("hello"))
	testutil.WriteFile(t, filepath.Join(directory, "bb.raw"), []byte("aaaaaaaaaa"))
	manifestPath := testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"),
		testutil.ManifestEntry{ID: "a", Compression: "NONE", Filepath: "a.txt"},
		testutil.ManifestEntry{ID: "bb", Compression: "LZ77", Filepath: "bb.raw"},
	)
	packPath := filepath.Join(directory, "pack.smr")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--manifest", manifestPath, "--verify", "--no-color", packPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v (stderr: %s)", err, stderr.String())
	}

	line := stdout.String()
	if !strings.HasPrefix(line, "ok packed 2 resources into "+packPath) {
		t.Errorf("success line = %q", line)
	}
	if !strings.Contains(line, "2 regenerated, 0 skipped") {
		t.Errorf("success line %q does not summarize the build", line)
	}
	if _, err := os.Stat(packPath); err != nil {
		t.Errorf("pack not written: %v", err)
	}
	if !strings.Contains(stderr.String(), `"msg":"pack written"`) {
		t.Errorf("log output %q has no pack written record", stderr.String())
	}
}

func TestRunReportsErrorKind(t *testing.T) {
	directory := t.TempDir()
	manifestPath := testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"),
		testutil.ManifestEntry{ID: "ghost", Compression: "NONE", Filepath: "ghost.txt"},
	)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-m", manifestPath, "--no-color", filepath.Join(directory, "pack.smr")}, &stdout, &stderr)
	if !packer.IsKind(err, packer.MissingBaseFile) {
		t.Fatalf("run error = %v, want MissingBaseFile", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing on failure", stdout.String())
	}
	if !strings.Contains(stderr.String(), "error MissingBaseFile: resource \"ghost\"") {
		t.Errorf("failure line missing kind: %q", stderr.String())
	}
}

func TestRunUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"a.smr", "b.smr"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("run accepted two pack paths")
	}
	var buildError *packer.Error
	if errors.As(err, &buildError) {
		t.Errorf("usage error classified as %s", buildError.Kind)
	}
	if !strings.HasPrefix(stderr.String(), "error ") {
		t.Errorf("stderr = %q, want an error line", stderr.String())
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run --version failed: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "respack ") {
		t.Errorf("version output = %q", stdout.String())
	}
}
