// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/respack/lib/binhash"
	"github.com/bureau-foundation/respack/lib/clock"
	"github.com/bureau-foundation/respack/lib/pack"
	"github.com/bureau-foundation/respack/lib/testutil"
)

// sourceTime is well in the past so artifacts written during a test
// are always newer than their sources.
var sourceTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// twoResourceProject lays out the "a"/"bb" project: "hello" stored
// verbatim and ten 'a' bytes LZ77-compressed.
func twoResourceProject(t *testing.T) (directory, manifestPath string) {
	t.Helper()
	directory = t.TempDir()
	testutil.WriteFileAt(t, filepath.Join(directory, "a.txt"), []byte("hello"), sourceTime)
	testutil.WriteFileAt(t, filepath.Join(directory, "data", "bb.raw"), []byte("aaaaaaaaaa"), sourceTime)
	manifestPath = testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"),
		testutil.ManifestEntry{ID: "a", Compression: "NONE", Filepath: "a.txt"},
		testutil.ManifestEntry{ID: "bb", Compression: "LZ77", Filepath: "data/bb.raw"},
	)
	return directory, manifestPath
}

func readIndex(t *testing.T, path string) (*pack.Index, []byte) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading pack: %v", err)
	}
	index, err := pack.ReadIndex(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	return index, data
}

func actions(result *Result) []Action {
	list := make([]Action, len(result.Resources))
	for i, resource := range result.Resources {
		list[i] = resource.Action
	}
	return list
}

func equalActions(got, want []Action) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestBuildEndToEnd(t *testing.T) {
	directory, manifestPath := twoResourceProject(t)
	packPath := filepath.Join(directory, "pack.smr")
	reportPath := filepath.Join(directory, "report.cbor")

	result, err := Build(context.Background(), Options{
		ManifestPath: manifestPath,
		PackPath:     packPath,
		Jobs:         2,
		Verify:       true,
		ReportPath:   reportPath,
		Clock:        clock.Fake(sourceTime),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.Duration != 0 {
		t.Errorf("Duration = %v on a stopped clock, want 0", result.Duration)
	}

	if want := []Action{ActionRegenerated, ActionRegenerated}; !equalActions(actions(result), want) {
		t.Errorf("actions = %v, want %v", actions(result), want)
	}
	for _, artifactPath := range []string{"a.bin", "data/bb.bin"} {
		if _, err := os.Stat(filepath.Join(directory, artifactPath)); err != nil {
			t.Errorf("artifact %s not generated: %v", artifactPath, err)
		}
	}

	index, data := readIndex(t, packPath)
	if string(index.IDSection) != "abb\x00" {
		t.Errorf("ID section = %q, want %q", index.IDSection, "abb\x00")
	}
	if index.DataSectionStart != 56 {
		t.Errorf("data section start = %d, want 56", index.DataSectionStart)
	}

	a, bb := index.Records[0], index.Records[1]
	if a.DataLength != 5 || a.Flags != 0 || a.UncompressedLength != 5 || a.DataOffset != 56 {
		t.Errorf("record a = %+v, want 5 bytes at 56, flags 0", a)
	}
	if bb.DataLength >= 10 || bb.Flags != pack.FlagLZ77Compressed || bb.UncompressedLength != 10 {
		t.Errorf("record bb = %+v, want compressed below 10 bytes, flags 1", bb)
	}
	if bb.DataOffset != 61 {
		t.Errorf("record bb data offset = %d, want 61", bb.DataOffset)
	}
	if got := index.DataSize(); got != int64(len(data))-index.DataSectionStart {
		t.Errorf("data lengths sum to %d, want %d", got, int64(len(data))-index.DataSectionStart)
	}

	reader := bytes.NewReader(data)
	for i, want := range []string{"hello", "aaaaaaaaaa"} {
		content, err := index.Extract(reader, i)
		if err != nil {
			t.Fatalf("Extract(%d) failed: %v", i, err)
		}
		if string(content) != want {
			t.Errorf("resource %d = %q, want %q", i, content, want)
		}
	}

	if want := binhash.HashBytes(data); result.Digest != want {
		t.Errorf("Digest = %s, want %s", result.Digest, want)
	}
	if result.Resources[1].Record != bb {
		t.Errorf("result record bb = %+v, pack has %+v", result.Resources[1].Record, bb)
	}

	report, err := ReadReport(reportPath)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if report.Digest != result.Digest.String() || report.Size != int64(len(data)) || report.FormatVersion != pack.FormatVersion {
		t.Errorf("report header = %+v, want digest %s size %d", report, result.Digest, len(data))
	}
	if len(report.Resources) != 2 {
		t.Fatalf("report has %d resources, want 2", len(report.Resources))
	}
	if line := report.Resources[1]; line.ID != "bb" || line.Compression != "LZ77" || line.Action != "regenerated" ||
		line.Flags != 1 || line.DataOffset != 61 || line.UncompressedLength != 10 {
		t.Errorf("report line bb = %+v", line)
	}
}

func TestBuildIsIncremental(t *testing.T) {
	directory, manifestPath := twoResourceProject(t)
	options := Options{ManifestPath: manifestPath, PackPath: filepath.Join(directory, "pack.smr")}

	if _, err := Build(context.Background(), options); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}

	second, err := Build(context.Background(), options)
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if want := []Action{ActionReused, ActionReused}; !equalActions(actions(second), want) {
		t.Errorf("second build actions = %v, want %v", actions(second), want)
	}

	// Editing a source makes only its artifact stale.
	testutil.WriteFileAt(t, filepath.Join(directory, "a.txt"), []byte("hello, world"), time.Now().Add(time.Hour))
	third, err := Build(context.Background(), options)
	if err != nil {
		t.Fatalf("third Build failed: %v", err)
	}
	if want := []Action{ActionRegenerated, ActionReused}; !equalActions(actions(third), want) {
		t.Errorf("third build actions = %v, want %v", actions(third), want)
	}
	if third.Resources[0].Status.String() != "artifact-stale" {
		t.Errorf("edited resource status = %s, want artifact-stale", third.Resources[0].Status)
	}
	if third.Resources[0].Record.DataLength != 12 {
		t.Errorf("edited resource data length = %d, want 12", third.Resources[0].Record.DataLength)
	}

	options.Force = true
	forced, err := Build(context.Background(), options)
	if err != nil {
		t.Fatalf("forced Build failed: %v", err)
	}
	if want := []Action{ActionRegenerated, ActionRegenerated}; !equalActions(actions(forced), want) {
		t.Errorf("forced build actions = %v, want %v", actions(forced), want)
	}
}

func TestBuildMissingSourceFails(t *testing.T) {
	directory, _ := twoResourceProject(t)
	manifestPath := testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"),
		testutil.ManifestEntry{ID: "a", Compression: "NONE", Filepath: "a.txt"},
		testutil.ManifestEntry{ID: "ghost", Compression: "LZ77", Filepath: "ghost.raw"},
		testutil.ManifestEntry{ID: "bb", Compression: "LZ77", Filepath: "data/bb.raw"},
	)
	packPath := filepath.Join(directory, "pack.smr")
	previous := []byte("previous pack")
	testutil.WriteFile(t, packPath, previous)

	_, err := Build(context.Background(), Options{ManifestPath: manifestPath, PackPath: packPath})
	if err == nil {
		t.Fatal("Build succeeded with a missing source")
	}
	if !IsKind(err, MissingBaseFile) {
		t.Fatalf("error = %v, want kind MissingBaseFile", err)
	}
	var buildError *Error
	if !errors.As(err, &buildError) || buildError.Resource != "ghost" {
		t.Errorf("error does not name the missing resource: %v", err)
	}

	content, readErr := os.ReadFile(packPath)
	if readErr != nil || !bytes.Equal(content, previous) {
		t.Errorf("previous pack was replaced after a failed build")
	}
}

func TestBuildSkipMissingOmitsConsistently(t *testing.T) {
	directory, _ := twoResourceProject(t)
	manifestPath := testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"),
		testutil.ManifestEntry{ID: "a", Compression: "NONE", Filepath: "a.txt"},
		testutil.ManifestEntry{ID: "ghost", Compression: "LZ77", Filepath: "ghost.raw"},
		testutil.ManifestEntry{ID: "bb", Compression: "LZ77", Filepath: "data/bb.raw"},
	)
	packPath := filepath.Join(directory, "pack.smr")

	result, err := Build(context.Background(), Options{
		ManifestPath: manifestPath,
		PackPath:     packPath,
		SkipMissing:  true,
		Verify:       true,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.Included() != 2 || result.Count(ActionSkipped) != 1 {
		t.Errorf("included %d, skipped %d, want 2 and 1", result.Included(), result.Count(ActionSkipped))
	}
	if result.Resources[1].Action != ActionSkipped || result.Resources[1].Record != (pack.Record{}) {
		t.Errorf("ghost result = %+v, want skipped with no record", result.Resources[1])
	}

	index, data := readIndex(t, packPath)
	if got := strings.Join(index.IDs(), ","); got != "a,bb" {
		t.Errorf("pack IDs = %q, want %q", got, "a,bb")
	}
	if string(index.IDSection) != "abb\x00" {
		t.Errorf("ID section = %q, want %q", index.IDSection, "abb\x00")
	}
	if err := index.Verify(int64(len(data))); err != nil {
		t.Errorf("pack integrity: %v", err)
	}
}

func TestBuildManifestErrors(t *testing.T) {
	directory := t.TempDir()

	_, err := Build(context.Background(), Options{
		ManifestPath: filepath.Join(directory, "absent.yaml"),
		PackPath:     filepath.Join(directory, "pack.smr"),
	})
	if !IsKind(err, FilesystemError) {
		t.Errorf("missing manifest error = %v, want FilesystemError", err)
	}

	badPath := filepath.Join(directory, "bad.yaml")
	testutil.WriteFile(t, badPath, []byte("- {id: a, compression: BROTLI, filepath: a.txt}\n"))
	_, err = Build(context.Background(), Options{
		ManifestPath: badPath,
		PackPath:     filepath.Join(directory, "pack.smr"),
	})
	if !IsKind(err, ParseError) {
		t.Errorf("bad manifest error = %v, want ParseError", err)
	}

	if _, statErr := os.Stat(filepath.Join(directory, "pack.smr")); statErr == nil {
		t.Error("pack written despite manifest errors")
	}
}

func TestBuildSourceDirectoryIsFilesystemError(t *testing.T) {
	directory := t.TempDir()
	if err := os.Mkdir(filepath.Join(directory, "textures"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	manifestPath := testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"),
		testutil.ManifestEntry{ID: "textures", Compression: "NONE", Filepath: "textures"},
	)

	_, err := Build(context.Background(), Options{ManifestPath: manifestPath, PackPath: filepath.Join(directory, "pack.smr")})
	if !IsKind(err, FilesystemError) {
		t.Fatalf("error = %v, want FilesystemError", err)
	}
	if kind, _ := KindOf(err); kind != FilesystemError {
		t.Errorf("KindOf = %q, want %q", kind, FilesystemError)
	}
}

func TestBuildCancelled(t *testing.T) {
	directory, manifestPath := twoResourceProject(t)
	packPath := filepath.Join(directory, "pack.smr")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, Options{ManifestPath: manifestPath, PackPath: packPath})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(packPath); statErr == nil {
		t.Error("pack written by a cancelled build")
	}
}

func TestBuildEmptyManifest(t *testing.T) {
	directory := t.TempDir()
	manifestPath := testutil.WriteManifest(t, filepath.Join(directory, ".manifest.yaml"))
	packPath := filepath.Join(directory, "pack.smr")

	result, err := Build(context.Background(), Options{ManifestPath: manifestPath, PackPath: packPath, Verify: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.Layout.Size != pack.HeaderSize {
		t.Errorf("empty pack size = %d, want %d", result.Layout.Size, pack.HeaderSize)
	}
}
