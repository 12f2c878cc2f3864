// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/bureau-foundation/respack/lib/artifact"
	"github.com/bureau-foundation/respack/lib/binhash"
	"github.com/bureau-foundation/respack/lib/clock"
	"github.com/bureau-foundation/respack/lib/manifest"
	"github.com/bureau-foundation/respack/lib/pack"
)

const (
	// DefaultManifestPath is the manifest read when none is given.
	DefaultManifestPath = ".manifest.yaml"

	// DefaultPackPath is the pack written when none is given.
	DefaultPackPath = "pack.smr"
)

// Options configures a build.
type Options struct {
	// ManifestPath is the manifest to read. Resource paths are
	// relative to its directory.
	ManifestPath string

	// PackPath is the pack file to write.
	PackPath string

	// Jobs bounds concurrent artifact generation. Zero or negative
	// means runtime.NumCPU().
	Jobs int

	// Force regenerates every artifact regardless of freshness.
	Force bool

	// SkipMissing omits resources whose source file does not exist
	// instead of failing the build.
	SkipMissing bool

	// Verify re-reads the written pack and decodes every resource.
	Verify bool

	// ReportPath, if set, receives a CBOR build report.
	ReportPath string

	// Logger receives progress. Nil discards.
	Logger *slog.Logger

	// Clock times the build. Nil means clock.Real().
	Clock clock.Clock
}

// Action records what the build did with a resource's artifact.
type Action uint8

const (
	// ActionReused means the existing artifact was fresh.
	ActionReused Action = iota

	// ActionRegenerated means the artifact was (re)written this run.
	ActionRegenerated

	// ActionSkipped means the source was missing and the resource was
	// left out of the pack.
	ActionSkipped
)

func (action Action) String() string {
	switch action {
	case ActionReused:
		return "reused"
	case ActionRegenerated:
		return "regenerated"
	case ActionSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", action)
	}
}

// ResourceResult is the outcome for one manifest entry.
type ResourceResult struct {
	// Resource is the manifest entry.
	Resource manifest.Resource

	// Status is the freshness classification before generation.
	Status artifact.Status

	// Action is what the build did.
	Action Action

	// Record is the descriptor written for the resource. Zero for
	// skipped resources.
	Record pack.Record
}

// Result describes a successful build.
type Result struct {
	// PackPath is the pack that was written.
	PackPath string

	// Resources has one entry per manifest resource, in manifest
	// order, including skipped ones.
	Resources []ResourceResult

	// Layout is the layout of the written pack.
	Layout *pack.Layout

	// Digest is the BLAKE3 digest of the written pack.
	Digest binhash.Digest

	// Duration is the wall time of the build.
	Duration time.Duration
}

// Count returns how many resources took the given action.
func (result *Result) Count(action Action) int {
	count := 0
	for _, resource := range result.Resources {
		if resource.Action == action {
			count++
		}
	}
	return count
}

// Included returns how many resources are in the pack.
func (result *Result) Included() int {
	return len(result.Resources) - result.Count(ActionSkipped)
}

// Build runs the whole pipeline: load the manifest, classify every
// resource, regenerate missing or stale artifacts, assemble the pack
// in manifest order, and optionally verify it and write a report.
//
// Failures are returned as *Error with a [Kind]. No pack is written
// unless every step before assembly succeeded, and a failed assembly
// leaves any previous pack in place.
func Build(ctx context.Context, options Options) (*Result, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	start := options.Clock.Now()
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if options.ManifestPath == "" {
		options.ManifestPath = DefaultManifestPath
	}
	if options.PackPath == "" {
		options.PackPath = DefaultPackPath
	}
	jobs := options.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	loaded, err := manifest.Load(options.ManifestPath)
	if err != nil {
		var parseError *manifest.ParseError
		if errors.As(err, &parseError) {
			return nil, &Error{Kind: ParseError, Path: options.ManifestPath, Err: err}
		}
		return nil, filesystemError(options.ManifestPath, err)
	}
	logger.Debug("manifest loaded",
		"manifest", options.ManifestPath,
		"resources", len(loaded.Resources),
	)

	result := &Result{
		PackPath:  options.PackPath,
		Resources: make([]ResourceResult, len(loaded.Resources)),
	}

	var generation []artifact.Job
	for i, resource := range loaded.Resources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sourcePath := loaded.SourcePath(resource)
		artifactPath := loaded.ArtifactPath(resource)

		status, err := artifact.Check(sourcePath, artifactPath)
		if err != nil {
			return nil, &Error{Kind: FilesystemError, Path: sourcePath, Resource: resource.ID, Err: err}
		}
		result.Resources[i] = ResourceResult{Resource: resource, Status: status}

		switch {
		case status == artifact.SourceMissing:
			if !options.SkipMissing {
				return nil, &Error{
					Kind:     MissingBaseFile,
					Path:     sourcePath,
					Resource: resource.ID,
					Err:      fmt.Errorf("source %s: %w", sourcePath, fs.ErrNotExist),
				}
			}
			logger.Warn("source missing, resource omitted from pack",
				"id", resource.ID,
				"source", sourcePath,
			)
			result.Resources[i].Action = ActionSkipped
		case options.Force || status.NeedsRegeneration():
			generation = append(generation, artifact.Job{
				ID:           resource.ID,
				SourcePath:   sourcePath,
				ArtifactPath: artifactPath,
				Compression:  resource.Compression,
			})
			result.Resources[i].Action = ActionRegenerated
		default:
			logger.Debug("artifact fresh", "id", resource.ID, "artifact", artifactPath)
			result.Resources[i].Action = ActionReused
		}
	}

	if err := artifact.GenerateAll(ctx, generation, jobs, logger); err != nil {
		var jobError *artifact.JobError
		if errors.As(err, &jobError) {
			return nil, &Error{Kind: FilesystemError, Path: jobError.Job.SourcePath, Resource: jobError.Job.ID, Err: jobError.Err}
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	builder := pack.NewBuilder()
	included := make([]int, 0, len(loaded.Resources))
	for i, resource := range loaded.Resources {
		if result.Resources[i].Action == ActionSkipped {
			continue
		}
		entry, err := packEntry(loaded, resource)
		if err != nil {
			return nil, err
		}
		builder.Add(entry)
		included = append(included, i)
	}

	layout, err := builder.WriteFile(options.PackPath)
	if err != nil {
		return nil, filesystemError(options.PackPath, fmt.Errorf("writing pack: %w", err))
	}
	result.Layout = layout
	for position, i := range included {
		result.Resources[i].Record = layout.Records[position]
	}

	if options.Verify {
		if err := VerifyPack(options.PackPath, layout); err != nil {
			return nil, filesystemError(options.PackPath, fmt.Errorf("verifying pack: %w", err))
		}
		logger.Debug("pack verified", "pack", options.PackPath, "resources", len(included))
	}

	digest, err := binhash.HashFile(options.PackPath)
	if err != nil {
		return nil, filesystemError(options.PackPath, err)
	}
	result.Digest = digest

	if options.ReportPath != "" {
		if err := WriteReport(options.ReportPath, NewReport(result)); err != nil {
			return nil, filesystemError(options.ReportPath, err)
		}
	}

	result.Duration = clock.Since(options.Clock, start)
	logger.Info("pack written",
		"pack", options.PackPath,
		"resources", result.Included(),
		"regenerated", result.Count(ActionRegenerated),
		"skipped", result.Count(ActionSkipped),
		"bytes", layout.Size,
		"digest", digest.String(),
		"duration", result.Duration,
	)
	return result, nil
}

// packEntry builds the pack entry for one included resource. The
// uncompressed length is the source size; the data length is the
// artifact size.
func packEntry(loaded *manifest.Manifest, resource manifest.Resource) (pack.Entry, error) {
	sourcePath := loaded.SourcePath(resource)
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return pack.Entry{}, &Error{Kind: FilesystemError, Path: sourcePath, Resource: resource.ID,
			Err: fmt.Errorf("sizing source: %w", err)}
	}

	var flags uint16
	if resource.Compression == manifest.CompressionLZ77 {
		flags |= pack.FlagLZ77Compressed
	}

	artifactPath := loaded.ArtifactPath(resource)
	entry, err := pack.FileEntry(resource.ID, flags, artifactPath, sourceInfo.Size())
	if err != nil {
		return pack.Entry{}, &Error{Kind: FilesystemError, Path: artifactPath, Resource: resource.ID, Err: err}
	}
	return entry, nil
}
