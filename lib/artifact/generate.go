// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/respack/lib/atomicfile"
	"github.com/bureau-foundation/respack/lib/lz77"
	"github.com/bureau-foundation/respack/lib/manifest"
)

// Encode returns the artifact bytes for source content under the
// given compression.
func Encode(content []byte, compression manifest.Compression) ([]byte, error) {
	switch compression {
	case manifest.CompressionNone:
		return content, nil
	case manifest.CompressionLZ77:
		return lz77.Compress(content), nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

// Generate reads the source file, encodes it, and atomically replaces
// the artifact. Returns the artifact size in bytes.
func Generate(sourcePath, artifactPath string, compression manifest.Compression) (int64, error) {
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("reading source %s: %w", sourcePath, err)
	}

	encoded, err := Encode(content, compression)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", sourcePath, err)
	}

	written, err := atomicfile.Write(artifactPath, func(w io.Writer) error {
		_, err := w.Write(encoded)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("writing artifact %s: %w", artifactPath, err)
	}
	return written, nil
}

// Job is one artifact to generate.
type Job struct {
	// ID names the resource in logs and errors.
	ID string

	// SourcePath is the file to read.
	SourcePath string

	// ArtifactPath is the file to (re)write.
	ArtifactPath string

	// Compression selects the artifact encoding.
	Compression manifest.Compression
}

// JobError reports which job failed.
type JobError struct {
	Job Job
	Err error
}

func (err *JobError) Error() string {
	return fmt.Sprintf("generating artifact for %q: %v", err.Job.ID, err.Err)
}

func (err *JobError) Unwrap() error {
	return err.Err
}

// GenerateAll runs jobs on up to workers goroutines. Jobs are
// independent, so completion order is unspecified.
//
// The first failure stops dispatch of further jobs; jobs already
// running are allowed to finish. When several jobs fail, the error of
// the lowest-indexed job is returned so results are reproducible
// regardless of scheduling. Cancelling ctx stops dispatch and returns
// ctx.Err() if no job failed on its own.
func GenerateAll(ctx context.Context, jobs []Job, workers int, logger *slog.Logger) error {
	if len(jobs) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers = max(1, min(workers, len(jobs)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make([]error, len(jobs))
	queue := make(chan int)

	var waitGroup sync.WaitGroup
	for range workers {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for index := range queue {
				job := jobs[index]
				start := time.Now()
				size, err := Generate(job.SourcePath, job.ArtifactPath, job.Compression)
				if err != nil {
					failures[index] = &JobError{Job: job, Err: err}
					cancel()
					continue
				}
				logger.Info("artifact generated",
					"id", job.ID,
					"compression", job.Compression.String(),
					"artifact", job.ArtifactPath,
					"bytes", size,
					"duration", time.Since(start),
				)
			}
		}()
	}

dispatch:
	for index := range jobs {
		select {
		case queue <- index:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(queue)
	waitGroup.Wait()

	for _, err := range failures {
		if err != nil {
			return err
		}
	}
	// No job failed, so a cancelled context came from the caller.
	return ctx.Err()
}
