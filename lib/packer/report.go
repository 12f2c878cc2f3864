// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/respack/lib/atomicfile"
	"github.com/bureau-foundation/respack/lib/codec"
	"github.com/bureau-foundation/respack/lib/pack"
)

// Report is the machine-readable record of a build, written as CBOR.
// It holds no timestamps, so the same inputs produce the same bytes.
type Report struct {
	Pack             string           `json:"pack"`
	FormatVersion    int              `json:"format_version"`
	Digest           string           `json:"digest"`
	Size             int64            `json:"size"`
	DataSectionStart int64            `json:"data_section_start"`
	Resources        []ReportResource `json:"resources"`
}

// ReportResource is one manifest entry in a [Report]. Layout fields
// are omitted for skipped resources.
type ReportResource struct {
	ID                 string `json:"id"`
	Compression        string `json:"compression"`
	Status             string `json:"status"`
	Action             string `json:"action"`
	IDOffset           uint32 `json:"id_offset,omitempty"`
	IDLength           uint16 `json:"id_length,omitempty"`
	Flags              uint16 `json:"flags,omitempty"`
	DataOffset         uint32 `json:"data_offset,omitempty"`
	DataLength         uint32 `json:"data_length,omitempty"`
	UncompressedLength uint32 `json:"uncompressed_length,omitempty"`
}

// NewReport summarizes a build result.
func NewReport(result *Result) *Report {
	report := &Report{
		Pack:          result.PackPath,
		FormatVersion: pack.FormatVersion,
		Digest:        result.Digest.String(),
		Resources:     make([]ReportResource, len(result.Resources)),
	}
	if result.Layout != nil {
		report.Size = result.Layout.Size
		report.DataSectionStart = result.Layout.DataSectionStart
	}
	for i, resource := range result.Resources {
		report.Resources[i] = ReportResource{
			ID:                 resource.Resource.ID,
			Compression:        resource.Resource.Compression.String(),
			Status:             resource.Status.String(),
			Action:             resource.Action.String(),
			IDOffset:           resource.Record.IDOffset,
			IDLength:           resource.Record.IDLength,
			Flags:              resource.Record.Flags,
			DataOffset:         resource.Record.DataOffset,
			DataLength:         resource.Record.DataLength,
			UncompressedLength: resource.Record.UncompressedLength,
		}
	}
	return report
}

// WriteReport atomically writes report to path as CBOR.
func WriteReport(path string, report *Report) error {
	data, err := codec.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding build report: %w", err)
	}
	if err := atomicfile.WriteBytes(path, data); err != nil {
		return fmt.Errorf("writing build report: %w", err)
	}
	return nil
}

// ReadReport reads a report written by [WriteReport].
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := codec.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding build report %s: %w", path, err)
	}
	return &report, nil
}
