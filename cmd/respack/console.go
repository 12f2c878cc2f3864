// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/respack/lib/packer"
)

// console prints the one-line outcome of a run.
type console struct {
	out     io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	kind    lipgloss.Style
	detail  lipgloss.Style
}

// newConsole binds styles to w. The renderer detects w's colour
// support; noColor forces plain ASCII.
func newConsole(w io.Writer, noColor bool) *console {
	renderer := lipgloss.NewRenderer(w)
	if noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &console{
		out:     w,
		success: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		failure: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		kind:    renderer.NewStyle().Foreground(lipgloss.Color("3")),
		detail:  renderer.NewStyle().Faint(true),
	}
}

// Success prints the summary of a completed build.
func (c *console) Success(result *packer.Result) {
	summary := fmt.Sprintf("packed %d resources into %s", result.Included(), result.PackPath)
	details := fmt.Sprintf("(%d bytes, %d regenerated, %d skipped, %s)",
		result.Layout.Size,
		result.Count(packer.ActionRegenerated),
		result.Count(packer.ActionSkipped),
		result.Digest.Short(),
	)
	fmt.Fprintln(c.out, c.success.Render("ok")+" "+summary+" "+c.detail.Render(details))
}

// Failure prints err, prefixed with its kind when it has one.
func (c *console) Failure(err error) {
	line := c.failure.Render("error") + " "
	if kind, ok := packer.KindOf(err); ok {
		line += c.kind.Render(string(kind)) + ": "
	}
	fmt.Fprintln(c.out, line+err.Error())
}
