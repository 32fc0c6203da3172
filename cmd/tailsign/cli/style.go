// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders status marks and labels for human-readable output.
// Colors are applied only when the destination writer is a color
// terminal; pipes and buffers receive plain text.
type Styles struct {
	pass lipgloss.Style
	fail lipgloss.Style
	warn lipgloss.Style
	dim  lipgloss.Style
}

// NewStyles returns styles bound to the color capabilities of w.
func NewStyles(w io.Writer) *Styles {
	renderer := lipgloss.NewRenderer(w)
	return &Styles{
		pass: renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		fail: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn: renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		dim:  renderer.NewStyle().Faint(true),
	}
}

// Pass renders a check mark.
func (s *Styles) Pass() string { return s.pass.Render("✓") }

// Fail renders a cross.
func (s *Styles) Fail() string { return s.fail.Render("✗") }

// Warn renders a warning mark.
func (s *Styles) Warn() string { return s.warn.Render("!") }

// Dim renders secondary text such as fingerprints and digests.
func (s *Styles) Dim(text string) string { return s.dim.Render(text) }

// Mark renders Pass when ok and Fail otherwise.
func (s *Styles) Mark(ok bool) string {
	if ok {
		return s.Pass()
	}
	return s.Fail()
}
