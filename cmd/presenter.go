package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/session"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
)

// terminalPresenter prints the flow effects a browser would render as form state.
//
// Clearing is a no-op since printed lines cannot be taken back.
type terminalPresenter struct {
	w       io.Writer
	baseURL string
}

func newPresenter(w io.Writer, baseURL string) *terminalPresenter {
	return &terminalPresenter{w: w, baseURL: baseURL}
}

func (p *terminalPresenter) ShowFieldError(field auth.Field, message string) {
	fmt.Fprintf(p.w, "%s %s: %s\n", errStyle.Render("✗"), field, message)
}

func (p *terminalPresenter) ClearFieldError(auth.Field) {}

func (p *terminalPresenter) ClearAll() {}

func (p *terminalPresenter) ShowAlert(kind session.AlertType, message string) {
	switch kind {
	case session.AlertSuccess:
		fmt.Fprintf(p.w, "%s %s\n", okStyle.Render("✓"), message)
	case session.AlertError:
		fmt.Fprintf(p.w, "%s %s\n", errStyle.Render("✗"), message)
	default:
		fmt.Fprintf(p.w, "%s %s\n", infoStyle.Render("ℹ"), message)
	}
}

func (p *terminalPresenter) SetLoading(loading bool) {
	if loading {
		fmt.Fprintln(p.w, "→ Signing in...")
	}
}

func (p *terminalPresenter) Shake() {}

// Navigate prints the dashboard link, since the terminal cannot follow it.
func (p *terminalPresenter) Navigate(url string) {
	fmt.Fprintf(p.w, "→ Dashboard: %s%s\n", p.baseURL, url)
}
