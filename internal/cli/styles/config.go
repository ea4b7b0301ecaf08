package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfig renders the effective configuration body under its source path.
func (r *ConfigRenderer) RenderConfig(path string, exists bool, body string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	source := r.theme.Subtle.Render(path)
	if !exists {
		source += " " + r.theme.MutedBadge("defaults")
	}

	return fmt.Sprintf("\n  %s Config %s\n\n%s", iconStyle.Render(IconConfig), source, r.theme.Normal.Render(body))
}

// RenderCreated renders the success message after writing a default config.
func (r *ConfigRenderer) RenderCreated(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Created %s\n", iconStyle.Render(IconCheck), r.theme.Subtle.Render(path))
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	return fmt.Sprintf("\n  %s %s\n", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}
