package styles

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Progress is a spinner line with a label and the time spent so far.
type Progress struct {
	Spinner spinner.Model
	Label   string
	Started time.Time
	theme   *Theme
}

func NewProgress(theme *Theme, label string) Progress {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return Progress{Spinner: s, Label: label, Started: time.Now(), theme: theme}
}

func (p Progress) View() string {
	elapsed := time.Since(p.Started).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s",
		p.Spinner.View(),
		p.theme.Normal.Render(p.Label),
		p.theme.Subtle.Render(elapsed.String()))
}
