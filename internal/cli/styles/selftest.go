package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// SelftestView is the display form of a selftest run.
type SelftestView struct {
	OK       bool
	Backend  string
	Geometry string // e.g. "1920x1080 nv12"
	Surfaces int
	Workers  int

	DeviceIndex   int
	DeviceMatched bool
	DeviceUUID    string

	ResolvedSurfaces int
	VerifiedPlanes   int
	LeakedFDs        int

	Fourcc  string
	Objects []SelftestObject
	Layers  []SelftestLayer

	Phases []SelftestPhase
	Error  string
}

type SelftestObject struct {
	Size     uint32
	Modifier string
}

type SelftestLayer struct {
	Format      string
	ObjectIndex uint32
	Offset      uint32
	Pitch       uint32
}

type SelftestPhase struct {
	Name     string
	Duration time.Duration
}

// SelftestRenderer renders a SelftestView.
type SelftestRenderer struct {
	theme *Theme
}

func NewSelftestRenderer(theme *Theme) *SelftestRenderer {
	return &SelftestRenderer{theme: theme}
}

func (r *SelftestRenderer) Render(v SelftestView) string {
	parts := []string{r.renderHeader(v), ""}

	if v.Error != "" {
		parts = append(parts, r.theme.ErrorStyle.Render(IconX+" "+v.Error))
		return strings.Join(parts, "\n")
	}

	device := fmt.Sprintf("%d (GPU-%s)", v.DeviceIndex, v.DeviceUUID)
	parts = append(parts,
		r.theme.StatusLine(v.DeviceMatched, "device", device),
		r.theme.StatusLine(v.ResolvedSurfaces == v.Surfaces, "resolved", fmt.Sprintf("%d/%d surfaces", v.ResolvedSurfaces, v.Surfaces)),
		r.theme.StatusLine(v.VerifiedPlanes == 2*v.Surfaces, "verified", fmt.Sprintf("%d/%d planes", v.VerifiedPlanes, 2*v.Surfaces)),
		r.theme.StatusLine(v.LeakedFDs == 0, "leaked", fmt.Sprintf("%d descriptors", v.LeakedFDs)),
		"",
		r.renderDescriptor(v),
		"",
		r.renderPhases(v.Phases),
	)
	return strings.Join(parts, "\n")
}

func (r *SelftestRenderer) renderHeader(v SelftestView) string {
	status := r.theme.Badge.Render("PASS")
	if !v.OK {
		status = lipgloss.NewStyle().
			Foreground(r.theme.Background).
			Background(r.theme.Error).
			Padding(0, 1).
			Render("FAIL")
	}
	title := r.theme.Title.Render("selftest")
	info := r.theme.Subtle.Render(fmt.Sprintf("%s, %d surfaces, %d workers, %s backend",
		v.Geometry, v.Surfaces, v.Workers, v.Backend))
	return fmt.Sprintf("%s %s %s", status, title, info)
}

func (r *SelftestRenderer) renderDescriptor(v SelftestView) string {
	columns := []table.Column{
		{Title: "Layer", Width: 6},
		{Title: "Format", Width: 8},
		{Title: "Object", Width: 7},
		{Title: "Size", Width: 10},
		{Title: "Offset", Width: 7},
		{Title: "Pitch", Width: 7},
		{Title: "Modifier", Width: 22},
	}
	rows := make([]table.Row, 0, len(v.Layers))
	for i, l := range v.Layers {
		var size, modifier string
		if int(l.ObjectIndex) < len(v.Objects) {
			obj := v.Objects[l.ObjectIndex]
			size = fmt.Sprintf("%d", obj.Size)
			modifier = obj.Modifier
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i),
			l.Format,
			fmt.Sprintf("%d", l.ObjectIndex),
			size,
			fmt.Sprintf("%d", l.Offset),
			fmt.Sprintf("%d", l.Pitch),
			modifier,
		})
	}
	return r.theme.Subtitle.Render("descriptor "+v.Fourcc) + "\n" + RenderTable(r.theme, columns, rows)
}

func (r *SelftestRenderer) renderPhases(phases []SelftestPhase) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	lines := []string{fmt.Sprintf("%s %s", iconStyle.Render(IconClock), r.theme.Subtitle.Render("timing"))}

	var total time.Duration
	for _, p := range phases {
		total += p.Duration
		lines = append(lines, fmt.Sprintf("  %-10s %s", p.Name, r.theme.Normal.Render(p.Duration.Round(time.Microsecond).String())))
	}
	lines = append(lines, fmt.Sprintf("  %-10s %s", "total", r.theme.Highlight.Render(total.Round(time.Microsecond).String())))
	return strings.Join(lines, "\n")
}
