package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// DevicesReport is what the devices command found.
type DevicesReport struct {
	RenderNodes    []RenderNodeRow
	Backend        string
	ComputeDevices []ComputeDeviceRow
	// AllocatorUUID is empty when the backend has no allocator of its own.
	AllocatorUUID string
	Warnings      []string
}

type RenderNodeRow struct {
	Path     string
	Driver   string
	Vendor   string
	VendorID uint16
	DeviceID uint16
	PCISlot  string
}

type ComputeDeviceRow struct {
	Index      int
	Name       string
	UUID       string
	Correlated bool
}

// DevicesRenderer renders a DevicesReport.
type DevicesRenderer struct {
	theme *Theme
}

func NewDevicesRenderer(theme *Theme) *DevicesRenderer {
	return &DevicesRenderer{theme: theme}
}

func (r *DevicesRenderer) Render(report DevicesReport) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	sections := []string{
		fmt.Sprintf("%s %s", iconStyle.Render(IconDesktop), r.theme.Title.Render("DRM render nodes")),
		r.renderNodes(report.RenderNodes),
		"",
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconChip), r.theme.Title.Render("Compute devices"),
			r.theme.MutedBadge(report.Backend)),
		r.renderCompute(report.ComputeDevices),
	}

	if report.AllocatorUUID != "" {
		sections = append(sections, "", r.theme.Subtle.Render("allocator GPU-"+report.AllocatorUUID))
	}
	for _, w := range report.Warnings {
		sections = append(sections, r.theme.WarningStyle.Render(IconWarning+" "+w))
	}

	return strings.Join(sections, "\n")
}

func (r *DevicesRenderer) renderNodes(nodes []RenderNodeRow) string {
	if len(nodes) == 0 {
		return r.theme.Subtle.Render("  no render nodes found")
	}
	columns := []table.Column{
		{Title: "Node", Width: 22},
		{Title: "Driver", Width: 12},
		{Title: "Vendor", Width: 14},
		{Title: "Device", Width: 8},
		{Title: "PCI slot", Width: 14},
	}
	rows := make([]table.Row, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, table.Row{
			n.Path,
			n.Driver,
			fmt.Sprintf("%s %04x", n.Vendor, n.VendorID),
			fmt.Sprintf("%04x", n.DeviceID),
			n.PCISlot,
		})
	}
	return RenderTable(r.theme, columns, rows)
}

func (r *DevicesRenderer) renderCompute(devices []ComputeDeviceRow) string {
	if len(devices) == 0 {
		return r.theme.Subtle.Render("  no compute devices found")
	}
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 28},
		{Title: "UUID", Width: 40},
		{Title: "Match", Width: 6},
	}
	rows := make([]table.Row, 0, len(devices))
	for _, d := range devices {
		match := ""
		if d.Correlated {
			match = IconCheck
		}
		rows = append(rows, table.Row{strconv.Itoa(d.Index), d.Name, "GPU-" + d.UUID, match})
	}
	return RenderTable(r.theme, columns, rows)
}
