package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/bootstrap"
	"github.com/bnema/nvprime/internal/cli/styles"
	"github.com/bnema/nvprime/internal/infrastructure/drm"
	"github.com/bnema/nvprime/internal/logging"
	"github.com/bnema/nvprime/pkg/gpu"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List render nodes and compute devices",
	Long: `List the DRM render nodes found in sysfs and the compute devices of the
configured backend with their UUIDs.

When the backend has its own buffer allocator, the device it correlates
with is marked.

Examples:
  nvprime devices
  nvprime devices --backend cuda`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	log := logging.FromContext(ctx)

	report := styles.DevicesReport{Backend: string(app.Config.Backend.Kind)}

	nodes, err := drm.NewOpener().List(ctx)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("render nodes: %v", err))
	}
	nvidiaNodes := 0
	for _, n := range nodes {
		if gpu.IsNVIDIAProprietary(n.Driver) {
			nvidiaNodes++
		}
		report.RenderNodes = append(report.RenderNodes, styles.RenderNodeRow{
			Path:     n.Path,
			Driver:   n.Driver,
			Vendor:   string(gpu.Classify(n.VendorID, n.Driver)),
			VendorID: n.VendorID,
			DeviceID: n.DeviceID,
			PCISlot:  n.PCISlot,
		})
	}
	if len(nodes) > 0 && nvidiaNodes == 0 {
		report.Warnings = append(report.Warnings, "no render node is driven by the nvidia kernel module")
	}

	backend, err := bootstrap.OpenBackend(ctx, app.Config)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close backend")
		}
	}()

	var match *usecase.DeviceMatch
	if backend.Allocator != nil {
		defer func() { _ = backend.Allocator.Close() }()
		m, err := usecase.NewCorrelateDeviceUseCase(backend.Allocator, backend.Compute, app.Config.Device.StrictMatch).Execute(ctx)
		if err != nil {
			report.Warnings = append(report.Warnings, err.Error())
		} else {
			match = &m
			report.AllocatorUUID = m.UUID.String()
		}
	}

	count, err := backend.Compute.DeviceCount()
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("device count: %v", err))
	}
	namer, _ := backend.Compute.(bootstrap.DeviceNamer)
	for i := 0; i < count; i++ {
		row := styles.ComputeDeviceRow{Index: i}
		if uuid, err := backend.Compute.DeviceUUID(i); err == nil {
			row.UUID = uuid.String()
		} else {
			log.Debug().Err(err).Int("device", i).Msg("device uuid unavailable")
		}
		if namer != nil {
			if name, err := namer.DeviceName(i); err == nil {
				row.Name = name
			}
		}
		row.Correlated = match != nil && match.Matched && match.Index == i
		report.ComputeDevices = append(report.ComputeDevices, row)
	}

	fmt.Println(styles.NewDevicesRenderer(app.Theme).Render(report))
	return nil
}
