package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bnema/nvprime/internal/bootstrap"
	"github.com/bnema/nvprime/internal/cli/styles"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
)

var (
	selftestWidth      uint32
	selftestHeight     uint32
	selftestSurfaces   int
	selftestWorkers    int
	selftestFormat     string
	selftestRenderNode string
	selftestPlain      bool
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the surface lifecycle end to end",
	Long: `Create surfaces, resolve them from several goroutines at once, export a
synthetic frame into each, describe them as PRIME buffers, check the
exported bytes, then detach and destroy everything and verify no file
descriptor leaked.

The selftest needs a backend with its own buffer allocator, which is the
host backend. The exporter still opens the render node; on machines
without one, pass --render-node /dev/null.

Examples:
  nvprime selftest
  nvprime selftest --width 3840 --height 2160 --format p016 --surfaces 16
  nvprime selftest --render-node /dev/null --plain`,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
	selftestCmd.Flags().Uint32Var(&selftestWidth, "width", 1920, "surface width in pixels (even)")
	selftestCmd.Flags().Uint32Var(&selftestHeight, "height", 1080, "surface height in pixels (even)")
	selftestCmd.Flags().IntVar(&selftestSurfaces, "surfaces", 8, "number of surfaces")
	selftestCmd.Flags().IntVar(&selftestWorkers, "workers", 4, "concurrent resolvers")
	selftestCmd.Flags().StringVar(&selftestFormat, "format", "nv12", "surface format: nv12, p010, p012, p016")
	selftestCmd.Flags().StringVar(&selftestRenderNode, "render-node", "", "override device.render_node")
	selftestCmd.Flags().BoolVar(&selftestPlain, "plain", false, "print the report without a progress spinner")
}

func runSelftest(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, cancel := context.WithCancel(app.Ctx())
	defer cancel()
	log := logging.FromContext(ctx)

	format, err := entity.ParseSurfaceFormat(selftestFormat)
	if err != nil {
		return err
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

	opts := bootstrap.ExporterOptionsFromConfig(app.Config)
	if selftestRenderNode != "" {
		opts.RenderNode = selftestRenderNode
	}
	exp, err := backend.NewExporter(ctx, opts)
	if errors.Is(err, bootstrap.ErrNoAllocator) {
		return fmt.Errorf("selftest runs on the host backend only (--backend host): %w", err)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := exp.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close exporter")
		}
	}()

	selftestOpts := bootstrap.SelftestOptions{
		Width:    selftestWidth,
		Height:   selftestHeight,
		Format:   format,
		Surfaces: selftestSurfaces,
		Workers:  selftestWorkers,
	}
	run := func() (*bootstrap.SelftestReport, error) {
		return bootstrap.RunSelftest(ctx, exp, backend.Frames, selftestOpts)
	}
	renderer := styles.NewSelftestRenderer(app.Theme)
	render := func(report *bootstrap.SelftestReport, err error) string {
		return renderer.Render(selftestView(string(backend.Kind), selftestOpts, report, err))
	}

	var (
		report *bootstrap.SelftestReport
		runErr error
	)
	if selftestPlain || !isatty.IsTerminal(os.Stdout.Fd()) {
		report, runErr = run()
		fmt.Println(render(report, runErr))
	} else {
		result, err := runSelftestWithSpinner(app.Theme, cancel, run, render)
		if err != nil {
			return err
		}
		report, runErr = result.report, result.err
	}

	if runErr != nil {
		return fmt.Errorf("selftest failed: %w", runErr)
	}
	if !report.OK() {
		return errors.New("selftest failed")
	}
	return nil
}

func selftestView(backend string, opts bootstrap.SelftestOptions, report *bootstrap.SelftestReport, err error) styles.SelftestView {
	v := styles.SelftestView{
		Backend:  backend,
		Geometry: fmt.Sprintf("%dx%d %s", opts.Width, opts.Height, opts.Format),
		Surfaces: opts.Surfaces,
		Workers:  opts.Workers,
	}
	if err != nil {
		v.Error = err.Error()
		return v
	}

	v.OK = report.OK()
	v.DeviceIndex = report.Device.Index
	v.DeviceMatched = report.Device.Matched
	v.DeviceUUID = report.Device.UUID.String()
	v.ResolvedSurfaces = report.ResolvedSurfaces
	v.VerifiedPlanes = report.VerifiedPlanes
	v.LeakedFDs = report.LeakedFDs

	desc := report.Descriptor
	v.Fourcc = desc.Fourcc.String()
	for i := uint32(0); i < desc.NumObjects; i++ {
		obj := desc.Objects[i]
		v.Objects = append(v.Objects, styles.SelftestObject{Size: obj.Size, Modifier: obj.DRMFormatModifier.String()})
	}
	for i := uint32(0); i < desc.NumLayers; i++ {
		l := desc.Layers[i]
		v.Layers = append(v.Layers, styles.SelftestLayer{
			Format:      l.DRMFormat.String(),
			ObjectIndex: l.ObjectIndex[0],
			Offset:      l.Offset[0],
			Pitch:       l.Pitch[0],
		})
	}
	for _, p := range report.Phases {
		v.Phases = append(v.Phases, styles.SelftestPhase{Name: p.Name, Duration: p.Duration})
	}
	return v
}

// selftestModel shows a spinner while the selftest runs, then the report.
type selftestModel struct {
	progress styles.Progress
	run      func() (*bootstrap.SelftestReport, error)
	render   func(*bootstrap.SelftestReport, error) string
	cancel   context.CancelFunc

	report *bootstrap.SelftestReport
	err    error
	output string
	done   bool
}

type selftestResultMsg struct {
	report *bootstrap.SelftestReport
	err    error
}

func (m selftestModel) Init() tea.Cmd {
	return tea.Batch(m.progress.Spinner.Tick, func() tea.Msg {
		report, err := m.run()
		return selftestResultMsg{report: report, err: err}
	})
}

func (m selftestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.progress.Spinner, cmd = m.progress.Spinner.Update(msg)
		return m, cmd

	case selftestResultMsg:
		m.report, m.err = msg.report, msg.err
		m.output = m.render(msg.report, msg.err)
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selftestModel) View() string {
	if m.done {
		return m.output + "\n"
	}
	return m.progress.View()
}

func runSelftestWithSpinner(
	theme *styles.Theme,
	cancel context.CancelFunc,
	run func() (*bootstrap.SelftestReport, error),
	render func(*bootstrap.SelftestReport, error) string,
) (selftestResultMsg, error) {
	m := selftestModel{
		progress: styles.NewProgress(theme, "running selftest"),
		run:      run,
		render:   render,
		cancel:   cancel,
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return selftestResultMsg{}, fmt.Errorf("selftest display: %w", err)
	}
	result := final.(selftestModel)
	return selftestResultMsg{report: result.report, err: result.err}, nil
}
