package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/oscsim/internal/analysis"
	"github.com/san-kum/oscsim/internal/config"
	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/export"
	"github.com/san-kum/oscsim/internal/integrators"
	"github.com/san-kum/oscsim/internal/metrics"
	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/sim"
	"github.com/san-kum/oscsim/internal/storage"
	"github.com/san-kum/oscsim/internal/sweep"
	"github.com/san-kum/oscsim/internal/viz"
)

var (
	dataDir    string
	mass       float64
	damping    float64
	spring     float64
	forceAmp   float64
	forceFreq  float64
	forcePhase float64
	q0         float64
	v0         float64
	tmax       float64
	samples    int
	tolerance  float64
	dt         float64
	integrator string
	configFile string
	preset     string
	setFlags   []string
	svgPath    string
	tailFrac   float64
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "oscsim",
		Short: "driven damped harmonic oscillator lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".oscsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		RunE:  runSimulation,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringArrayVar(&setFlags, "set", nil, "parameter override name=value (repeatable)")

	steadyCmd := &cobra.Command{
		Use:   "steady",
		Short: "closed-form steady-state response",
		RunE:  steadyState,
	}
	addPhysicsFlags(steadyCmd)
	steadyCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [from] [to] [steps]",
		Short: "re-run the pipeline across a parameter range",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait (Q vs V)",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "write portrait to SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and steady-state fit",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&tailFrac, "tail", 0.25, "trajectory fraction used for the steady-state fit")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same parameters",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addPhysicsFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive view with parameter adjustment",
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	rootCmd.AddCommand(runCmd, steadyCmd, sweepCmd, plotCmd, phaseCmd, analyzeCmd,
		listCmd, exportCSVCmd, exportJSONCmd, presetsCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", 1.0, "mass")
	cmd.Flags().Float64Var(&damping, "damping", 0.1, "damping rate gamma")
	cmd.Flags().Float64Var(&spring, "spring", 1.0, "spring constant")
	cmd.Flags().Float64Var(&forceAmp, "force-amp", 1.0, "drive amplitude F0")
	cmd.Flags().Float64Var(&forceFreq, "force-freq", 1.0, "drive angular frequency")
	cmd.Flags().Float64Var(&forcePhase, "force-phase", 0.0, "drive phase")
	cmd.Flags().Float64Var(&q0, "q0", 0.0, "initial displacement")
	cmd.Flags().Float64Var(&v0, "v0", 0.0, "initial velocity")
	cmd.Flags().Float64Var(&tmax, "tmax", 50.0, "simulated duration")
	cmd.Flags().IntVar(&samples, "samples", 1000, "output samples over [0, tmax]")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-8, "adaptive error tolerance")
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "initial / fixed timestep")
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator (euler, rk4, rk45)")
}

// buildConfig resolves preset, config file, CLI flags, and --set overrides,
// in increasing priority.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flagBindings := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"mass", &cfg.Params.Mass, mass},
		{"damping", &cfg.Params.Damping, damping},
		{"spring", &cfg.Params.Spring, spring},
		{"force-amp", &cfg.Params.ForceAmp, forceAmp},
		{"force-freq", &cfg.Params.ForceFreq, forceFreq},
		{"force-phase", &cfg.Params.ForcePhase, forcePhase},
		{"q0", &cfg.InitState.Q, q0},
		{"v0", &cfg.InitState.V, v0},
		{"tmax", &cfg.TMax, tmax},
		{"tol", &cfg.Tolerance, tolerance},
		{"dt", &cfg.Dt, dt},
	}
	for _, b := range flagBindings {
		if cmd.Flags().Changed(b.name) {
			*b.dst = b.src
		}
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}

	if len(setFlags) > 0 {
		overrides, err := config.ParseOverrides(setFlags)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplyOverrides(overrides); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Params.Validate()
}

func getIntegrator(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "rk45", "":
		return integrators.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	osc := oscillator.New(cfg.Params)
	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	simulator := sim.New(osc, integ)
	simulator.AddMetric(metrics.NewPeakDisplacement())
	simulator.AddMetric(metrics.NewMeanEnergy(osc))
	simulator.AddMetric(metrics.NewMeanPower(osc.Params()))
	simulator.AddMetric(metrics.NewEnergyDrift(osc))

	slog.Info("running simulation", "tmax", cfg.TMax, "samples", cfg.Samples, "integrator", cfg.Integrator)
	start := time.Now()

	result, err := simulator.Run(context.Background(), cfg.X0(), cfg.SimConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Params:     cfg.Params,
		InitQ:      cfg.InitState.Q,
		InitV:      cfg.InitState.V,
		TMax:       cfg.TMax,
		Samples:    cfg.Samples,
		Tolerance:  cfg.Tolerance,
		Integrator: cfg.Integrator,
	}, result)
	if err != nil {
		return err
	}

	slog.Info("completed", "elapsed", elapsed, "steps", result.StepsTaken, "run_id", runID)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d (adaptive steps: %d)\n", result.Traj.Len(), result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if ss := cfg.Params.Steady(); cfg.Params.ForceAmp != 0 && ss.IsFinite() {
		fmt.Printf("\nsteady state: amplitude %.6f, phase lag %.6f rad\n", ss.Amplitude, ss.PhaseLag)
	}

	return nil
}

func steadyState(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ss := cfg.Params.Steady()
	if !ss.IsFinite() {
		return fmt.Errorf("undamped resonance: steady-state amplitude is unbounded")
	}

	fmt.Printf("amplitude:   %.6f\n", ss.Amplitude)
	fmt.Printf("phase lag:   %.6f rad\n", ss.PhaseLag)
	fmt.Printf("mean energy: %.6f\n", ss.MeanEnergy())
	fmt.Println()

	times := integrators.TimeGrid(cfg.TMax, cfg.Samples)
	fmt.Println(viz.Series(ss.Series(times), "steady-state displacement"))

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	param := args[0]
	from, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bad sweep start: %w", err)
	}
	to, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("bad sweep end: %w", err)
	}
	steps, err := strconv.Atoi(args[3])
	if err != nil || steps < 1 {
		return fmt.Errorf("bad sweep step count: %q", args[3])
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sw := sweep.New(cfg.Params, cfg.X0(), cfg.SimConfig())
	values := sweep.Values(from, to, steps)

	slog.Info("sweeping", "param", param, "from", from, "to", to, "steps", steps)
	start := time.Now()

	points, err := sw.Run(context.Background(), param, values)
	if err != nil {
		return err
	}

	slog.Info("sweep completed", "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK_Q\tSTEADY_AMP\tMEAN_POWER\tMEAN_ENERGY\n", param)
	peaks := make([]float64, len(points))
	for i, pt := range points {
		peaks[i] = pt.Result.Metrics["peak_displacement"]
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			pt.Value,
			pt.Result.Metrics["peak_displacement"],
			pt.SteadyAmp,
			pt.Result.Metrics["mean_power"],
			pt.Result.Metrics["mean_energy"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.Series(peaks, fmt.Sprintf("peak displacement vs %s", param)))

	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, ds, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", tr.Len())

	plots := []struct {
		data    []float64
		caption string
	}{
		{tr.Q, "displacement Q"},
		{tr.V, "velocity V"},
		{ds.Force, "driving force"},
		{ds.Kinetic, "kinetic energy"},
		{ds.Potential, "potential energy"},
		{ds.Total, "total energy"},
		{ds.Power, "power"},
	}
	for _, p := range plots {
		fmt.Println(viz.Series(p.data, p.caption))
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.Portrait(tr)

	if svgPath != "" {
		svg := export.PortraitToSVG(portrait, 800, 600, "#00ff00")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		slog.Info("wrote SVG", "path", svgPath)
	}

	fmt.Printf("phase portrait: %s (Q horizontal, V vertical)\n\n", meta.ID)
	fmt.Println(viz.Portrait(portrait, 70, 20).String())

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	ps := analysis.PowerSpectrum(tr.Q)
	fmt.Println(viz.Spectrum(ps, "power spectrum (Q)"))
	fmt.Println()

	duration := tr.Times[tr.Len()-1] - tr.Times[0]
	fmt.Printf("dominant angular frequency: %.4f rad/s\n", analysis.DominantFrequency(tr.Q, duration))
	fmt.Printf("natural frequency sqrt(k/m): %.4f rad/s\n", meta.Params.NaturalFreq())

	if meta.Params.ForceAmp != 0 {
		fit, err := analysis.FitSteadyState(meta.Params, tr, tailFrac)
		if err != nil {
			return err
		}
		ss := meta.Params.Steady()
		fmt.Printf("\nsteady state (fit vs closed form):\n")
		fmt.Printf("  amplitude: %.6f vs %.6f\n", fit.Amplitude, ss.Amplitude)
		fmt.Printf("  phase lag: %.6f vs %.6f rad\n", fit.PhaseLag, ss.PhaseLag)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTMAX\tSAMPLES\tINTEG\tMASS\tGAMMA\tK\tF0\tOMEGA")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%d\t%s\t%.3g\t%.3g\t%.3g\t%.3g\t%.3g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TMax,
			run.Samples,
			run.Integrator,
			run.Params.Mass,
			run.Params.Damping,
			run.Params.Spring,
			run.Params.ForceAmp,
			run.Params.ForceFreq,
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, ds, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, tr, ds)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, ds, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, tr, ds)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (tmax=%.1fs, samples=%d, dt=%.4f)\n\n", cfg.TMax, cfg.Samples, cfg.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_Q\tENERGY_DRIFT\tSTEPS\tTIME_MS")

	for _, name := range args {
		integ, err := getIntegrator(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		osc := oscillator.New(cfg.Params)
		simulator := sim.New(osc, integ)

		sc := cfg.SimConfig()
		sc.Adaptive = name == "rk45"

		start := time.Now()
		result, err := simulator.Run(context.Background(), cfg.X0(), sc)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		finalQ := result.Traj.Q[result.Traj.Len()-1]
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%d\t%.2f\n",
			name, finalQ, result.EnergyDrift, result.StepsTaken, float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	osc := oscillator.New(cfg.Params)
	m := viz.NewModel(osc, integrators.NewRK4(), cfg.X0(), cfg.Dt)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
