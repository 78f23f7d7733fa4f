package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/smctune/internal/config"
	"github.com/san-kum/smctune/internal/control"
	"github.com/san-kum/smctune/internal/optim"
	"github.com/san-kum/smctune/internal/storage"
	"github.com/san-kum/smctune/internal/tui"
	"github.com/san-kum/smctune/internal/tune"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	particles  int
	iterations int
	seed       int64
	workers    int
	dt         float64
	duration   float64
	theta1     float64
	theta2     float64
	live       bool
	gainsOut   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smctune",
		Short: "sliding-mode controller gain tuning for the double inverted pendulum",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".smctune", "data directory")

	tuneCmd := &cobra.Command{
		Use:   "tune [controller]",
		Short: "tune controller gains with particle swarm optimization",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "swarm size")
	tuneCmd.Flags().IntVar(&iterations, "iters", config.DefaultIterations, "swarm iterations")
	tuneCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluation workers (0 = all cpus)")
	tuneCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "simulation timestep")
	tuneCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation duration")
	tuneCmd.Flags().Float64Var(&theta1, "theta1", config.DefaultTheta1, "initial first link angle")
	tuneCmd.Flags().Float64Var(&theta2, "theta2", config.DefaultTheta2, "initial second link angle")
	tuneCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	tuneCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	tuneCmd.Flags().BoolVar(&live, "live", false, "show live convergence view")
	tuneCmd.Flags().StringVar(&gainsOut, "out", "", "write best gains to this json file")

	runCmd := &cobra.Command{
		Use:   "run [gains_file]",
		Short: "replay a closed-loop episode with saved gains",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "simulation timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation duration")
	runCmd.Flags().Float64Var(&theta1, "theta1", config.DefaultTheta1, "initial first link angle")
	runCmd.Flags().Float64Var(&theta2, "theta2", config.DefaultTheta2, "initial second link angle")

	compareCmd := &cobra.Command{
		Use:   "compare [controller1] [controller2] ...",
		Short: "tune several controller variants and compare results",
		RunE:  runCompare,
	}
	compareCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "swarm size")
	compareCmd.Flags().IntVar(&iterations, "iters", config.DefaultIterations, "swarm iterations")
	compareCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	compareCmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluation workers (0 = all cpus)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored tuning runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot convergence history of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [controller]",
		Short: "list available presets for a controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				return fmt.Errorf("no presets for controller: %s", args[0])
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(tuneCmd, runCmd, compareCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command, controller string) (*config.Config, error) {
	cfg := config.ForVariant(controller)
	if cfg == nil {
		return nil, fmt.Errorf("unknown controller variant: %s", controller)
	}

	if preset != "" {
		p := config.GetPreset(controller, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(controller))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Controller = controller
	}

	// CLI flags override preset and config file values.
	if cmd.Flags().Changed("particles") {
		cfg.PSO.Particles = particles
	}
	if cmd.Flags().Changed("iters") {
		cfg.PSO.Iterations = iterations
	}
	if cmd.Flags().Changed("seed") || cfg.PSO.Seed == 0 {
		cfg.PSO.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.PSO.Workers = workers
	}
	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Sim.Duration = duration
	}
	if cmd.Flags().Changed("theta1") {
		cfg.InitState.Theta1 = theta1
	}
	if cmd.Flags().Changed("theta2") {
		cfg.InitState.Theta2 = theta2
	}

	return cfg, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	tuner, err := tune.New(cfg)
	if err != nil {
		return err
	}

	var outcome *tune.Outcome
	if live {
		outcome, err = runTuneLive(cfg, tuner)
	} else {
		tuner.OnIteration(func(s optim.IterationStats) {
			if (s.Iteration+1)%10 == 0 || s.Iteration == 0 {
				fmt.Printf("iter %3d/%d  best %.6f  mean %.6f\n",
					s.Iteration+1, cfg.PSO.Iterations, s.BestVal, s.MeanVal)
			}
		})
		outcome, err = tuner.Run(context.Background())
	}
	if err != nil {
		return err
	}

	runID, err := st.Save(outcome, cfg.PSO.Seed, cfg.PSO.Particles, cfg.PSO.Iterations)
	if err != nil {
		return err
	}

	// Replay the winner once so the run directory carries the actual
	// closed-loop trajectory, not just the convergence history.
	if replay, err := tuner.Replay(context.Background(), outcome.BestGains); err != nil {
		fmt.Printf("warning: best-gains replay failed, trajectory not saved: %v\n", err)
	} else if err := st.SaveTrajectory(runID, replay.Result); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", outcome.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("best fitness: %.6f\n", outcome.BestFitness)
	fmt.Printf("best gains: %s\n", formatGains(outcome.BestGains))
	fmt.Printf("evaluations: %d (%d failed)\n", outcome.Evaluations, outcome.FailedEvaluations)
	if outcome.CollapseWarnings > 0 {
		fmt.Printf("warning: flat fitness detected in %d iteration(s)\n", outcome.CollapseWarnings)
	}

	if gainsOut != "" {
		gf := &storage.GainsFile{
			Controller:  outcome.Controller,
			Gains:       outcome.BestGains,
			BestFitness: outcome.BestFitness,
		}
		if err := storage.SaveGains(gainsOut, gf); err != nil {
			return err
		}
		fmt.Printf("gains written to %s\n", gainsOut)
	}

	return nil
}

func runTuneLive(cfg *config.Config, tuner *tune.Tuner) (*tune.Outcome, error) {
	updates := make(chan tea.Msg, cfg.PSO.Iterations+1)
	tuner.OnIteration(func(s optim.IterationStats) {
		updates <- tui.ProgressMsg(s)
	})

	var outcome *tune.Outcome
	var tuneErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		outcome, tuneErr = tuner.Run(context.Background())
		updates <- tui.DoneMsg{Err: tuneErr}
	}()

	p := tea.NewProgram(tui.NewModel(cfg.Controller, cfg.PSO.Iterations, updates))
	if _, err := p.Run(); err != nil {
		return nil, err
	}

	<-done
	if tuneErr != nil {
		return nil, tuneErr
	}
	return outcome, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	gf, err := storage.LoadGains(args[0])
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, gf.Controller)
	if err != nil {
		return err
	}

	tuner, err := tune.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("replaying %s controller with gains %s\n", gf.Controller, formatGains(gf.Gains))

	replay, err := tuner.Replay(context.Background(), gf.Gains)
	if err != nil {
		return err
	}
	result := replay.Result

	fmt.Printf("steps: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	fmt.Println()

	plots := []struct {
		caption string
		data    []float64
	}{
		{"theta1 (first link angle)", result.StateSeries(1)},
		{"theta2 (second link angle)", result.StateSeries(2)},
		{"control force", result.ControlSeries(0)},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	variants := args
	if len(variants) == 0 {
		variants = []string{control.VariantClassical, control.VariantAdaptive, control.VariantSTA}
	}

	cfgs := make([]*config.Config, len(variants))
	for i, v := range variants {
		cfg, err := buildConfig(cmd, v)
		if err != nil {
			return err
		}
		cfgs[i] = cfg
	}

	fmt.Printf("tuning %s (%d particles, %d iterations each)\n\n",
		strings.Join(variants, ", "), cfgs[0].PSO.Particles, cfgs[0].PSO.Iterations)

	outcomes, err := tune.RunAll(context.Background(), cfgs)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTROLLER\tFITNESS\tEVALS\tFAILED\tWARNINGS\tTIME\tGAINS")
	for i, out := range outcomes {
		if _, err := st.Save(out, cfgs[i].PSO.Seed, cfgs[i].PSO.Particles, cfgs[i].PSO.Iterations); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6f\t%d\t%d\t%d\t%v\t%s\n",
			out.Controller,
			out.BestFitness,
			out.Evaluations,
			out.FailedEvaluations,
			out.CollapseWarnings,
			out.Elapsed.Round(time.Millisecond),
			formatGains(out.BestGains),
		)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tCONTROLLER\tTIME\tFITNESS\tEVALS\tFAILED\tWARNINGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%d\t%d\t%d\n",
			run.ID,
			run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.BestFitness,
			run.Evaluations,
			run.FailedEvaluations,
			run.CollapseWarnings,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadConvergence(runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no convergence data for run: %s", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("controller: %s\n", meta.Controller)
	fmt.Printf("best fitness: %.6f\n\n", meta.BestFitness)

	graph := asciigraph.Plot(history,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("best fitness vs iteration"),
	)
	fmt.Println(graph)

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil // older runs carry no trajectory
	}
	fmt.Println()
	for _, col := range []string{"theta1", "theta2", "force"} {
		data, ok := traj[col]
		if !ok || len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" (best gains replay)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func formatGains(gains []float64) string {
	parts := make([]string, len(gains))
	for i, g := range gains {
		parts[i] = fmt.Sprintf("%.3f", g)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
