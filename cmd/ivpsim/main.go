package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ravik-m/ivpsim/internal/analysis"
	"github.com/ravik-m/ivpsim/internal/config"
	"github.com/ravik-m/ivpsim/internal/experiment"
	"github.com/ravik-m/ivpsim/internal/ivp"
	"github.com/ravik-m/ivpsim/internal/models"
	"github.com/ravik-m/ivpsim/internal/storage"
	"github.com/ravik-m/ivpsim/internal/viz"
)

var (
	dataDir    string
	t0         float64
	tEnd       float64
	steps      int
	seed       int64
	stepper    string
	temp       float64
	cells      int
	trials     int
	halvings   int
	component  int
	format     string
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ivpsim",
		Short: "fixed-step ODE/SDE integration lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ivpsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run a Monte Carlo ensemble of stochastic trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&trials, "trials", 100, "number of independent trials")

	convergeCmd := &cobra.Command{
		Use:   "converge",
		Short: "step-halving convergence study against the exact relaxation solution",
		RunE:  runConvergence,
	}
	convergeCmd.Flags().StringVar(&stepper, "stepper", "rk4", "stepper")
	convergeCmd.Flags().IntVar(&steps, "steps", 16, "coarsest grid step count")
	convergeCmd.Flags().IntVar(&halvings, "halvings", 5, "number of dt halvings")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&component, "component", -1, "state component (-1 for all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [path]",
		Short: "export a stored trajectory",
		Args:  cobra.ExactArgs(2),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "svg", "output format (svg|csv)")
	exportCmd.Flags().IntVar(&component, "component", 0, "state component for svg")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch an integration step in real time",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if names == nil {
				return fmt.Errorf("no presets for model: %s", args[0])
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	rootCmd.AddCommand(runCmd, ensembleCmd, convergeCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd, deleteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&tEnd, "tend", 10.0, "end time")
	cmd.Flags().IntVar(&steps, "steps", 1000, "number of fixed steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&stepper, "stepper", "rk4", "stepper (euler|rk2|rk4|maruyama)")
	cmd.Flags().Float64Var(&temp, "temp", 0, "initial temperature (scalar models)")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "number of cells (pvarray)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers preset, config file, and explicit flags, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
		// Presets are package globals; detach the mutable fields.
		cfg.Params = copyParams(p.Params)
		cfg.InitState = append([]float64(nil), p.InitState...)
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
		cfg.Model = model
	}

	if cmd.Flags().Changed("t0") {
		cfg.T0 = t0
	}
	if cmd.Flags().Changed("tend") {
		cfg.TEnd = tEnd
	}
	if cmd.Flags().Changed("steps") || cfg.Steps == 0 {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("stepper") || cfg.Stepper == "" {
		cfg.Stepper = stepper
	}
	if cmd.Flags().Changed("cells") || cfg.Cells == 0 {
		cfg.Cells = cells
	}
	if cmd.Flags().Changed("trials") || cfg.Trials == 0 {
		cfg.Trials = trials
	}
	if cmd.Flags().Changed("temp") {
		cfg.InitState = []float64{temp}
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	return cfg, nil
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func openStore(ctx context.Context) (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return err
	}

	fmt.Printf("integrating %s with %s over [%g, %g], %d steps...\n",
		cfg.Model, cfg.Stepper, cfg.T0, cfg.TEnd, cfg.Steps)
	start := time.Now()

	traj, err := exp.Run(ctx, reg)
	var stepErr *ivp.StepError
	if err != nil && !errors.As(err, &stepErr) {
		return err
	}
	elapsed := time.Since(start)

	st, serr := openStore(ctx)
	if serr != nil {
		return serr
	}
	defer st.Close()

	runID, serr := st.SaveRun(ctx, storage.RunMetadata{
		Model:   cfg.Model,
		Stepper: cfg.Stepper,
		T0:      cfg.T0,
		TEnd:    cfg.TEnd,
		Steps:   cfg.Steps,
		Seed:    cfg.Seed,
	}, traj)
	if serr != nil {
		return serr
	}

	if stepErr != nil {
		fmt.Printf("halted at step %d (t=%.6g): %v\n", stepErr.Step, stepErr.Time, stepErr.Err)
		fmt.Printf("partial trajectory saved (%d points)\n", traj.Len())
	} else {
		fmt.Printf("completed in %v\n", elapsed)
	}
	fmt.Printf("run id: %s\n", runID)

	tFinal, final := traj.Final()
	fmt.Printf("final state at t=%.6g:", tFinal)
	for _, v := range final {
		fmt.Printf(" %.6f", v)
	}
	fmt.Println()
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if cfg.Stepper != "maruyama" {
		cfg.Stepper = "maruyama"
	}

	reg := experiment.NewRegistry()
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return err
	}

	fmt.Printf("running %d trials of %s over [%g, %g], %d steps each...\n",
		cfg.Trials, cfg.Model, cfg.T0, cfg.TEnd, cfg.Steps)
	start := time.Now()

	res, err := exp.RunEnsemble(ctx, reg, false)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.SaveRun(ctx, storage.RunMetadata{
		Model:   cfg.Model,
		Stepper: cfg.Stepper,
		T0:      cfg.T0,
		TEnd:    cfg.TEnd,
		Steps:   cfg.Steps,
		Seed:    cfg.Seed,
		Trials:  cfg.Trials,
	}, res.Mean)
	if err != nil {
		return err
	}

	mean, stddev, stderr := analysis.FinalSpread(res)
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s (mean trajectory)\n", runID)
	fmt.Printf("final mean:   %.6f\n", mean)
	fmt.Printf("final stddev: %.6f\n", stddev)
	fmt.Printf("final stderr: %.6f\n", stderr)

	fmt.Println()
	fmt.Println(viz.Plot(res.Mean, 0, 80, 10, "ensemble mean (x0)"))
	return nil
}

func runConvergence(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	st, err := reg.GetStepper(stepper)
	if err != nil {
		return err
	}

	sys := models.NewRelaxation()
	p := sys.DefaultParams()
	x0 := sys.DefaultState()
	cfg := ivp.Config{T0: 0, TEnd: 1, Steps: steps}

	exact := func(t float64) ivp.State {
		return ivp.State{sys.Exact(t, x0[0], p)}
	}

	rows, err := analysis.Convergence(context.Background(), sys, p, x0, cfg, st, exact, halvings)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tDT\tERROR\tORDER")
	for _, r := range rows {
		order := "-"
		if !math.IsNaN(r.Order) {
			order = fmt.Sprintf("%.3f", r.Order)
		}
		fmt.Fprintf(w, "%d\t%.3e\t%.6e\t%s\n", r.Steps, r.Dt, r.Error, order)
	}
	w.Flush()

	fmt.Printf("\nobserved order (%s): %.3f\n", stepper, analysis.ObservedOrder(rows))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSTEPPER\tSPAN\tSTEPS\tTRIALS\tAGE\tSIZE")
	for _, r := range runs {
		trialsCol := "-"
		if r.Trials > 0 {
			trialsCol = fmt.Sprintf("%d", r.Trials)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%d\t%s\t%s\t%s\n",
			r.ID, r.Model, r.Stepper, r.T0, r.TEnd, r.Steps, trialsCol,
			humanize.Time(r.Created), humanize.Bytes(uint64(st.RunSize(r.ID))))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	if component >= 0 {
		fmt.Println(viz.Plot(traj, component, 80, 15, fmt.Sprintf("x%d", component)))
		return nil
	}
	fmt.Print(viz.PlotAll(traj, 80, 10))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, path := args[0], args[1]
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	switch format {
	case "svg":
		return os.WriteFile(path, []byte(viz.TrajectorySVG(traj, component, 800, 400, "#00ff00")), 0644)
	case "csv":
		data, err := os.ReadFile(dataDir + "/" + runID + "/trajectory.csv")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return err
	}
	st, err := reg.GetStepper(cfg.Stepper)
	if err != nil {
		return err
	}

	return viz.RunLive(exp.Sys, st, exp.Params, exp.X0, cfg.T0, cfg.RunConfig().Dt(), cfg.Model)
}

func deleteRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(ctx, args[0])
}
