package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/evolvers/internal/config"
	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/internal/experiment"
	"github.com/ducminhle1904/evolvers/internal/logger"
	"github.com/ducminhle1904/evolvers/internal/monitoring"
	"github.com/ducminhle1904/evolvers/internal/problems/sumtarget"
	"github.com/ducminhle1904/evolvers/pkg/evolution"
	"github.com/ducminhle1904/evolvers/pkg/reporting"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if *flags.Version {
		PrintVersion(os.Stdout)
		return
	}

	if err := flags.Validate(); err != nil {
		log.Fatalf("❌ Invalid flags: %v", err)
	}

	loadEnv(*flags.EnvFile)

	cfg := config.Load()
	flags.ApplyTo(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}
}

func loadEnv(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("⚠️ Could not load environment file %s: %v", path, err)
		return
	}
	log.Printf("✅ Environment loaded from %s", path)
}

// setup holds what every run of an experiment shares
type setup struct {
	cfg       *config.Config
	problem   sumtarget.Problem
	strategy  experiment.Strategy
	mutation  func(*rand.Rand) evolution.MutationFunc[int]
	outputDir string
	runLog    *logger.Logger
}

// ordering reports how scores compare. Proportional selection needs positive
// weights, so it scores by closeness instead of distance.
func (s *setup) ordering() evolution.Ordering {
	if s.strategy == experiment.StrategyProportional {
		return evolution.HigherIsBetter
	}
	return evolution.LowerIsBetter
}

// options builds runner options around rng. Progress and snapshots are only
// attached to single runs.
func (s *setup) options(rng *rand.Rand, progress experiment.ProgressTracker, snapshots bool) experiment.Options[sumtarget.Genome, int] {
	cfg := s.cfg
	opts := experiment.Options[sumtarget.Genome, int]{
		Name:            cfg.ExperimentName,
		Strategy:        s.strategy,
		TruncationRatio: cfg.Evolution.TruncationRatio,
		MutationRate:    cfg.Evolution.MutationRate,
		Mutation:        s.mutation(rng),
		MaxGenerations:  cfg.Evolution.MaxGenerations,
		Format:          func(g sumtarget.Genome) string { return g.String() },
		Logger:          s.runLog,
	}
	if progress != nil {
		opts.Progress = progress
	}
	opts.Ordering = s.ordering()
	if s.strategy == experiment.StrategyProportional {
		opts.Fitness = s.problem.Closeness
		opts.Converged = experiment.MeanAbove(1 / (1 + cfg.Evolution.FitnessThreshold))
	} else {
		opts.Fitness = s.problem.Distance
		opts.Converged = experiment.MeanBelow(cfg.Evolution.FitnessThreshold)
	}
	if snapshots && cfg.Output.SnapshotEvery > 0 {
		snapshotDir := cfg.Output.SnapshotDir
		if snapshotDir == "" {
			snapshotDir = filepath.Join(s.outputDir, "snapshots")
		}
		opts.SnapshotEvery = cfg.Output.SnapshotEvery
		opts.Snapshots = reporting.NewSnapshotWriter(snapshotDir)
	}
	return opts
}

// run executes the experiment described by cfg and writes its reports.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	strategy, err := experiment.ParseStrategy(cfg.Evolution.Strategy)
	if err != nil {
		return err
	}

	runLog, err := logger.NewLoggerInDir(cfg.Output.LogDir, cfg.ExperimentName, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return evoerrors.NewIOError("main", "NewLogger", err)
	}
	defer runLog.Close()

	s := &setup{
		cfg: cfg,
		problem: sumtarget.Problem{
			GenomeLength: cfg.Problem.GenomeLength,
			GeneMin:      cfg.Problem.GeneMin,
			GeneMax:      cfg.Problem.GeneMax,
			Target:       cfg.Problem.TargetSum,
		},
		strategy:  strategy,
		outputDir: cfg.Output.ResultsDir,
		runLog:    runLog,
	}
	if s.mutation, err = s.problem.MutationOperator(cfg.Evolution.Mutation); err != nil {
		return err
	}
	if s.outputDir == "" {
		s.outputDir = reporting.DefaultOutputDir(cfg.ExperimentName, string(strategy))
	}

	health := monitoring.NewHealthChecker(cfg.ExperimentName, cfg.Evolution.MaxGenerations)
	if cfg.Monitoring.PrometheusPort > 0 {
		srv := startMonitoringServer(cfg.Monitoring.PrometheusPort, health)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMonitoringServer(shutdownCtx, srv)
		}()
	}

	_, seed := experiment.NewRNG(cfg.Evolution.Seed)
	console := reporting.NewConsoleReporterTo(out)
	console.PrintConfig("⚙️ RUN CONFIGURATION", [][2]string{
		{"Experiment", cfg.ExperimentName},
		{"Strategy", fmt.Sprintf("%s (%s)", strategy, s.ordering())},
		{"Population", strconv.Itoa(cfg.Evolution.PopulationSize)},
		{"Genome", fmt.Sprintf("%d genes in [%d, %d]", s.problem.GenomeLength, s.problem.GeneMin, s.problem.GeneMax)},
		{"Target Sum", strconv.Itoa(s.problem.Target)},
		{"Max Generations", strconv.Itoa(cfg.Evolution.MaxGenerations)},
		{"Mutation", fmt.Sprintf("%s at rate %s", cfg.Evolution.Mutation, strconv.FormatFloat(cfg.Evolution.MutationRate, 'g', -1, 64))},
		{"Seed", strconv.FormatUint(seed, 10)},
		{"Runs", strconv.Itoa(cfg.Evolution.Runs)},
	})

	if cfg.Evolution.Runs > 1 {
		return runBatch(ctx, s, seed, console, out)
	}
	return runSingle(ctx, s, seed, health, console, out)
}

func runSingle(ctx context.Context, s *setup, seed uint64, health *monitoring.HealthChecker, console *reporting.DefaultConsoleReporter, out io.Writer) error {
	cfg := s.cfg
	rng, _ := experiment.NewRNG(seed)
	opts := s.options(rng, health, true)

	population, err := s.problem.NewPopulation(cfg.Evolution.PopulationSize, rng)
	if err != nil {
		return err
	}

	runner, err := experiment.NewRunner(opts, rng)
	if err != nil {
		return err
	}

	s.runLog.Info("Starting %s: strategy=%s population=%d seed=%d", cfg.ExperimentName, s.strategy, len(population), seed)
	result, runErr := runner.Run(ctx, population)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		s.runLog.Warning("Run interrupted after %d generations", result.Generations)
		fmt.Fprintf(out, "⚠️ Interrupted after %d generations, reporting partial results\n", result.Generations)
	}

	manager := reporting.NewReportingManagerWith(reporting.NewReporterWithConsole(console), reporting.ReportingConfig{
		EnableConsole:   true,
		EnableFiles:     true,
		OutputDirectory: s.outputDir,
		ExcelEnabled:    cfg.Output.ExcelReport,
		CSVEnabled:      true,
		JSONEnabled:     true,
	})
	written, err := manager.ReportRun(runner.Summary(result, seed), result.History, experiment.EntityRecords(result.Evaluation, runner.Format))
	if err != nil {
		s.runLog.LogError("report", err)
		return evoerrors.NewIOError("main", "ReportRun", err)
	}
	for _, path := range written {
		fmt.Fprintf(out, "📁 %s\n", path)
	}
	if len(result.Snapshots) > 0 {
		fmt.Fprintf(out, "📸 %d snapshots in %s\n", len(result.Snapshots), opts.Snapshots.Dir())
	}

	return runErr
}

// runBatch repeats the experiment with consecutive seeds in parallel and
// writes one summary per trial plus a table of all trials.
func runBatch(ctx context.Context, s *setup, baseSeed uint64, console *reporting.DefaultConsoleReporter, out io.Writer) error {
	cfg := s.cfg

	seeds := make([]uint64, cfg.Evolution.Runs)
	for i := range seeds {
		seeds[i] = baseSeed + uint64(i)
	}

	trial := func(ctx context.Context, seed uint64) (reporting.RunSummary, error) {
		rng, _ := experiment.NewRNG(seed)
		runner, err := experiment.NewRunner(s.options(rng, nil, false), rng)
		if err != nil {
			return reporting.RunSummary{}, err
		}
		population, err := s.problem.NewPopulation(cfg.Evolution.PopulationSize, rng)
		if err != nil {
			return reporting.RunSummary{}, err
		}
		result, err := runner.Run(ctx, population)
		if err != nil {
			return reporting.RunSummary{}, err
		}
		return runner.Summary(result, seed), nil
	}

	s.runLog.Info("Starting batch of %d runs on %d workers", len(seeds), cfg.Evolution.Workers)
	results, err := experiment.RunBatch(ctx, seeds, cfg.Evolution.Workers, trial)

	rows := make([][2]string, 0, len(results))
	for _, r := range results {
		label := fmt.Sprintf("seed %d", r.Seed)
		if r.Err != nil {
			s.runLog.LogError("trial "+label, r.Err)
			rows = append(rows, [2]string{label, "❌ " + r.Err.Error()})
			continue
		}
		rows = append(rows, [2]string{label, fmt.Sprintf("gen=%d best=%.4f mean=%.4f converged=%t",
			r.Summary.Generations, r.Summary.Final.Best, r.Summary.Final.Mean, r.Summary.Converged)})

		path := filepath.Join(s.outputDir, fmt.Sprintf("summary_seed_%d.json", r.Seed))
		if werr := reporting.WriteSummaryJSON(r.Summary, path); werr != nil {
			return evoerrors.NewIOError("main", "WriteSummaryJSON", werr)
		}
	}

	better := s.ordering().Better
	agg := experiment.Summarize(results, better)
	rows = append(rows,
		[2]string{"Converged", fmt.Sprintf("%d / %d", agg.Converged, agg.Trials)},
		[2]string{"Failed", strconv.Itoa(agg.Failed)},
		[2]string{"Mean Generations", fmt.Sprintf("%.1f", agg.MeanGenerations)},
		[2]string{"Final Mean", fmt.Sprintf("%.4f ± %.4f", agg.MeanFinalMean, agg.StdFinalMean)},
		[2]string{"Best", fmt.Sprintf("%.4f (seed %d)", agg.BestFitness, agg.BestSeed)},
	)
	console.PrintConfig("🧪 BATCH RESULTS", rows)
	fmt.Fprintf(out, "📁 %s\n", s.outputDir)

	return err
}

func startMonitoringServer(port int, health *monitoring.HealthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", health)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		log.Printf("📊 Serving metrics and health on port %d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Monitoring server error: %v", err)
		}
	}()
	return srv
}

// shutdownMonitoringServer stops srv, logging a failed shutdown
func shutdownMonitoringServer(ctx context.Context, srv *http.Server) error {
	err := srv.Shutdown(ctx)
	if err != nil {
		log.Printf("Monitoring server shutdown error: %v", err)
	}
	return err
}
