package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"siteopt/internal/adapters/ingest"
	"siteopt/internal/adapters/persistence"
	"siteopt/internal/adapters/reports"
	"siteopt/internal/adapters/solver"
	"siteopt/internal/application/common"
	"siteopt/internal/application/scenario"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/infrastructure/config"
	"siteopt/internal/infrastructure/database"
)

// app bundles the dependencies every command wires the same way: config,
// database, dataset loader, mediator with all handlers registered, scenario
// store and report writer.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	loader   *ingest.Loader
	mediator common.Mediator
	store    scenario.Store
	writer   *reports.Writer
}

// newApp loads configuration and wires the full dependency graph. Commands
// call this at the top of RunE.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pipeline := solve.NewPipeline(solver.NewSimplexSolver(nil), nil)

	med := common.NewMediator()

	baselineHandler := solve.NewRunBaselineHandler(pipeline)
	if err := common.RegisterHandler[*solve.RunBaselineCommand](med, baselineHandler); err != nil {
		return nil, fmt.Errorf("failed to register RunBaseline handler: %w", err)
	}

	checkHandler := solve.NewCheckFeasibilityHandler()
	if err := common.RegisterHandler[*solve.CheckFeasibilityQuery](med, checkHandler); err != nil {
		return nil, fmt.Errorf("failed to register CheckFeasibility handler: %w", err)
	}

	scenarioHandler := scenario.NewRunScenarioHandler(pipeline)
	if err := common.RegisterHandler[*scenario.RunScenarioCommand](med, scenarioHandler); err != nil {
		return nil, fmt.Errorf("failed to register RunScenario handler: %w", err)
	}

	compareHandler := scenario.NewCompareScenariosHandler()
	if err := common.RegisterHandler[*scenario.CompareScenariosQuery](med, compareHandler); err != nil {
		return nil, fmt.Errorf("failed to register CompareScenarios handler: %w", err)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		loader:   ingest.NewLoader(),
		mediator: med,
		store:    persistence.NewGormScenarioStore(db, nil),
		writer:   reports.NewWriter(cfg.Reports.OutputDir, nil),
	}, nil
}

// close releases the database handle. Safe on a partially built app.
func (a *app) close() {
	if a.db != nil {
		_ = database.Close(a.db)
	}
}

// commandContext returns the context every command runs under, with the
// console logger installed so handler progress lines reach stderr.
func (a *app) commandContext(ctx context.Context) context.Context {
	return common.WithLogger(ctx, newConsoleLogger(verbose))
}

// loadDataset reads and validates the dataset, honoring a --dataset override.
func (a *app) loadDataset(override string) (*dataset.Dataset, error) {
	path := a.cfg.Data.DatasetPath
	if override != "" {
		path = override
	}
	ds, err := a.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return ds, nil
}

// solverOptions maps the solver config section onto per-call options.
func (a *app) solverOptions() optimize.Options {
	return optimize.Options{
		TimeLimit: a.cfg.Solver.TimeLimit,
		Tolerance: a.cfg.Solver.Tolerance,
	}
}
