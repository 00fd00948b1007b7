// Package solve orchestrates the two-phase facility optimization: feasibility
// pre-checks, facility selection over the unconstrained materials, the full
// re-solve with the constrained material, and extraction of the final record.
package solve

import (
	"context"

	"siteopt/internal/application/common"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/planning"
	"siteopt/internal/domain/shared"
)

// Pipeline runs one complete solve over a dataset. Baseline and what-if
// scenarios share it: a scenario is the same pipeline on a modified dataset.
type Pipeline struct {
	checker   *planning.FeasibilityChecker
	phase1    *planning.PhaseOneEngine
	phase2    *planning.PhaseTwoEngine
	extractor *planning.SolutionExtractor
}

// NewPipeline wires the pipeline around one solver implementation.
func NewPipeline(solver optimize.Solver, clock shared.Clock) *Pipeline {
	return &Pipeline{
		checker:   planning.NewFeasibilityChecker(),
		phase1:    planning.NewPhaseOneEngine(solver, clock),
		phase2:    planning.NewPhaseTwoEngine(solver, clock),
		extractor: planning.NewSolutionExtractor(clock),
	}
}

// PipelineResult bundles the solved record with the pre-check reports that
// gated it.
type PipelineResult struct {
	Record              *planning.SolutionRecord
	PhaseOneFeasibility *planning.FeasibilityReport
	FullFeasibility     *planning.FeasibilityReport
}

// Run validates the dataset, gates each phase behind its capacity pre-check,
// solves both phases and extracts the record. Every failure keeps its domain
// error type so callers can distinguish data problems from model ones.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset, label string, opts optimize.Options) (*PipelineResult, error) {
	logger := common.LoggerFromContext(ctx)

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	pre1, err := p.checker.Ensure(ds, dataset.PhaseOneMaterials(), 1)
	if err != nil {
		return nil, err
	}

	phase1, err := p.phase1.Run(ctx, ds, opts)
	if err != nil {
		return nil, err
	}
	logger.Log("INFO", "Facility selected", map[string]interface{}{
		"facility":   phase1.FacilityID,
		"objective":  phase1.Objective,
		"candidates": len(phase1.Candidates),
	})

	preFull, err := p.checker.Ensure(ds, dataset.AllMaterials(), 2)
	if err != nil {
		return nil, err
	}

	phase2, err := p.phase2.Run(ctx, ds, phase1.FacilityID, opts)
	if err != nil {
		return nil, err
	}

	record := p.extractor.Extract(ds, phase1, phase2, label)
	logger.Log("INFO", "Solve complete", map[string]interface{}{
		"run_id":     record.ID,
		"total_cost": record.Costs.Total,
		"raw_tons":   record.TotalRawTons,
		"ports":      record.SelectedPorts,
		"solve_time": record.SolveTime.String(),
	})

	return &PipelineResult{
		Record:              record,
		PhaseOneFeasibility: pre1,
		FullFeasibility:     preFull,
	}, nil
}
