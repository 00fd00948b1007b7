package planning

import (
	"context"
	"errors"
	"fmt"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/shared"
)

// PhaseTwoEngine re-solves the full problem with the facility fixed and the
// constrained material included. Port usage is re-optimized: material E may
// shift flows to a different port mix than phase 1 found.
type PhaseTwoEngine struct {
	solver optimize.Solver
	clock  shared.Clock
}

// NewPhaseTwoEngine creates the engine.
func NewPhaseTwoEngine(solver optimize.Solver, clock shared.Clock) *PhaseTwoEngine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PhaseTwoEngine{solver: solver, clock: clock}
}

// Run solves the full material set at the given facility. Infeasibility here
// is its own condition: the chosen site cannot satisfy full demand once the
// constrained material is required, and that is reported, never papered over.
func (e *PhaseTwoEngine) Run(ctx context.Context, ds *dataset.Dataset, facilityID string, opts optimize.Options) (*PhaseResult, error) {
	limit := opts.TimeLimit
	if limit <= 0 {
		limit = defaultTimeLimit
	}
	pctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	if _, ok := ds.Point(facilityID); !ok {
		return nil, shared.NewInconsistentDataError("facility", fmt.Sprintf("unknown site %s", facilityID))
	}

	started := e.clock.Now()
	model, err := buildCandidateModel(ds, facilityID, dataset.AllMaterials())
	if err != nil {
		if errors.Is(err, errNoPortLane) {
			return nil, shared.NewModelInfeasibleError(2, facilityID, "no outbound port lane from the facility")
		}
		return nil, fmt.Errorf("phase 2 model: %w", err)
	}

	res, err := e.solver.Solve(pctx, model, opts)
	switch {
	case err == nil:
	case errors.Is(err, optimize.ErrInfeasible):
		return nil, shared.NewModelInfeasibleError(2, facilityID, "production target unreachable once the constrained material is included")
	case errors.Is(err, context.DeadlineExceeded):
		return nil, shared.NewSolveTimeoutError(2, limit)
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		return nil, fmt.Errorf("phase 2 solve at %s: %w", facilityID, err)
	}

	return &PhaseResult{
		FacilityID: facilityID,
		Objective:  res.Objective,
		Values:     res.Values,
		Duration:   e.clock.Now().Sub(started),
	}, nil
}
