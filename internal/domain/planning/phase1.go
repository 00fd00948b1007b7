package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/shared"
)

const (
	// defaultTimeLimit bounds one phase when the caller does not.
	defaultTimeLimit = 5 * time.Minute

	// tieTolerance is the objective gap below which two candidate facilities
	// count as tied; ties keep the lexicographically smallest site id.
	tieTolerance = 1e-6
)

// CandidateOutcome records one facility candidate's sub-solve for diagnostics.
type CandidateOutcome struct {
	SiteID    string
	Objective float64
	Feasible  bool
	Duration  time.Duration
}

// PhaseResult carries one phase's solved values and bookkeeping.
type PhaseResult struct {
	FacilityID string
	Objective  float64
	Values     map[string]float64
	Duration   time.Duration
	Candidates []CandidateOutcome // phase 1 only
}

// PhaseOneEngine selects the facility. It prices facility-conditional inbound
// freight by solving one sourcing model per candidate site and keeping the
// cheapest, instead of a big-M MILP linking sourcing to an undecided facility.
// Candidates are visited in ascending site-id order and an incumbent is only
// replaced by a strictly cheaper candidate, so reruns on identical input pick
// the same facility.
type PhaseOneEngine struct {
	solver optimize.Solver
	clock  shared.Clock
}

// NewPhaseOneEngine creates the engine.
func NewPhaseOneEngine(solver optimize.Solver, clock shared.Clock) *PhaseOneEngine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PhaseOneEngine{solver: solver, clock: clock}
}

// Run picks the facility over the phase-one material set (A-D). The
// constrained material never influences where the facility is sited.
func (e *PhaseOneEngine) Run(ctx context.Context, ds *dataset.Dataset, opts optimize.Options) (*PhaseResult, error) {
	limit := opts.TimeLimit
	if limit <= 0 {
		limit = defaultTimeLimit
	}
	pctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	materials := dataset.PhaseOneMaterials()
	candidates := candidateSites(ds, materials)
	if len(candidates) == 0 {
		return nil, shared.NewModelInfeasibleError(1, "", "no collection point has phase-one material to anchor a facility")
	}

	started := e.clock.Now()
	var best *PhaseResult
	outcomes := make([]CandidateOutcome, 0, len(candidates))

	for _, siteID := range candidates {
		model, err := buildCandidateModel(ds, siteID, materials)
		if err != nil {
			if errors.Is(err, errNoPortLane) {
				outcomes = append(outcomes, CandidateOutcome{SiteID: siteID})
				continue
			}
			return nil, fmt.Errorf("phase 1 model for %s: %w", siteID, err)
		}

		res, err := e.solver.Solve(pctx, model, opts)
		switch {
		case err == nil:
			// keep going below
		case errors.Is(err, optimize.ErrInfeasible):
			outcomes = append(outcomes, CandidateOutcome{SiteID: siteID})
			continue
		case errors.Is(err, context.DeadlineExceeded):
			return nil, shared.NewSolveTimeoutError(1, limit)
		case errors.Is(err, context.Canceled):
			return nil, err
		default:
			return nil, fmt.Errorf("phase 1 solve at %s: %w", siteID, err)
		}

		outcomes = append(outcomes, CandidateOutcome{
			SiteID:    siteID,
			Objective: res.Objective,
			Feasible:  true,
			Duration:  res.Duration,
		})
		if best == nil || res.Objective < best.Objective-tieTolerance {
			best = &PhaseResult{
				FacilityID: siteID,
				Objective:  res.Objective,
				Values:     res.Values,
			}
		}
	}

	if best == nil {
		return nil, shared.NewModelInfeasibleError(1, "", "every candidate facility was infeasible despite passing the capacity pre-check")
	}
	best.Duration = e.clock.Now().Sub(started)
	best.Candidates = outcomes
	return best, nil
}

// candidateSites lists the facility candidates in ascending id order. A site
// qualifies only when it holds material itself; a forced facility bypasses
// that rule because the override is explicit.
func candidateSites(ds *dataset.Dataset, materials []dataset.Material) []string {
	if f := ds.Overrides.ForcedFacility; f != "" {
		if _, ok := ds.Point(f); ok {
			return []string{f}
		}
		return nil
	}
	var ids []string
	for _, id := range ds.SiteIDs() {
		point, _ := ds.Point(id)
		if point.TotalVolume(materials) >= flowCutoff {
			ids = append(ids, id)
		}
	}
	return ids
}
