package planning

import (
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/shared"
)

// feasibilityTolerance absorbs float rounding when comparing achievable
// tonnage against the target.
const feasibilityTolerance = 1e-6

// FeasibilityReport is the outcome of a pre-solve capacity check over one
// material subset.
type FeasibilityReport struct {
	TargetTons     float64
	AchievableTons float64
	Feasible       bool
	Limits         []shared.MaterialLimit // one entry per checked material, canonical order
}

// ShortfallTons is the missing tonnage when the report is infeasible, zero
// otherwise.
func (r *FeasibilityReport) ShortfallTons() float64 {
	if r.Feasible {
		return 0
	}
	return r.TargetTons - r.AchievableTons
}

// FeasibilityChecker validates that available material volume can reach the
// production target before any model is built. Pure computation, no solver
// involved.
type FeasibilityChecker struct{}

// NewFeasibilityChecker creates a checker.
func NewFeasibilityChecker() *FeasibilityChecker {
	return &FeasibilityChecker{}
}

// Check computes the maximum finished tonnage the given materials can supply.
// Each material contributes min(total volume x yield, share x target): it can
// never convert more raw tonnage than exists, and never supply more than its
// consumption share of the target. Max-consumption is applied to
// finished-product-equivalent tons.
func (c *FeasibilityChecker) Check(ds *dataset.Dataset, materials []dataset.Material) *FeasibilityReport {
	target := ds.Demand.TargetTons
	report := &FeasibilityReport{
		TargetTons: target,
		Limits:     make([]shared.MaterialLimit, 0, len(materials)),
	}
	for _, m := range materials {
		supplyCap := ds.TotalVolume(m) * ds.Demand.Yield(m)
		shareCap := ds.Demand.MaxShare(m) * target

		contribution := supplyCap
		bound := "supply"
		if shareCap < supplyCap {
			contribution = shareCap
			bound = "share"
		}
		report.AchievableTons += contribution
		report.Limits = append(report.Limits, shared.MaterialLimit{
			Material:   m.ReportName(),
			Achievable: contribution,
			Bound:      bound,
		})
	}
	report.Feasible = report.AchievableTons+feasibilityTolerance >= target
	return report
}

// Ensure runs Check and converts an infeasible report into a
// DataInfeasibleError attributed to the given phase.
func (c *FeasibilityChecker) Ensure(ds *dataset.Dataset, materials []dataset.Material, phase int) (*FeasibilityReport, error) {
	report := c.Check(ds, materials)
	if !report.Feasible {
		return report, shared.NewDataInfeasibleError(phase, report.TargetTons, report.AchievableTons, report.Limits)
	}
	return report, nil
}
