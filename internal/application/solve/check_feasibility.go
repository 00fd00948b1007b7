package solve

import (
	"context"
	"fmt"

	"siteopt/internal/application/common"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
)

// CheckFeasibilityQuery asks whether the dataset can reach its production
// target, without running any solver.
type CheckFeasibilityQuery struct {
	Dataset *dataset.Dataset
}

// CheckFeasibilityResponse reports achievability per phase material set.
type CheckFeasibilityResponse struct {
	PhaseOne *planning.FeasibilityReport // materials A-D, gates facility selection
	Full     *planning.FeasibilityReport // all materials including E
}

// CheckFeasibilityHandler handles feasibility queries
type CheckFeasibilityHandler struct {
	checker *planning.FeasibilityChecker
}

// NewCheckFeasibilityHandler creates a new feasibility handler
func NewCheckFeasibilityHandler() *CheckFeasibilityHandler {
	return &CheckFeasibilityHandler{checker: planning.NewFeasibilityChecker()}
}

// Handle validates the dataset and computes both capacity reports. An
// infeasible dataset is a valid query result here, not an error: the caller
// asked precisely that question.
func (h *CheckFeasibilityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*CheckFeasibilityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if query.Dataset == nil {
		return nil, fmt.Errorf("feasibility check requires a dataset")
	}
	if err := query.Dataset.Validate(); err != nil {
		return nil, err
	}

	return &CheckFeasibilityResponse{
		PhaseOne: h.checker.Check(query.Dataset, dataset.PhaseOneMaterials()),
		Full:     h.checker.Check(query.Dataset, dataset.AllMaterials()),
	}, nil
}
