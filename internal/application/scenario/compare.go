package scenario

import (
	"context"
	"fmt"

	"siteopt/internal/application/common"
	"siteopt/internal/domain/planning"
)

// CompareScenariosQuery diffs two solved records. Either side may be the
// baseline or an earlier scenario; the comparator only reads them.
type CompareScenariosQuery struct {
	Baseline *planning.SolutionRecord
	Scenario *planning.SolutionRecord
}

// CompareScenariosResponse carries the computed diff.
type CompareScenariosResponse struct {
	Diff *planning.DiffRecord
}

// CompareScenariosHandler handles comparison queries
type CompareScenariosHandler struct {
	comparator *planning.Comparator
}

// NewCompareScenariosHandler creates a new comparison handler
func NewCompareScenariosHandler() *CompareScenariosHandler {
	return &CompareScenariosHandler{comparator: planning.NewComparator()}
}

// Handle computes the diff between the two records.
func (h *CompareScenariosHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*CompareScenariosQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if query.Baseline == nil || query.Scenario == nil {
		return nil, fmt.Errorf("comparison requires two solution records")
	}

	return &CompareScenariosResponse{
		Diff: h.comparator.Compare(query.Baseline, query.Scenario),
	}, nil
}
