package solve

import (
	"context"
	"fmt"

	"siteopt/internal/application/common"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/planning"
)

// RunBaselineCommand solves the unmodified dataset end to end.
type RunBaselineCommand struct {
	Dataset *dataset.Dataset
	Label   string // defaults to "baseline"
	Options optimize.Options
}

// RunBaselineResponse carries the solved record and its pre-check reports.
type RunBaselineResponse struct {
	Record              *planning.SolutionRecord
	PhaseOneFeasibility *planning.FeasibilityReport
	FullFeasibility     *planning.FeasibilityReport
}

// RunBaselineHandler handles baseline solve commands
type RunBaselineHandler struct {
	pipeline *Pipeline
}

// NewRunBaselineHandler creates a new baseline handler
func NewRunBaselineHandler(pipeline *Pipeline) *RunBaselineHandler {
	return &RunBaselineHandler{pipeline: pipeline}
}

// Handle runs the two-phase solve on the command's dataset.
func (h *RunBaselineHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunBaselineCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Dataset == nil {
		return nil, fmt.Errorf("baseline solve requires a dataset")
	}

	label := cmd.Label
	if label == "" {
		label = "baseline"
	}

	result, err := h.pipeline.Run(ctx, cmd.Dataset, label, cmd.Options)
	if err != nil {
		return nil, err
	}

	return &RunBaselineResponse{
		Record:              result.Record,
		PhaseOneFeasibility: result.PhaseOneFeasibility,
		FullFeasibility:     result.FullFeasibility,
	}, nil
}
