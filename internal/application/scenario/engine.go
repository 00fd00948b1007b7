package scenario

import (
	"context"
	"fmt"

	"siteopt/internal/application/common"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/planning"
)

// RunScenarioCommand solves a what-if variation of a baseline dataset.
type RunScenarioCommand struct {
	Baseline      *dataset.Dataset
	Modifications []dataset.Modification
	Label         string // defaults to "scenario"
	Options       optimize.Options
}

// RunScenarioResponse carries the scenario record plus the mutated dataset
// the reporting layer renders from.
type RunScenarioResponse struct {
	Record              *planning.SolutionRecord
	Dataset             *dataset.Dataset
	PhaseOneFeasibility *planning.FeasibilityReport
	FullFeasibility     *planning.FeasibilityReport
}

// RunScenarioHandler handles what-if solve commands
type RunScenarioHandler struct {
	pipeline *solve.Pipeline
}

// NewRunScenarioHandler creates a new scenario handler
func NewRunScenarioHandler(pipeline *solve.Pipeline) *RunScenarioHandler {
	return &RunScenarioHandler{pipeline: pipeline}
}

// Handle applies the modifications to a clone of the baseline and runs the
// full pipeline on the result. The baseline dataset is never mutated, so the
// caller can keep using it for further scenarios.
func (h *RunScenarioHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunScenarioCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Baseline == nil {
		return nil, fmt.Errorf("scenario solve requires a baseline dataset")
	}

	logger := common.LoggerFromContext(ctx)

	mutated, err := applyModifications(cmd.Baseline, cmd.Modifications)
	if err != nil {
		return nil, err
	}
	for _, mod := range cmd.Modifications {
		logger.Log("INFO", "Applied modification", map[string]interface{}{
			"change": mod.Describe(),
		})
	}

	label := cmd.Label
	if label == "" {
		label = "scenario"
	}

	result, err := h.pipeline.Run(ctx, mutated, label, cmd.Options)
	if err != nil {
		return nil, err
	}

	return &RunScenarioResponse{
		Record:              result.Record,
		Dataset:             mutated,
		PhaseOneFeasibility: result.PhaseOneFeasibility,
		FullFeasibility:     result.FullFeasibility,
	}, nil
}
