package scenario

import (
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
	"siteopt/pkg/utils"
)

// Session holds one interactive what-if loop: the fixed baseline record, the
// dataset it was solved from, and an incrementing scenario counter. Every
// scenario in the session is diffed against the same baseline. Sessions are
// used from a single goroutine.
type Session struct {
	ID              string
	Baseline        *planning.SolutionRecord
	BaselineDataset *dataset.Dataset

	nextNumber int
}

// NewSession starts a session around a solved baseline. The dataset is cloned
// so later caller-side mutation cannot leak into scenario clones.
func NewSession(baseline *planning.SolutionRecord, ds *dataset.Dataset) *Session {
	return &Session{
		ID:              utils.GenerateRunID("session", baseline.Label),
		Baseline:        baseline,
		BaselineDataset: ds.Clone(),
		nextNumber:      1,
	}
}

// NextScenarioNumber hands out 1, 2, 3... across the session.
func (s *Session) NextScenarioNumber() int {
	n := s.nextNumber
	s.nextNumber++
	return n
}
