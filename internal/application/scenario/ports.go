// Package scenario implements the what-if engine: structured modifications
// applied to a baseline clone, re-solved and diffed against the baseline.
package scenario

import (
	"context"
	"time"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
)

// ParsedScenario is what the natural-language collaborator returns: a name,
// a human-readable explanation and the structured modification list. The list
// is untrusted input; the engine validates every entry before solving.
type ParsedScenario struct {
	Name          string
	Explanation   string
	Modifications []dataset.Modification
}

// Parser translates free text into a ParsedScenario using the current
// baseline for context.
type Parser interface {
	Parse(ctx context.Context, text string, baseline *planning.SolutionRecord, ds *dataset.Dataset) (*ParsedScenario, error)
}

// StoredScenario is one persisted solve within a session. Scenario number 0
// is the baseline itself; what-if runs count up from 1.
type StoredScenario struct {
	SessionID      string
	ScenarioNumber int
	Label          string
	Explanation    string
	Record         *planning.SolutionRecord
	CreatedAt      time.Time
}

// Store persists session solve records so later invocations can compare
// against earlier runs.
type Store interface {
	Save(ctx context.Context, rec *StoredScenario) error
	Find(ctx context.Context, sessionID string, number int) (*StoredScenario, error)
	List(ctx context.Context, sessionID string) ([]*StoredScenario, error)

	// LatestSessionID returns the most recently written session, so CLI
	// invocations can default to "the session I just ran".
	LatestSessionID(ctx context.Context) (string, error)
}
