package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"siteopt/internal/application/scenario"
	"siteopt/internal/domain/planning"
	"siteopt/internal/domain/shared"
)

// GormScenarioStore is a GORM-based implementation of scenario.Store. Solution
// records are stored as JSON text; the relational columns only carry what the
// lookups need.
type GormScenarioStore struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormScenarioStore creates a new scenario store.
// If clock is nil, uses RealClock (production behavior).
func NewGormScenarioStore(db *gorm.DB, clock shared.Clock) *GormScenarioStore {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormScenarioStore{db: db, clock: clock}
}

// Save persists one solve record under its session and scenario number.
func (s *GormScenarioStore) Save(ctx context.Context, rec *scenario.StoredScenario) error {
	if rec == nil || rec.Record == nil {
		return fmt.Errorf("nothing to save: record is nil")
	}
	recordJSON, err := json.Marshal(rec.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal solution record: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	model := &SolveRecordModel{
		SessionID:      rec.SessionID,
		ScenarioNumber: rec.ScenarioNumber,
		Label:          rec.Label,
		Explanation:    rec.Explanation,
		RecordJSON:     string(recordJSON),
		CreatedAt:      createdAt,
	}
	return s.db.WithContext(ctx).Create(model).Error
}

// Find retrieves one solve record by session and scenario number.
func (s *GormScenarioStore) Find(ctx context.Context, sessionID string, number int) (*scenario.StoredScenario, error) {
	var model SolveRecordModel
	result := s.db.WithContext(ctx).
		Where("session_id = ? AND scenario_number = ?", sessionID, number).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("scenario %d not found in session %s", number, sessionID)
		}
		return nil, fmt.Errorf("failed to find scenario: %w", result.Error)
	}
	return modelToStoredScenario(&model)
}

// List returns every solve record of a session in scenario order.
func (s *GormScenarioStore) List(ctx context.Context, sessionID string) ([]*scenario.StoredScenario, error) {
	var models []SolveRecordModel
	result := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("scenario_number ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", result.Error)
	}

	records := make([]*scenario.StoredScenario, 0, len(models))
	for i := range models {
		rec, err := modelToStoredScenario(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// LatestSessionID returns the session of the most recently written record, or
// an empty string when the store holds nothing yet.
func (s *GormScenarioStore) LatestSessionID(ctx context.Context) (string, error) {
	var model SolveRecordModel
	result := s.db.WithContext(ctx).Order("id DESC").First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to find latest session: %w", result.Error)
	}
	return model.SessionID, nil
}

func modelToStoredScenario(model *SolveRecordModel) (*scenario.StoredScenario, error) {
	var record planning.SolutionRecord
	if err := json.Unmarshal([]byte(model.RecordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal solution record: %w", err)
	}
	return &scenario.StoredScenario{
		SessionID:      model.SessionID,
		ScenarioNumber: model.ScenarioNumber,
		Label:          model.Label,
		Explanation:    model.Explanation,
		Record:         &record,
		CreatedAt:      model.CreatedAt,
	}, nil
}

var _ scenario.Store = (*GormScenarioStore)(nil)
