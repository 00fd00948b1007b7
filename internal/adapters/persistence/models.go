package persistence

import (
	"time"
)

// SolveRecordModel represents the solve_records table. One row per completed
// solve within a session; scenario_number 0 is the baseline.
type SolveRecordModel struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID      string    `gorm:"column:session_id;not null;uniqueIndex:idx_session_scenario"`
	ScenarioNumber int       `gorm:"column:scenario_number;not null;uniqueIndex:idx_session_scenario"`
	Label          string    `gorm:"column:label;not null"`
	Explanation    string    `gorm:"column:explanation;type:text"`
	RecordJSON     string    `gorm:"column:record_json;type:text;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
}

func (SolveRecordModel) TableName() string {
	return "solve_records"
}
