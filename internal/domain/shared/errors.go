package shared

import (
	"fmt"
	"strings"
	"time"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Feasibility errors

// MaterialLimit records how much finished product one material can contribute
// and which bound stops it: "supply" when the raw volume runs out first,
// "share" when the consumption cap does.
type MaterialLimit struct {
	Material   string
	Achievable float64
	Bound      string
}

type DataInfeasibleError struct {
	*DomainError
	Phase          int
	TargetTons     float64
	AchievableTons float64
	ShortfallTons  float64
	Limits         []MaterialLimit
}

func NewDataInfeasibleError(phase int, targetTons, achievableTons float64, limits []MaterialLimit) *DataInfeasibleError {
	names := make([]string, len(limits))
	for i, l := range limits {
		names[i] = fmt.Sprintf("%s(%s)", l.Material, l.Bound)
	}
	return &DataInfeasibleError{
		DomainError: &DomainError{Message: fmt.Sprintf(
			"target %.1f t unreachable before phase %d: achievable %.1f t, shortfall %.1f t, binding %s",
			targetTons, phase, achievableTons, targetTons-achievableTons, strings.Join(names, ", "))},
		Phase:          phase,
		TargetTons:     targetTons,
		AchievableTons: achievableTons,
		ShortfallTons:  targetTons - achievableTons,
		Limits:         limits,
	}
}

// Solver errors

type ModelInfeasibleError struct {
	*DomainError
	Phase      int
	FacilityID string
	Detail     string
}

func NewModelInfeasibleError(phase int, facilityID, detail string) *ModelInfeasibleError {
	msg := fmt.Sprintf("phase %d model infeasible: %s", phase, detail)
	if facilityID != "" {
		msg = fmt.Sprintf("phase %d model infeasible at facility %s: %s", phase, facilityID, detail)
	}
	return &ModelInfeasibleError{
		DomainError: &DomainError{Message: msg},
		Phase:       phase,
		FacilityID:  facilityID,
		Detail:      detail,
	}
}

type SolveTimeoutError struct {
	*DomainError
	Phase int
	Limit time.Duration
}

func NewSolveTimeoutError(phase int, limit time.Duration) *SolveTimeoutError {
	return &SolveTimeoutError{
		DomainError: &DomainError{Message: fmt.Sprintf("phase %d solve exceeded time limit %s", phase, limit)},
		Phase:       phase,
		Limit:       limit,
	}
}

// What-if errors

type InvalidModificationError struct {
	*DomainError
	Index   int
	ModType string
	Reason  string
}

func NewInvalidModificationError(index int, modType, reason string) *InvalidModificationError {
	return &InvalidModificationError{
		DomainError: &DomainError{Message: fmt.Sprintf("modification %d (%s): %s", index, modType, reason)},
		Index:       index,
		ModType:     modType,
		Reason:      reason,
	}
}

// Dataset errors

type InconsistentDataError struct {
	*DomainError
	Field  string
	Reason string
}

func NewInconsistentDataError(field, reason string) *InconsistentDataError {
	return &InconsistentDataError{
		DomainError: &DomainError{Message: fmt.Sprintf("inconsistent data at %s: %s", field, reason)},
		Field:       field,
		Reason:      reason,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
