package planning

import (
	"time"

	"siteopt/internal/domain/dataset"
)

// SourcingEntry is one (site, material) purchase in the final plan.
type SourcingEntry struct {
	SiteID   string
	Material dataset.Material
	Tons     float64
}

// PortShipment is the finished tonnage routed through one port.
type PortShipment struct {
	PortID string
	Tons   float64
}

// CostBreakdown itemizes the objective into its five components plus the
// derived per-ton averages. Purchase and inbound legs average over raw tons;
// outbound, port and sea legs average over finished tons.
type CostBreakdown struct {
	RawMaterial     float64
	InboundFreight  float64
	OutboundFreight float64
	PortOperations  float64
	SeaFreight      float64
	Total           float64

	RawMaterialPerRawTon         float64
	InboundPerRawTon             float64
	OutboundPerFinishedTon       float64
	PortOperationsPerFinishedTon float64
	SeaFreightPerFinishedTon     float64
	TotalPerFinishedTon          float64
}

// PhaseOneSummary keeps the facility-selection diagnostics.
type PhaseOneSummary struct {
	ObjectiveValue float64
	Duration       time.Duration
	Candidates     []CandidateOutcome
}

// PhaseTwoSummary keeps the final-solve diagnostics.
type PhaseTwoSummary struct {
	ObjectiveValue float64
	Duration       time.Duration
}

// PhaseBreakdown records which phase produced what: phase 1 decides the
// facility, phase 2 decides every flow and cost in the record.
type PhaseBreakdown struct {
	Phase1 PhaseOneSummary
	Phase2 PhaseTwoSummary
}

// SolutionRecord is the normalized result of one complete solve, baseline or
// scenario. Immutable once extracted; the comparator only ever reads two of
// them.
type SolutionRecord struct {
	ID        string
	Label     string
	CreatedAt time.Time

	FacilityID    string
	SelectedPorts []string

	Sourcing       []SourcingEntry
	TonsByMaterial map[dataset.Material]float64
	TonsBySite     map[string]float64
	PortShipments  []PortShipment

	TotalFinishedTons float64
	TotalRawTons      float64
	AverageYield      float64

	Costs  CostBreakdown
	Phases PhaseBreakdown

	SolveTime time.Duration
}
