package planning

import (
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/shared"
	"siteopt/pkg/utils"
)

// SolutionExtractor turns solved variable values into a SolutionRecord.
// Costs are recomputed from dataset rates times solved quantities so the
// record stays consistent with the itemization even if a solver reports a
// slightly drifted objective.
type SolutionExtractor struct {
	clock shared.Clock
}

// NewSolutionExtractor creates an extractor.
func NewSolutionExtractor(clock shared.Clock) *SolutionExtractor {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SolutionExtractor{clock: clock}
}

// Extract builds the record for one complete solve. Quantities below the
// flow cutoff are solver noise and dropped everywhere.
func (x *SolutionExtractor) Extract(ds *dataset.Dataset, phase1, phase2 *PhaseResult, label string) *SolutionRecord {
	facilityID := phase2.FacilityID
	rec := &SolutionRecord{
		ID:             utils.GenerateRunID("solve", label),
		Label:          label,
		CreatedAt:      x.clock.Now(),
		FacilityID:     facilityID,
		TonsByMaterial: make(map[dataset.Material]float64),
		TonsBySite:     make(map[string]float64),
	}

	for _, siteID := range ds.SiteIDs() {
		point, _ := ds.Point(siteID)
		for _, m := range dataset.AllMaterials() {
			tons := phase2.Values[procureVar(siteID, m)]
			if tons < flowCutoff {
				continue
			}
			rate, _ := inboundRate(ds, siteID, facilityID, m)
			rec.Sourcing = append(rec.Sourcing, SourcingEntry{SiteID: siteID, Material: m, Tons: tons})
			rec.TonsByMaterial[m] += tons
			rec.TonsBySite[siteID] += tons
			rec.TotalRawTons += tons
			rec.TotalFinishedTons += tons * ds.Demand.Yield(m)
			rec.Costs.RawMaterial += tons * point.Price(m)
			rec.Costs.InboundFreight += tons * rate
		}
	}

	for _, portID := range ds.PortIDs() {
		tons := phase2.Values[shipVar(portID)]
		if tons < flowCutoff {
			continue
		}
		port, _ := ds.PortByID(portID)
		outRate, _ := ds.Freight.OutboundRate(facilityID, portID)
		rec.SelectedPorts = append(rec.SelectedPorts, portID)
		rec.PortShipments = append(rec.PortShipments, PortShipment{PortID: portID, Tons: tons})
		rec.Costs.OutboundFreight += tons * outRate
		rec.Costs.PortOperations += tons * port.OperationalCost
		rec.Costs.SeaFreight += tons * port.SeaFreight
	}

	c := &rec.Costs
	c.Total = c.RawMaterial + c.InboundFreight + c.OutboundFreight + c.PortOperations + c.SeaFreight
	c.RawMaterialPerRawTon = utils.SafeDiv(c.RawMaterial, rec.TotalRawTons)
	c.InboundPerRawTon = utils.SafeDiv(c.InboundFreight, rec.TotalRawTons)
	c.OutboundPerFinishedTon = utils.SafeDiv(c.OutboundFreight, rec.TotalFinishedTons)
	c.PortOperationsPerFinishedTon = utils.SafeDiv(c.PortOperations, rec.TotalFinishedTons)
	c.SeaFreightPerFinishedTon = utils.SafeDiv(c.SeaFreight, rec.TotalFinishedTons)
	c.TotalPerFinishedTon = utils.SafeDiv(c.Total, rec.TotalFinishedTons)
	rec.AverageYield = utils.SafeDiv(rec.TotalFinishedTons, rec.TotalRawTons)

	rec.Phases = PhaseBreakdown{
		Phase1: PhaseOneSummary{
			ObjectiveValue: phase1.Objective,
			Duration:       phase1.Duration,
			Candidates:     phase1.Candidates,
		},
		Phase2: PhaseTwoSummary{
			ObjectiveValue: phase2.Objective,
			Duration:       phase2.Duration,
		},
	}
	rec.SolveTime = phase1.Duration + phase2.Duration
	return rec
}
