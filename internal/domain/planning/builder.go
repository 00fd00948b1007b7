package planning

import (
	"errors"
	"fmt"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/optimize"
)

// flowCutoff is the tonnage below which a solved quantity counts as noise:
// ignored during extraction and when judging whether a site has material.
const flowCutoff = 0.01

// errNoPortLane marks a candidate facility with no usable outbound lane.
// Phase-1 skips such candidates; Phase-2 turns it into a model-infeasible
// error since the facility is already fixed.
var errNoPortLane = errors.New("no outbound port lane from facility")

// procureVar names the sourcing column for (site, material).
func procureVar(siteID string, m dataset.Material) string {
	return fmt.Sprintf("procure[%s|%s]", siteID, m)
}

// shipVar names the port flow column.
func shipVar(portID string) string {
	return fmt.Sprintf("ship[%s]", portID)
}

// allowedPorts returns the port ids the model may ship through, honoring the
// forced-ports override, ascending order.
func allowedPorts(ds *dataset.Dataset) []string {
	if len(ds.Overrides.ForcedPorts) == 0 {
		return ds.PortIDs()
	}
	forced := make(map[string]bool, len(ds.Overrides.ForcedPorts))
	for _, id := range ds.Overrides.ForcedPorts {
		forced[id] = true
	}
	ids := make([]string, 0, len(forced))
	for _, id := range ds.PortIDs() {
		if forced[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// buildCandidateModel assembles the sourcing and shipping LP for one facility
// candidate over the given material set.
//
// Columns:
//   - procure[s|m]: raw tons bought at site s, bounded by availability.
//     Omitted when the site has none of m or the inbound lane to the
//     facility is undefined. Cost = purchase price + inbound rate
//     (zero within the facility site for A-D, the flat rate for E).
//   - ship[p]: finished tons through port p.
//     Cost = outbound rate + port operational cost + sea freight.
//
// Rows:
//   - cap[m]:       yield_m * sum_s procure[s|m] <= share_m * target
//   - production:   sum_{s,m} yield_m * procure[s|m] == target
//   - port_balance: sum_p ship[p] == target
//
// The facility indicator of the full MILP is realized by candidate
// enumeration, and port indicators are presolved away: ports carry no
// activation cost, so optimal flows land on the cheapest ports and the used
// set is read from positive flows afterward.
func buildCandidateModel(ds *dataset.Dataset, facilityID string, materials []dataset.Material) (*optimize.Model, error) {
	target := ds.Demand.TargetTons
	model := optimize.NewModel(facilityID)

	production := optimize.Constraint{
		Name:  "production",
		Terms: make(map[string]float64),
		Sense: optimize.Equal,
		RHS:   target,
	}

	for _, m := range materials {
		yield := ds.Demand.Yield(m)
		cap := optimize.Constraint{
			Name:  fmt.Sprintf("cap[%s]", m),
			Terms: make(map[string]float64),
			Sense: optimize.LessEqual,
			RHS:   ds.Demand.MaxShare(m) * target,
		}
		for _, siteID := range ds.SiteIDs() {
			point, _ := ds.Point(siteID)
			volume := point.Volume(m)
			if volume < flowCutoff {
				continue
			}
			rate, ok := inboundRate(ds, siteID, facilityID, m)
			if !ok {
				continue // lane undefined, combination unusable
			}
			name := procureVar(siteID, m)
			if err := model.AddVariable(name, point.Price(m)+rate, 0, volume); err != nil {
				return nil, err
			}
			cap.Terms[name] = yield
			production.Terms[name] = yield
		}
		model.AddConstraint(cap)
	}
	model.AddConstraint(production)

	portBalance := optimize.Constraint{
		Name:  "port_balance",
		Terms: make(map[string]float64),
		Sense: optimize.Equal,
		RHS:   target,
	}
	for _, portID := range allowedPorts(ds) {
		rate, ok := ds.Freight.OutboundRate(facilityID, portID)
		if !ok {
			continue
		}
		port, _ := ds.PortByID(portID)
		name := shipVar(portID)
		if err := model.AddVariable(name, rate+port.OperationalCost+port.SeaFreight, 0, optimize.Inf()); err != nil {
			return nil, err
		}
		portBalance.Terms[name] = 1
	}
	if len(portBalance.Terms) == 0 {
		return nil, fmt.Errorf("facility %s: %w", facilityID, errNoPortLane)
	}
	model.AddConstraint(portBalance)

	return model, nil
}

// inboundRate prices moving one raw ton of material m from a site to the
// facility. Material E always pays the flat rate, whatever the source.
func inboundRate(ds *dataset.Dataset, fromSite, facilityID string, m dataset.Material) (float64, bool) {
	if m == dataset.MaterialE {
		return ds.Freight.MaterialEFlat, true
	}
	return ds.Freight.InboundRate(fromSite, facilityID)
}
