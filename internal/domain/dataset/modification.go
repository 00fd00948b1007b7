package dataset

import (
	"fmt"
	"strings"
)

// ModificationType tags the parameter a what-if modification touches.
type ModificationType string

const (
	ModProductionTarget ModificationType = "production_target"
	ModFreightCost      ModificationType = "freight_cost"
	ModMaterialVolume   ModificationType = "material_volume"
	ModMaterialPrice    ModificationType = "material_price"
	ModMaterialYield    ModificationType = "material_yield"
	ModMaxConsumption   ModificationType = "material_max_consumption"
	ModForcedFacility   ModificationType = "forced_facility"
	ModForcedPorts      ModificationType = "forced_ports"
)

// Action says how the payload value is applied.
type Action string

const (
	ActionSet   Action = "set"
	ActionScale Action = "scale-by"
)

// FreightLeg selects which freight table a freight_cost modification hits.
type FreightLeg string

const (
	LegInbound  FreightLeg = "inbound"
	LegOutbound FreightLeg = "outbound"
	LegSea      FreightLeg = "sea"
)

// Modification is one structured what-if change. Selector fields narrow the
// scope; empty selectors mean "all" where the type allows it. Applying a
// modification is pure: the source dataset is never touched.
type Modification struct {
	Type   ModificationType
	Action Action
	Value  float64

	SiteID     string     // material_volume / material_price
	Material   Material   // material_* types
	Leg        FreightLeg // freight_cost
	FromSite   string     // freight_cost inbound lane
	ToSite     string     // freight_cost inbound lane
	PortID     string     // freight_cost outbound/sea lane
	Ports      []string   // forced_ports
	FacilityID string     // forced_facility
}

// Describe renders a single human-readable line for reports and logs.
func (m Modification) Describe() string {
	switch m.Type {
	case ModProductionTarget:
		return fmt.Sprintf("production target %s %.2f", verb(m.Action), m.Value)
	case ModFreightCost:
		scope := "all lanes"
		switch {
		case m.Leg == LegInbound && m.FromSite != "":
			scope = fmt.Sprintf("lane %s->%s", m.FromSite, m.ToSite)
		case m.Leg == LegOutbound && m.FromSite != "":
			scope = fmt.Sprintf("lane %s->%s", m.FromSite, m.PortID)
		case m.Leg == LegSea && m.PortID != "":
			scope = fmt.Sprintf("port %s", m.PortID)
		}
		return fmt.Sprintf("%s freight %s %s %.2f", m.Leg, scope, verb(m.Action), m.Value)
	case ModMaterialVolume:
		return fmt.Sprintf("volume of %s at %s %s %.2f", m.Material.ReportName(), m.SiteID, verb(m.Action), m.Value)
	case ModMaterialPrice:
		switch {
		case m.SiteID == "" && m.Material == "":
			return fmt.Sprintf("all material prices %s %.2f", verb(m.Action), m.Value)
		case m.SiteID == "":
			return fmt.Sprintf("price of %s at every site %s %.2f", m.Material.ReportName(), verb(m.Action), m.Value)
		}
		return fmt.Sprintf("price of %s at %s %s %.2f", m.Material.ReportName(), m.SiteID, verb(m.Action), m.Value)
	case ModMaterialYield:
		return fmt.Sprintf("yield of %s %s %.3f", m.Material.ReportName(), verb(m.Action), m.Value)
	case ModMaxConsumption:
		return fmt.Sprintf("max consumption share of %s %s %.3f", m.Material.ReportName(), verb(m.Action), m.Value)
	case ModForcedFacility:
		return fmt.Sprintf("facility forced to %s", m.FacilityID)
	case ModForcedPorts:
		return fmt.Sprintf("ports restricted to %s", strings.Join(m.Ports, ", "))
	}
	return fmt.Sprintf("unknown modification %q", m.Type)
}

func verb(a Action) string {
	if a == ActionScale {
		return "scaled by"
	}
	return "set to"
}
