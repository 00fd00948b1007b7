package scenario

import (
	"fmt"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/shared"
)

// applyModifications clones the baseline and applies every modification in
// list order, so later entries compound earlier ones (two scale-by on the
// same lane multiply). The first invalid entry aborts with an
// InvalidModificationError naming its 1-based position; the baseline dataset
// is never touched either way.
func applyModifications(baseline *dataset.Dataset, mods []dataset.Modification) (*dataset.Dataset, error) {
	ds := baseline.Clone()
	for i, mod := range mods {
		if err := applyOne(ds, mod); err != nil {
			return nil, shared.NewInvalidModificationError(i+1, string(mod.Type), err.Error())
		}
	}
	return ds, nil
}

func applyOne(ds *dataset.Dataset, mod dataset.Modification) error {
	switch mod.Type {
	case dataset.ModForcedFacility, dataset.ModForcedPorts:
		// identifier payloads, no action to validate
	default:
		if mod.Action != dataset.ActionSet && mod.Action != dataset.ActionScale {
			return fmt.Errorf("unknown action %q", mod.Action)
		}
	}

	switch mod.Type {
	case dataset.ModProductionTarget:
		return applyProductionTarget(ds, mod)
	case dataset.ModFreightCost:
		return applyFreightCost(ds, mod)
	case dataset.ModMaterialVolume:
		return applyMaterialVolume(ds, mod)
	case dataset.ModMaterialPrice:
		return applyMaterialPrice(ds, mod)
	case dataset.ModMaterialYield:
		return applyMaterialYield(ds, mod)
	case dataset.ModMaxConsumption:
		return applyMaxConsumption(ds, mod)
	case dataset.ModForcedFacility:
		return applyForcedFacility(ds, mod)
	case dataset.ModForcedPorts:
		return applyForcedPorts(ds, mod)
	}
	return fmt.Errorf("unknown modification type %q", mod.Type)
}

// applyValue resolves set vs scale-by against the current value. Callers have
// already rejected unknown actions.
func applyValue(current float64, action dataset.Action, value float64) float64 {
	if action == dataset.ActionScale {
		return current * value
	}
	return value
}

func applyProductionTarget(ds *dataset.Dataset, mod dataset.Modification) error {
	next := applyValue(ds.Demand.TargetTons, mod.Action, mod.Value)
	if next <= 0 {
		return fmt.Errorf("production target must stay positive, got %.2f", next)
	}
	ds.Demand.TargetTons = next
	return nil
}

func applyFreightCost(ds *dataset.Dataset, mod dataset.Modification) error {
	if mod.Value < 0 {
		return fmt.Errorf("freight rates cannot go negative")
	}
	switch mod.Leg {
	case dataset.LegInbound:
		return applyInboundFreight(ds, mod)
	case dataset.LegOutbound:
		return applyOutboundFreight(ds, mod)
	case dataset.LegSea:
		return applySeaFreight(ds, mod)
	}
	return fmt.Errorf("unknown freight leg %q", mod.Leg)
}

func applyInboundFreight(ds *dataset.Dataset, mod dataset.Modification) error {
	if mod.FromSite == "" && mod.ToSite == "" {
		for _, lanes := range ds.Freight.Inbound {
			for to, rate := range lanes {
				lanes[to] = applyValue(rate, mod.Action, mod.Value)
			}
		}
		// the constrained material's flat schedule is inbound freight too
		ds.Freight.MaterialEFlat = applyValue(ds.Freight.MaterialEFlat, mod.Action, mod.Value)
		return nil
	}
	if mod.FromSite == "" || mod.ToSite == "" {
		return fmt.Errorf("inbound lane needs both from_site and to_site")
	}
	lanes, ok := ds.Freight.Inbound[mod.FromSite]
	if !ok {
		return fmt.Errorf("unknown inbound origin %s", mod.FromSite)
	}
	rate, ok := lanes[mod.ToSite]
	if !ok {
		return fmt.Errorf("no inbound lane %s->%s", mod.FromSite, mod.ToSite)
	}
	lanes[mod.ToSite] = applyValue(rate, mod.Action, mod.Value)
	return nil
}

func applyOutboundFreight(ds *dataset.Dataset, mod dataset.Modification) error {
	if mod.FromSite == "" && mod.PortID == "" {
		for _, lanes := range ds.Freight.Outbound {
			for port, rate := range lanes {
				lanes[port] = applyValue(rate, mod.Action, mod.Value)
			}
		}
		return nil
	}
	if mod.FromSite == "" || mod.PortID == "" {
		return fmt.Errorf("outbound lane needs both from_site and port")
	}
	lanes, ok := ds.Freight.Outbound[mod.FromSite]
	if !ok {
		return fmt.Errorf("unknown outbound origin %s", mod.FromSite)
	}
	rate, ok := lanes[mod.PortID]
	if !ok {
		return fmt.Errorf("no outbound lane %s->%s", mod.FromSite, mod.PortID)
	}
	lanes[mod.PortID] = applyValue(rate, mod.Action, mod.Value)
	return nil
}

func applySeaFreight(ds *dataset.Dataset, mod dataset.Modification) error {
	if mod.PortID == "" {
		for i := range ds.Ports {
			ds.Ports[i].SeaFreight = applyValue(ds.Ports[i].SeaFreight, mod.Action, mod.Value)
		}
		return nil
	}
	port, ok := ds.PortByID(mod.PortID)
	if !ok {
		return fmt.Errorf("unknown port %s", mod.PortID)
	}
	port.SeaFreight = applyValue(port.SeaFreight, mod.Action, mod.Value)
	return nil
}

func applyMaterialVolume(ds *dataset.Dataset, mod dataset.Modification) error {
	if !mod.Material.Valid() {
		return fmt.Errorf("unknown material %q", mod.Material)
	}
	if mod.SiteID == "" {
		return fmt.Errorf("material volume needs a site")
	}
	point, ok := ds.Point(mod.SiteID)
	if !ok {
		return fmt.Errorf("unknown site %s", mod.SiteID)
	}
	next := applyValue(point.Volume(mod.Material), mod.Action, mod.Value)
	if next < 0 {
		return fmt.Errorf("volume cannot go negative, got %.2f", next)
	}
	if point.Volumes == nil {
		point.Volumes = make(map[dataset.Material]float64)
	}
	point.Volumes[mod.Material] = next
	return nil
}

func applyMaterialPrice(ds *dataset.Dataset, mod dataset.Modification) error {
	if mod.SiteID == "" && mod.Material == "" {
		if mod.Action != dataset.ActionScale {
			return fmt.Errorf("global price change must use scale-by")
		}
		if mod.Value < 0 {
			return fmt.Errorf("prices cannot go negative")
		}
		for i := range ds.Points {
			for m, price := range ds.Points[i].Prices {
				ds.Points[i].Prices[m] = price * mod.Value
			}
		}
		return nil
	}
	if !mod.Material.Valid() {
		return fmt.Errorf("unknown material %q", mod.Material)
	}
	if mod.SiteID == "" {
		// one material across every site
		for i := range ds.Points {
			if _, has := ds.Points[i].Prices[mod.Material]; !has {
				continue
			}
			next := applyValue(ds.Points[i].Prices[mod.Material], mod.Action, mod.Value)
			if next < 0 {
				return fmt.Errorf("price cannot go negative, got %.2f", next)
			}
			ds.Points[i].Prices[mod.Material] = next
		}
		return nil
	}
	point, ok := ds.Point(mod.SiteID)
	if !ok {
		return fmt.Errorf("unknown site %s", mod.SiteID)
	}
	next := applyValue(point.Price(mod.Material), mod.Action, mod.Value)
	if next < 0 {
		return fmt.Errorf("price cannot go negative, got %.2f", next)
	}
	if point.Prices == nil {
		point.Prices = make(map[dataset.Material]float64)
	}
	point.Prices[mod.Material] = next
	return nil
}

func applyMaterialYield(ds *dataset.Dataset, mod dataset.Modification) error {
	if !mod.Material.Valid() {
		return fmt.Errorf("unknown material %q", mod.Material)
	}
	next := applyValue(ds.Demand.Yield(mod.Material), mod.Action, mod.Value)
	if next <= 0 || next > 1 {
		return fmt.Errorf("yield must stay within (0,1], got %.4f", next)
	}
	ds.Demand.YieldFactors[mod.Material] = next
	return nil
}

func applyMaxConsumption(ds *dataset.Dataset, mod dataset.Modification) error {
	if !mod.Material.Valid() {
		return fmt.Errorf("unknown material %q", mod.Material)
	}
	next := applyValue(ds.Demand.MaxShare(mod.Material), mod.Action, mod.Value)
	if next < 0 || next > 1 {
		return fmt.Errorf("consumption share must stay within [0,1], got %.4f", next)
	}
	ds.Demand.MaxConsumptionShares[mod.Material] = next
	return nil
}

func applyForcedFacility(ds *dataset.Dataset, mod dataset.Modification) error {
	if mod.FacilityID == "" {
		return fmt.Errorf("forced facility needs a site id")
	}
	if _, ok := ds.Point(mod.FacilityID); !ok {
		return fmt.Errorf("unknown site %s", mod.FacilityID)
	}
	ds.Overrides.ForcedFacility = mod.FacilityID
	return nil
}

func applyForcedPorts(ds *dataset.Dataset, mod dataset.Modification) error {
	if len(mod.Ports) == 0 {
		return fmt.Errorf("forced ports needs at least one port id")
	}
	for _, id := range mod.Ports {
		if _, ok := ds.PortByID(id); !ok {
			return fmt.Errorf("unknown port %s", id)
		}
	}
	ds.Overrides.ForcedPorts = append([]string(nil), mod.Ports...)
	return nil
}
