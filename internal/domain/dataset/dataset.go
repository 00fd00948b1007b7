package dataset

import (
	"fmt"
	"sort"

	"siteopt/internal/domain/shared"
)

// CollectionPoint is a raw-material source site. Every collection point is
// also a candidate location for the production facility.
type CollectionPoint struct {
	SiteID  string
	Volumes map[Material]float64 // available raw tons per material
	Prices  map[Material]float64 // purchase price, $/raw ton
}

// Volume returns the available tonnage of material m, zero when absent.
func (p *CollectionPoint) Volume(m Material) float64 {
	return p.Volumes[m]
}

// Price returns the purchase price of material m at this point.
func (p *CollectionPoint) Price(m Material) float64 {
	return p.Prices[m]
}

// TotalVolume sums the available tonnage over the given materials.
func (p *CollectionPoint) TotalVolume(materials []Material) float64 {
	var total float64
	for _, m := range materials {
		total += p.Volumes[m]
	}
	return total
}

func (p *CollectionPoint) clone() CollectionPoint {
	return CollectionPoint{
		SiteID:  p.SiteID,
		Volumes: cloneMaterialMap(p.Volumes),
		Prices:  cloneMaterialMap(p.Prices),
	}
}

// Port is an export port the finished product can ship through.
type Port struct {
	PortID          string
	OperationalCost float64 // $/finished ton
	SeaFreight      float64 // $/finished ton
}

// FreightRates holds the two directed cost tables plus the flat rate that
// applies to material E from any source. A missing inbound or outbound entry
// marks the lane as unusable; callers drop the combination instead of
// treating it as an error.
type FreightRates struct {
	Inbound       map[string]map[string]float64 // from site -> to site, $/raw ton, materials A-D
	MaterialEFlat float64                       // $/raw ton regardless of source
	Outbound      map[string]map[string]float64 // site -> port, $/finished ton
}

// InboundRate returns the A-D inbound rate from one site to another.
// Moving material within the same site costs nothing.
func (f *FreightRates) InboundRate(fromSite, toSite string) (float64, bool) {
	if fromSite == toSite {
		return 0, true
	}
	rates, ok := f.Inbound[fromSite]
	if !ok {
		return 0, false
	}
	rate, ok := rates[toSite]
	return rate, ok
}

// OutboundRate returns the facility-to-port rate.
func (f *FreightRates) OutboundRate(site, port string) (float64, bool) {
	rates, ok := f.Outbound[site]
	if !ok {
		return 0, false
	}
	rate, ok := rates[port]
	return rate, ok
}

func (f *FreightRates) clone() FreightRates {
	return FreightRates{
		Inbound:       cloneRateTable(f.Inbound),
		MaterialEFlat: f.MaterialEFlat,
		Outbound:      cloneRateTable(f.Outbound),
	}
}

// DemandSpec fixes the production commitment and the per-material conversion
// parameters.
type DemandSpec struct {
	TargetTons           float64
	YieldFactors         map[Material]float64 // finished tons per raw ton, (0,1]
	MaxConsumptionShares map[Material]float64 // cap on the share of the target, [0,1]
}

// Yield returns the yield factor for material m.
func (d *DemandSpec) Yield(m Material) float64 {
	return d.YieldFactors[m]
}

// MaxShare returns the max consumption share for material m.
func (d *DemandSpec) MaxShare(m Material) float64 {
	return d.MaxConsumptionShares[m]
}

func (d *DemandSpec) clone() DemandSpec {
	return DemandSpec{
		TargetTons:           d.TargetTons,
		YieldFactors:         cloneMaterialMap(d.YieldFactors),
		MaxConsumptionShares: cloneMaterialMap(d.MaxConsumptionShares),
	}
}

// Overrides pin parts of the decision space before solving. Zero values mean
// the decision is left to the optimizer.
type Overrides struct {
	ForcedFacility string
	ForcedPorts    []string
}

func (o *Overrides) clone() Overrides {
	return Overrides{
		ForcedFacility: o.ForcedFacility,
		ForcedPorts:    append([]string(nil), o.ForcedPorts...),
	}
}

// Dataset aggregates everything one optimization run needs. Solves never
// mutate it; the what-if engine works on clones.
type Dataset struct {
	Points    []CollectionPoint
	Ports     []Port
	Freight   FreightRates
	Demand    DemandSpec
	Overrides Overrides
}

// Clone produces a fully independent deep copy. Mutating the clone never
// touches the receiver.
func (d *Dataset) Clone() *Dataset {
	points := make([]CollectionPoint, len(d.Points))
	for i := range d.Points {
		points[i] = d.Points[i].clone()
	}
	ports := make([]Port, len(d.Ports))
	copy(ports, d.Ports)
	return &Dataset{
		Points:    points,
		Ports:     ports,
		Freight:   d.Freight.clone(),
		Demand:    d.Demand.clone(),
		Overrides: d.Overrides.clone(),
	}
}

// Point looks up a collection point by site id.
func (d *Dataset) Point(siteID string) (*CollectionPoint, bool) {
	for i := range d.Points {
		if d.Points[i].SiteID == siteID {
			return &d.Points[i], true
		}
	}
	return nil, false
}

// PortByID looks up a port.
func (d *Dataset) PortByID(portID string) (*Port, bool) {
	for i := range d.Ports {
		if d.Ports[i].PortID == portID {
			return &d.Ports[i], true
		}
	}
	return nil, false
}

// SiteIDs returns all collection point ids in ascending order. Candidate
// enumeration relies on this ordering for reproducible tie-breaks.
func (d *Dataset) SiteIDs() []string {
	ids := make([]string, len(d.Points))
	for i := range d.Points {
		ids[i] = d.Points[i].SiteID
	}
	sort.Strings(ids)
	return ids
}

// PortIDs returns all port ids in ascending order.
func (d *Dataset) PortIDs() []string {
	ids := make([]string, len(d.Ports))
	for i := range d.Ports {
		ids[i] = d.Ports[i].PortID
	}
	sort.Strings(ids)
	return ids
}

// TotalVolume sums one material's availability over all collection points.
func (d *Dataset) TotalVolume(m Material) float64 {
	var total float64
	for i := range d.Points {
		total += d.Points[i].Volumes[m]
	}
	return total
}

// Validate re-checks the invariants the ingestion layer is responsible for.
// The engine calls this defensively before building any model.
func (d *Dataset) Validate() error {
	if len(d.Points) == 0 {
		return shared.NewInconsistentDataError("points", "no collection points")
	}
	if len(d.Ports) == 0 {
		return shared.NewInconsistentDataError("ports", "no ports")
	}
	seen := make(map[string]bool, len(d.Points))
	for i := range d.Points {
		id := d.Points[i].SiteID
		if id == "" {
			return shared.NewInconsistentDataError("points", "empty site id")
		}
		if seen[id] {
			return shared.NewInconsistentDataError("points", fmt.Sprintf("duplicate site id %s", id))
		}
		seen[id] = true
		for m, v := range d.Points[i].Volumes {
			if !m.Valid() {
				return shared.NewInconsistentDataError(id, fmt.Sprintf("unknown material %q", m))
			}
			if v < 0 {
				return shared.NewInconsistentDataError(id, fmt.Sprintf("negative volume for %s", m))
			}
		}
		for m, p := range d.Points[i].Prices {
			if !m.Valid() {
				return shared.NewInconsistentDataError(id, fmt.Sprintf("unknown material %q", m))
			}
			if p < 0 {
				return shared.NewInconsistentDataError(id, fmt.Sprintf("negative price for %s", m))
			}
		}
	}
	seenPorts := make(map[string]bool, len(d.Ports))
	for i := range d.Ports {
		p := &d.Ports[i]
		if p.PortID == "" {
			return shared.NewInconsistentDataError("ports", "empty port id")
		}
		if seenPorts[p.PortID] {
			return shared.NewInconsistentDataError("ports", fmt.Sprintf("duplicate port id %s", p.PortID))
		}
		seenPorts[p.PortID] = true
		if p.OperationalCost < 0 || p.SeaFreight < 0 {
			return shared.NewInconsistentDataError(p.PortID, "negative port cost")
		}
	}
	if d.Demand.TargetTons <= 0 {
		return shared.NewInconsistentDataError("demand.target_tons", "production target must be positive")
	}
	for _, m := range AllMaterials() {
		y, ok := d.Demand.YieldFactors[m]
		if !ok {
			return shared.NewInconsistentDataError("demand.yield_factors", fmt.Sprintf("missing yield for %s", m))
		}
		if y <= 0 || y > 1 {
			return shared.NewInconsistentDataError("demand.yield_factors", fmt.Sprintf("yield for %s outside (0,1]", m))
		}
		s, ok := d.Demand.MaxConsumptionShares[m]
		if !ok {
			return shared.NewInconsistentDataError("demand.max_consumption_shares", fmt.Sprintf("missing share for %s", m))
		}
		if s < 0 || s > 1 {
			return shared.NewInconsistentDataError("demand.max_consumption_shares", fmt.Sprintf("share for %s outside [0,1]", m))
		}
	}
	if d.Freight.MaterialEFlat < 0 {
		return shared.NewInconsistentDataError("freight.material_e_flat", "negative rate")
	}
	if f := d.Overrides.ForcedFacility; f != "" {
		if _, ok := d.Point(f); !ok {
			return shared.NewInconsistentDataError("overrides.forced_facility", fmt.Sprintf("unknown site %s", f))
		}
	}
	for _, p := range d.Overrides.ForcedPorts {
		if _, ok := d.PortByID(p); !ok {
			return shared.NewInconsistentDataError("overrides.forced_ports", fmt.Sprintf("unknown port %s", p))
		}
	}
	return nil
}

func cloneMaterialMap(src map[Material]float64) map[Material]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[Material]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneRateTable(src map[string]map[string]float64) map[string]map[string]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[string]map[string]float64, len(src))
	for from, rates := range src {
		inner := make(map[string]float64, len(rates))
		for to, rate := range rates {
			inner[to] = rate
		}
		dst[from] = inner
	}
	return dst
}
