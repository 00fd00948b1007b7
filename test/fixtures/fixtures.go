// Package fixtures provides the shared datasets the tests solve against.
// It depends only on the dataset package so that in-package unit tests
// anywhere in the module can import it without creating a cycle.
package fixtures

import (
	"siteopt/internal/domain/dataset"
)

// ThreePointDataset returns the canonical three-site, one-port world used
// across the tests: material A only, uniform cross-site inbound freight, so
// the site holding the most volume wins facility selection.
//
// Expected optimum for a 100,000 t target at yield 0.9:
//   - raw requirement 111,111.11 t
//   - facility Gamma_Forge (70k t local, least import)
//   - total cost 14,933,333.33 (raw 11,111,111.11 + inbound 822,222.22
//     + outbound 1,500,000 + port ops 500,000 + sea 1,000,000)
func ThreePointDataset() *dataset.Dataset {
	sites := []struct {
		id     string
		volume float64
	}{
		{"Alpha_Mill", 50000},
		{"Beta_Works", 60000},
		{"Gamma_Forge", 70000},
	}

	points := make([]dataset.CollectionPoint, 0, len(sites))
	inbound := make(map[string]map[string]float64)
	outbound := make(map[string]map[string]float64)
	for _, s := range sites {
		points = append(points, dataset.CollectionPoint{
			SiteID:  s.id,
			Volumes: map[dataset.Material]float64{dataset.MaterialA: s.volume},
			Prices:  map[dataset.Material]float64{dataset.MaterialA: 100},
		})
		inbound[s.id] = make(map[string]float64)
		for _, other := range sites {
			if other.id != s.id {
				inbound[s.id][other.id] = 20
			}
		}
		outbound[s.id] = map[string]float64{"PortX": 15}
	}

	return &dataset.Dataset{
		Points: points,
		Ports: []dataset.Port{
			{PortID: "PortX", OperationalCost: 5, SeaFreight: 10},
		},
		Freight: dataset.FreightRates{
			Inbound:       inbound,
			MaterialEFlat: 30,
			Outbound:      outbound,
		},
		Demand: dataset.DemandSpec{
			TargetTons:           100000,
			YieldFactors:         uniformMaterialMap(0.9),
			MaxConsumptionShares: uniformMaterialMap(1.0),
		},
	}
}

// FiveMaterialDataset returns a richer two-port world where every material
// including the constrained E is present. E is capped to a 20% consumption
// share and priced below the others, so phase 2 pulls it in up to the cap.
func FiveMaterialDataset() *dataset.Dataset {
	ds := ThreePointDataset()

	for i := range ds.Points {
		ds.Points[i].Volumes[dataset.MaterialB] = 30000
		ds.Points[i].Prices[dataset.MaterialB] = 110
		ds.Points[i].Volumes[dataset.MaterialE] = 25000
		ds.Points[i].Prices[dataset.MaterialE] = 60
	}

	ds.Ports = append(ds.Ports, dataset.Port{PortID: "PortY", OperationalCost: 4, SeaFreight: 12})
	for _, p := range ds.Points {
		ds.Freight.Outbound[p.SiteID]["PortY"] = 14
	}

	ds.Demand.YieldFactors[dataset.MaterialB] = 0.8
	ds.Demand.YieldFactors[dataset.MaterialE] = 0.7
	ds.Demand.MaxConsumptionShares[dataset.MaterialE] = 0.2
	return ds
}

func uniformMaterialMap(v float64) map[dataset.Material]float64 {
	out := make(map[dataset.Material]float64, 5)
	for _, m := range dataset.AllMaterials() {
		out[m] = v
	}
	return out
}
