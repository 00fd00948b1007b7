package planning

import (
	"fmt"
	"sort"
	"strings"

	"siteopt/internal/domain/dataset"
	"siteopt/pkg/utils"
)

// MetricDelta is one compared value between two solution records.
type MetricDelta struct {
	Name     string
	Baseline float64
	Scenario float64
	Absolute float64
	Percent  float64 // zero when the baseline value is zero
}

// SignificantChange is a narrative-ready entry ranked by dollar impact.
type SignificantChange struct {
	Description string
	Impact      float64
}

// DiffRecord quantifies the difference between a baseline and a scenario.
type DiffRecord struct {
	BaselineID    string
	ScenarioID    string
	BaselineLabel string
	ScenarioLabel string

	FacilityChanged bool
	FacilityFrom    string
	FacilityTo      string
	PortsAdded      []string
	PortsRemoved    []string

	Metrics        []MetricDelta
	CostComponents []MetricDelta // sorted by absolute impact, descending
	MaterialTons   []MetricDelta
	Significant    []SignificantChange
}

// Comparator computes diffs between two solution records. Pure: neither
// record is ever written to.
type Comparator struct{}

// NewComparator creates a comparator.
func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare produces the full delta set. Absolute deltas are scenario minus
// baseline, so Compare(a, b) absolute values are the exact negation of
// Compare(b, a); percentages are relative to each call's baseline and are
// not symmetric.
func (c *Comparator) Compare(baseline, scenario *SolutionRecord) *DiffRecord {
	diff := &DiffRecord{
		BaselineID:    baseline.ID,
		ScenarioID:    scenario.ID,
		BaselineLabel: baseline.Label,
		ScenarioLabel: scenario.Label,
		FacilityFrom:  baseline.FacilityID,
		FacilityTo:    scenario.FacilityID,
	}
	diff.FacilityChanged = baseline.FacilityID != scenario.FacilityID
	diff.PortsAdded, diff.PortsRemoved = portSetDiff(baseline.SelectedPorts, scenario.SelectedPorts)

	diff.Metrics = []MetricDelta{
		delta("total cost", baseline.Costs.Total, scenario.Costs.Total),
		delta("cost per finished ton", baseline.Costs.TotalPerFinishedTon, scenario.Costs.TotalPerFinishedTon),
		delta("finished tons", baseline.TotalFinishedTons, scenario.TotalFinishedTons),
		delta("raw material tons", baseline.TotalRawTons, scenario.TotalRawTons),
		delta("average yield", baseline.AverageYield, scenario.AverageYield),
	}

	diff.CostComponents = []MetricDelta{
		delta("raw material purchase", baseline.Costs.RawMaterial, scenario.Costs.RawMaterial),
		delta("inbound freight", baseline.Costs.InboundFreight, scenario.Costs.InboundFreight),
		delta("outbound freight", baseline.Costs.OutboundFreight, scenario.Costs.OutboundFreight),
		delta("port operations", baseline.Costs.PortOperations, scenario.Costs.PortOperations),
		delta("sea freight", baseline.Costs.SeaFreight, scenario.Costs.SeaFreight),
	}
	sort.SliceStable(diff.CostComponents, func(i, j int) bool {
		return abs(diff.CostComponents[i].Absolute) > abs(diff.CostComponents[j].Absolute)
	})

	for _, m := range dataset.AllMaterials() {
		diff.MaterialTons = append(diff.MaterialTons,
			delta(m.ReportName(), baseline.TonsByMaterial[m], scenario.TonsByMaterial[m]))
	}

	diff.Significant = significantChanges(diff)
	return diff
}

func delta(name string, base, scen float64) MetricDelta {
	return MetricDelta{
		Name:     name,
		Baseline: base,
		Scenario: scen,
		Absolute: scen - base,
		Percent:  utils.PercentChange(base, scen),
	}
}

func portSetDiff(baseline, scenario []string) (added, removed []string) {
	base := make(map[string]bool, len(baseline))
	for _, p := range baseline {
		base[p] = true
	}
	scen := make(map[string]bool, len(scenario))
	for _, p := range scenario {
		scen[p] = true
		if !base[p] {
			added = append(added, p)
		}
	}
	for _, p := range baseline {
		if !scen[p] {
			removed = append(removed, p)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func significantChanges(diff *DiffRecord) []SignificantChange {
	var changes []SignificantChange
	for _, comp := range diff.CostComponents {
		if comp.Absolute == 0 {
			continue
		}
		changes = append(changes, SignificantChange{
			Description: fmt.Sprintf("%s %+.2f (%+.1f%%)", comp.Name, comp.Absolute, comp.Percent),
			Impact:      comp.Absolute,
		})
	}
	if diff.FacilityChanged {
		total := diff.Metrics[0]
		changes = append(changes, SignificantChange{
			Description: fmt.Sprintf("facility moved from %s to %s", diff.FacilityFrom, diff.FacilityTo),
			Impact:      total.Absolute,
		})
	}
	if len(diff.PortsAdded) > 0 || len(diff.PortsRemoved) > 0 {
		var impact float64
		for _, name := range []string{"outbound freight", "port operations", "sea freight"} {
			for _, comp := range diff.CostComponents {
				if comp.Name == name {
					impact += comp.Absolute
				}
			}
		}
		changes = append(changes, SignificantChange{
			Description: fmt.Sprintf("port set changed (added: %s; removed: %s)",
				orNone(diff.PortsAdded), orNone(diff.PortsRemoved)),
			Impact: impact,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return abs(changes[i].Impact) > abs(changes[j].Impact)
	})
	return changes
}

func orNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
