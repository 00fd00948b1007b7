package nlparse

import (
	"fmt"
	"strings"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
)

// promptSchema pins the response contract. The decoder accepts exactly this
// shape; anything else is rejected before it can reach the solve pipeline.
const promptSchema = `Respond ONLY with a JSON object of this exact shape, no prose:
{
  "scenario_name": "short snake_case name",
  "explanation": "one or two sentences describing the change in plain language",
  "modifications": [ { ... } ]
}

Each modification object uses:
  "type":   one of production_target | freight_cost | material_volume |
            material_price | material_yield | material_max_consumption |
            forced_facility | forced_ports
  "action": "set" or "scale-by" (omit for forced_facility / forced_ports)
  "value":  the number to set, or the multiplier for scale-by
Selector fields by type:
  production_target        — no selectors
  freight_cost             — "leg": inbound | outbound | sea; optional lane:
                             inbound needs "from_site"+"to_site", outbound
                             "from_site"+"port_id", sea "port_id"; omit the
                             lane fields to change every lane of that leg
  material_volume          — "site_id" and "material" (both required)
  material_price           — "site_id"+"material", or "material" alone for
                             every site, or neither with action scale-by for
                             a global re-pricing
  material_yield           — "material"
  material_max_consumption — "material"
  forced_facility          — "facility_id"
  forced_ports             — "port_ids": ["..."]

A 10% increase means scale-by 1.10; a 20% reduction means scale-by 0.80.
Never invent site, port or material names that are not listed below.`

// buildPrompt assembles the instruction, the dataset vocabulary, the current
// baseline summary and the user's request into one generation prompt.
func buildPrompt(request string, baseline *planning.SolutionRecord, ds *dataset.Dataset) string {
	var b strings.Builder
	b.WriteString("You translate free-form what-if questions about a raw material sourcing and facility location plan into structured modifications.\n\n")
	b.WriteString(promptSchema)
	b.WriteString("\n\nKnown collection sites: ")
	b.WriteString(strings.Join(siteIDs(ds), ", "))
	b.WriteString("\nKnown export ports: ")
	b.WriteString(strings.Join(portIDs(ds), ", "))
	b.WriteString("\nKnown materials: ")
	b.WriteString(strings.Join(materialNames(), ", "))

	b.WriteString("\n\nCurrent baseline:\n")
	if baseline != nil {
		fmt.Fprintf(&b, "  facility: %s\n", baseline.FacilityID)
		fmt.Fprintf(&b, "  ports used: %s\n", strings.Join(baseline.SelectedPorts, ", "))
		fmt.Fprintf(&b, "  total cost: %.2f\n", baseline.Costs.Total)
		fmt.Fprintf(&b, "  cost per finished ton: %.2f\n", baseline.Costs.TotalPerFinishedTon)
	} else {
		b.WriteString("  (not solved yet)\n")
	}
	fmt.Fprintf(&b, "  production target: %.0f tons\n", ds.Demand.TargetTons)

	b.WriteString("\nUser request:\n")
	b.WriteString(request)
	return b.String()
}

func siteIDs(ds *dataset.Dataset) []string {
	ids := make([]string, 0, len(ds.Points))
	for i := range ds.Points {
		ids = append(ids, ds.Points[i].SiteID)
	}
	return ids
}

func portIDs(ds *dataset.Dataset) []string {
	ids := make([]string, 0, len(ds.Ports))
	for i := range ds.Ports {
		ids = append(ids, ds.Ports[i].PortID)
	}
	return ids
}

func materialNames() []string {
	names := make([]string, 0, len(dataset.AllMaterials()))
	for _, m := range dataset.AllMaterials() {
		names = append(names, m.ReportName())
	}
	return names
}
