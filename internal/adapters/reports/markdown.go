// Package reports renders solve results and scenario comparisons as markdown
// files, one report per solve.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
	"siteopt/internal/domain/shared"
)

// Writer renders markdown reports into one output directory.
type Writer struct {
	dir     string
	clock   shared.Clock
	printer *message.Printer
}

// NewWriter creates a report writer.
// If clock is nil, uses RealClock (production behavior).
func NewWriter(dir string, clock shared.Clock) *Writer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Writer{
		dir:     dir,
		clock:   clock,
		printer: message.NewPrinter(language.English),
	}
}

// WriteBaseline renders the baseline solution report and returns its path.
func (w *Writer) WriteBaseline(rec *planning.SolutionRecord) (string, error) {
	path := filepath.Join(w.dir, "baseline_report.md")
	return path, w.write(path, w.RenderSolution(rec, "Baseline"))
}

// WriteScenario renders one what-if comparison report, versioned by scenario
// number, and returns its path.
func (w *Writer) WriteScenario(number int, diff *planning.DiffRecord, scenario *planning.SolutionRecord, explanation string, mods []dataset.Modification) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("whatif_report_v%d.md", number))
	return path, w.write(path, w.RenderComparison(diff, scenario, explanation, mods))
}

func (w *Writer) write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// RenderSolution produces the full markdown report for one solution record.
func (w *Writer) RenderSolution(rec *planning.SolutionRecord, scenarioName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Logistics Optimization Report\n\n")
	fmt.Fprintf(&b, "## Scenario: %s\n\n", scenarioName)
	fmt.Fprintf(&b, "**Generated:** %s\n\n---\n\n", w.clock.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Optimal Solution\n\n### Facility Location\n")
	fmt.Fprintf(&b, "**Selected Site:** %s\n\n", rec.FacilityID)

	b.WriteString("### Production Summary\n")
	if len(rec.SelectedPorts) == 1 {
		fmt.Fprintf(&b, "- **Selected Port:** %s\n", rec.SelectedPorts[0])
	} else if len(rec.SelectedPorts) > 1 {
		fmt.Fprintf(&b, "- **Selected Ports:** %s\n", strings.Join(rec.SelectedPorts, ", "))
	}
	fmt.Fprintf(&b, "- **Total Finished Product Produced:** %s tons\n", w.tons(rec.TotalFinishedTons))
	fmt.Fprintf(&b, "- **Total Raw Material Consumed:** %s tons\n", w.tons(rec.TotalRawTons))
	fmt.Fprintf(&b, "- **Average Yield Factor:** %.2f%%\n\n---\n\n", rec.AverageYield*100)

	w.writeCostTable(&b, rec)
	w.writeSourcingMatrix(&b, rec)
	w.writePortShipments(&b, rec)

	b.WriteString("## Optimization Details\n\n")
	b.WriteString("- **Solver:** simplex (gonum)\n")
	fmt.Fprintf(&b, "- **Solve Time:** %.2f seconds\n", rec.SolveTime.Seconds())
	fmt.Fprintf(&b, "- **Phase 1 (facility selection):** %.2f seconds, %d candidates\n",
		rec.Phases.Phase1.Duration.Seconds(), len(rec.Phases.Phase1.Candidates))
	fmt.Fprintf(&b, "- **Phase 2 (full solve):** %.2f seconds\n\n", rec.Phases.Phase2.Duration.Seconds())

	b.WriteString("---\n\n*Report generated by Logistics Optimizer*\n")
	return b.String()
}

func (w *Writer) writeCostTable(b *strings.Builder, rec *planning.SolutionRecord) {
	c := rec.Costs
	b.WriteString("## Cost Breakdown\n\n")
	b.WriteString("| Component | Total Cost ($) | Per Ton ($/t) | % of Total |\n")
	b.WriteString("|-----------|----------------|---------------|------------|\n")

	rows := []struct {
		name   string
		total  float64
		perTon float64
	}{
		{"Raw Materials (avg)", c.RawMaterial, c.RawMaterialPerRawTon},
		{"Inbound Freight", c.InboundFreight, c.InboundPerRawTon},
		{"Outbound Freight", c.OutboundFreight, c.OutboundPerFinishedTon},
		{"Port Operations", c.PortOperations, c.PortOperationsPerFinishedTon},
		{"Sea Freight", c.SeaFreight, c.SeaFreightPerFinishedTon},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s | $%.2f | %.1f%% |\n",
			row.name, w.money(row.total), row.perTon, share(row.total, c.Total))
	}
	fmt.Fprintf(b, "| **TOTAL** | **%s** | **$%.2f** | **100.0%%** |\n\n---\n\n",
		w.money(c.Total), c.TotalPerFinishedTon)
}

func (w *Writer) writeSourcingMatrix(b *strings.Builder, rec *planning.SolutionRecord) {
	b.WriteString("## Raw Material Sourcing Breakdown\n\n")
	b.WriteString("| Collection Point | Total (t) | Mat A | Mat B | Mat C | Mat D | Mat E | % Total |\n")
	b.WriteString("|-----------------|-----------|-------|-------|-------|-------|-------|---------|\n")

	bySite := make(map[string]map[dataset.Material]float64)
	for _, entry := range rec.Sourcing {
		if bySite[entry.SiteID] == nil {
			bySite[entry.SiteID] = make(map[dataset.Material]float64)
		}
		bySite[entry.SiteID][entry.Material] += entry.Tons
	}

	sites := make([]string, 0, len(bySite))
	for site := range bySite {
		sites = append(sites, site)
	}
	sort.Slice(sites, func(i, j int) bool {
		ti, tj := rec.TonsBySite[sites[i]], rec.TonsBySite[sites[j]]
		if ti != tj {
			return ti > tj
		}
		return sites[i] < sites[j]
	})

	for _, site := range sites {
		total := rec.TonsBySite[site]
		fmt.Fprintf(b, "| %s | %s |", site, w.wholeTons(total))
		for _, m := range dataset.AllMaterials() {
			b.WriteString(" " + w.matCell(bySite[site][m]) + " |")
		}
		fmt.Fprintf(b, " %.1f%% |\n", share(total, rec.TotalRawTons))
	}

	fmt.Fprintf(b, "| **TOTAL BY TYPE** | **%s** |", w.wholeTons(rec.TotalRawTons))
	for _, m := range dataset.AllMaterials() {
		fmt.Fprintf(b, " **%s** |", w.wholeTons(rec.TonsByMaterial[m]))
	}
	b.WriteString(" **100.0%** |\n")

	b.WriteString("| *% of Total* | *100.0%* |")
	for _, m := range dataset.AllMaterials() {
		fmt.Fprintf(b, " *%.1f%%* |", share(rec.TonsByMaterial[m], rec.TotalRawTons))
	}
	b.WriteString("  |\n\n---\n\n")
}

func (w *Writer) writePortShipments(b *strings.Builder, rec *planning.SolutionRecord) {
	b.WriteString("## Port Shipments\n\n")
	b.WriteString("| Facility | Port | Tons Shipped |\n")
	b.WriteString("|----------|------|-------------|\n")
	for _, shipment := range rec.PortShipments {
		fmt.Fprintf(b, "| %s | %s | %s |\n", rec.FacilityID, shipment.PortID, w.tons(shipment.Tons))
	}
	b.WriteString("\n---\n\n")
}

// RenderComparison produces the what-if report: applied modifications, metric
// and component deltas against the baseline, then the scenario's own details.
func (w *Writer) RenderComparison(diff *planning.DiffRecord, scenario *planning.SolutionRecord, explanation string, mods []dataset.Modification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# What-If Scenario Analysis Report\n\n")
	fmt.Fprintf(&b, "## Scenario: %s\n\n", diff.ScenarioLabel)
	fmt.Fprintf(&b, "**Generated:** %s\n\n---\n\n", w.clock.Now().Format("2006-01-02 15:04:05"))

	if explanation != "" {
		fmt.Fprintf(&b, "## Scenario Description\n\n%s\n\n", explanation)
	}
	if len(mods) > 0 {
		b.WriteString("### Applied Modifications\n\n")
		for _, mod := range mods {
			fmt.Fprintf(&b, "- **%s**: %s\n", mod.Type, mod.Describe())
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n## Comparison: Baseline vs What-If\n\n### Key Metrics\n\n")
	b.WriteString("| Metric | Baseline | What-If | Change | % Change |\n")
	b.WriteString("|--------|----------|---------|--------|----------|\n")
	facilityChange := "No Change"
	if diff.FacilityChanged {
		facilityChange = "Changed"
	}
	fmt.Fprintf(&b, "| Facility Location | %s | %s | %s | - |\n", diff.FacilityFrom, diff.FacilityTo, facilityChange)
	for _, m := range diff.Metrics {
		b.WriteString(w.metricRow(m))
	}

	b.WriteString("\n### Cost Breakdown Comparison\n\n")
	b.WriteString("| Component | Baseline | What-If | Change | % Change |\n")
	b.WriteString("|-----------|----------|---------|--------|----------|\n")
	for _, m := range diff.CostComponents {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			m.Name, w.money(m.Baseline), w.money(m.Scenario), w.signedMoney(m.Absolute), percentCell(m))
	}

	if len(diff.PortsAdded) > 0 || len(diff.PortsRemoved) > 0 {
		b.WriteString("\n### Port Changes\n\n")
		if len(diff.PortsAdded) > 0 {
			fmt.Fprintf(&b, "- **Ports added:** %s\n", strings.Join(diff.PortsAdded, ", "))
		}
		if len(diff.PortsRemoved) > 0 {
			fmt.Fprintf(&b, "- **Ports removed:** %s\n", strings.Join(diff.PortsRemoved, ", "))
		}
	}

	b.WriteString("\n---\n\n## What-If Solution Details\n\n### Facility & Ports\n")
	fmt.Fprintf(&b, "- **Facility Location:** %s\n", scenario.FacilityID)
	fmt.Fprintf(&b, "- **Selected Ports:** %s\n\n", strings.Join(scenario.SelectedPorts, ", "))

	b.WriteString("### Production Summary\n")
	fmt.Fprintf(&b, "- **Total Finished Product Produced:** %s tons\n", w.tons(scenario.TotalFinishedTons))
	fmt.Fprintf(&b, "- **Total Raw Material Consumed:** %s tons\n", w.tons(scenario.TotalRawTons))
	fmt.Fprintf(&b, "- **Average Yield Factor:** %.2f%%\n", scenario.AverageYield*100)

	b.WriteString("\n---\n\n## Raw Material Consumption by Type\n\n")
	b.WriteString("| Material | Baseline (tons) | What-If (tons) | Change |\n")
	b.WriteString("|----------|----------------|----------------|--------|\n")
	for _, m := range diff.MaterialTons {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			m.Name, w.tons(m.Baseline), w.tons(m.Scenario), w.signedTons(m.Absolute))
	}

	if len(diff.Significant) > 0 {
		b.WriteString("\n---\n\n## Key Changes\n\n")
		for _, change := range diff.Significant {
			fmt.Fprintf(&b, "- %s\n", change.Description)
		}
	}

	b.WriteString("\n---\n\n*Report generated by Logistics Optimizer - What-If Analysis*\n")
	return b.String()
}

// metricRow renders one key-metric line with the unit its name implies:
// dollar metrics get currency formatting, tonnages plain grouping, and the
// yield ratio percentage points.
func (w *Writer) metricRow(m planning.MetricDelta) string {
	switch m.Name {
	case "finished tons", "raw material tons":
		return fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			m.Name, w.tons(m.Baseline), w.tons(m.Scenario), w.signedTons(m.Absolute), percentCell(m))
	case "average yield":
		return fmt.Sprintf("| %s | %.2f%% | %.2f%% | %+.2f pp | - |\n",
			m.Name, m.Baseline*100, m.Scenario*100, m.Absolute*100)
	}
	return fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
		m.Name, w.money(m.Baseline), w.money(m.Scenario), w.signedMoney(m.Absolute), percentCell(m))
}

func (w *Writer) money(v float64) string {
	return w.printer.Sprintf("$%.2f", v)
}

func (w *Writer) signedMoney(v float64) string {
	return w.printer.Sprintf("$%+.2f", v)
}

func (w *Writer) tons(v float64) string {
	return w.printer.Sprintf("%.2f", v)
}

func (w *Writer) signedTons(v float64) string {
	return w.printer.Sprintf("%+.2f", v)
}

func (w *Writer) wholeTons(v float64) string {
	return w.printer.Sprintf("%.0f", v)
}

func (w *Writer) matCell(v float64) string {
	if v <= 0.5 {
		return "-"
	}
	return w.wholeTons(v)
}

func percentCell(m planning.MetricDelta) string {
	if m.Baseline == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", m.Percent)
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
