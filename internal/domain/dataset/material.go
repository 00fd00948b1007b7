package dataset

import (
	"fmt"
	"strings"
)

// Material identifies one of the five raw material types the plant processes.
type Material string

const (
	MaterialA Material = "A"
	MaterialB Material = "B"
	MaterialC Material = "C"
	MaterialD Material = "D"

	// MaterialE is the constrained material: it never influences facility
	// siting and its inbound freight is a flat rate regardless of source.
	MaterialE Material = "E"
)

// AllMaterials returns every material in canonical order.
func AllMaterials() []Material {
	return []Material{MaterialA, MaterialB, MaterialC, MaterialD, MaterialE}
}

// PhaseOneMaterials returns the materials considered during facility selection.
// Material E is excluded by business rule.
func PhaseOneMaterials() []Material {
	return []Material{MaterialA, MaterialB, MaterialC, MaterialD}
}

// Valid reports whether m is one of the five known materials.
func (m Material) Valid() bool {
	switch m {
	case MaterialA, MaterialB, MaterialC, MaterialD, MaterialE:
		return true
	}
	return false
}

// ReportName returns the long form used in data files and reports,
// e.g. "RawMaterialA".
func (m Material) ReportName() string {
	return "RawMaterial" + string(m)
}

// ParseMaterial accepts either the short form ("A") or the report form
// ("RawMaterialA"), case-insensitively.
func ParseMaterial(s string) (Material, error) {
	name := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(name), "rawmaterial"); ok {
		name = rest
	}
	m := Material(strings.ToUpper(name))
	if !m.Valid() {
		return "", fmt.Errorf("unknown material %q", s)
	}
	return m, nil
}
