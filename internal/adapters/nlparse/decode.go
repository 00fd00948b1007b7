package nlparse

import (
	"encoding/json"
	"fmt"
	"strings"

	"siteopt/internal/application/scenario"
	"siteopt/internal/domain/dataset"
)

type scenarioDTO struct {
	ScenarioName  string            `json:"scenario_name"`
	Explanation   string            `json:"explanation"`
	Modifications []modificationDTO `json:"modifications"`
}

type modificationDTO struct {
	Type     string   `json:"type"`
	Action   string   `json:"action"`
	Value    float64  `json:"value"`
	Material string   `json:"material"`
	SiteID   string   `json:"site_id"`
	Leg      string   `json:"leg"`
	FromSite string   `json:"from_site"`
	ToSite   string   `json:"to_site"`
	PortID   string   `json:"port_id"`
	PortIDs  []string `json:"port_ids"`
	Facility string   `json:"facility_id"`
}

// decodeScenario turns the model's raw response into a ParsedScenario. The
// output stays untrusted: the scenario engine re-validates every modification
// against the dataset before anything is solved.
func decodeScenario(raw string) (*scenario.ParsedScenario, error) {
	body := stripFences(raw)
	var dto scenarioDTO
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		return nil, fmt.Errorf("scenario response is not valid JSON: %w", err)
	}
	if len(dto.Modifications) == 0 {
		return nil, fmt.Errorf("scenario response contains no modifications")
	}

	mods := make([]dataset.Modification, 0, len(dto.Modifications))
	for i, m := range dto.Modifications {
		mod, err := toModification(m)
		if err != nil {
			return nil, fmt.Errorf("modification %d: %w", i+1, err)
		}
		mods = append(mods, mod)
	}

	name := strings.TrimSpace(dto.ScenarioName)
	if name == "" {
		name = "scenario"
	}
	return &scenario.ParsedScenario{
		Name:          name,
		Explanation:   strings.TrimSpace(dto.Explanation),
		Modifications: mods,
	}, nil
}

func toModification(dto modificationDTO) (dataset.Modification, error) {
	modType := dataset.ModificationType(dto.Type)
	switch modType {
	case dataset.ModProductionTarget, dataset.ModFreightCost, dataset.ModMaterialVolume,
		dataset.ModMaterialPrice, dataset.ModMaterialYield, dataset.ModMaxConsumption,
		dataset.ModForcedFacility, dataset.ModForcedPorts:
	default:
		return dataset.Modification{}, fmt.Errorf("unknown type %q", dto.Type)
	}

	action, err := parseAction(dto.Action, modType)
	if err != nil {
		return dataset.Modification{}, err
	}

	var material dataset.Material
	if dto.Material != "" {
		material, err = dataset.ParseMaterial(dto.Material)
		if err != nil {
			return dataset.Modification{}, err
		}
	}

	return dataset.Modification{
		Type:       modType,
		Action:     action,
		Value:      dto.Value,
		SiteID:     strings.TrimSpace(dto.SiteID),
		Material:   material,
		Leg:        dataset.FreightLeg(dto.Leg),
		FromSite:   strings.TrimSpace(dto.FromSite),
		ToSite:     strings.TrimSpace(dto.ToSite),
		PortID:     strings.TrimSpace(dto.PortID),
		Ports:      dto.PortIDs,
		FacilityID: strings.TrimSpace(dto.Facility),
	}, nil
}

// parseAction normalizes the action verb. Models sometimes answer "multiply"
// or "scale" for the scale-by contract; both mean the same thing.
func parseAction(raw string, modType dataset.ModificationType) (dataset.Action, error) {
	switch modType {
	case dataset.ModForcedFacility, dataset.ModForcedPorts:
		return "", nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "set":
		return dataset.ActionSet, nil
	case "scale-by", "scale", "multiply":
		return dataset.ActionScale, nil
	case "":
		return "", fmt.Errorf("missing action for type %q", modType)
	}
	return "", fmt.Errorf("unknown action %q", raw)
}

// stripFences removes a surrounding markdown code fence when the model wraps
// its JSON despite the instruction not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
