package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/shared"
)

const validYAML = `collection_points:
  - site_id: Alpha_Mill
    materials:
      rawMaterialA: {volume_tons: 50000, price_per_ton: 100}
      rawMaterialE: {volume_tons: 10000, price_per_ton: 60}
  - site_id: Beta_Works
    materials:
      rawMaterialA: {volume_tons: 60000, price_per_ton: 100}
  - site_id: Gamma_Forge
    materials:
      rawMaterialA: {volume_tons: 70000, price_per_ton: 100}
ports:
  - port_id: PortX
    operational_cost: 5
    sea_freight: 10
demand:
  target_tons: 100000
  yield_factors:
    rawMaterialA: 0.9
    rawMaterialB: 0.85
    rawMaterialC: 0.8
    rawMaterialD: 0.75
    rawMaterialE: 0.7
  max_consumption_shares:
    rawMaterialA: 1.0
    rawMaterialB: 1.0
    rawMaterialC: 1.0
    rawMaterialD: 1.0
    rawMaterialE: 0.2
freight:
  inbound_matrix: inbound.csv
  outbound_matrix: outbound.csv
  material_e_flat: 30
`

const validInboundCSV = `origin,Alpha_Mill,Beta_Works,Gamma_Forge
Alpha_Mill,,20,20
Beta_Works,20,,20
Gamma_Forge,20,20,
`

const validOutboundCSV = `origin,PortX
Alpha_Mill,15
Beta_Works,15
Gamma_Forge,15
`

func writeFixture(t *testing.T, yamlBody, inboundCSV, outboundCSV string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inbound.csv"), []byte(inboundCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outbound.csv"), []byte(outboundCSV), 0o644))
	return path
}

func TestLoader_LoadsCompleteDataset(t *testing.T) {
	path := writeFixture(t, validYAML, validInboundCSV, validOutboundCSV)

	ds, err := NewLoader().Load(path)

	require.NoError(t, err)
	require.Len(t, ds.Points, 3)
	alpha, ok := ds.Point("Alpha_Mill")
	require.True(t, ok)
	assert.InDelta(t, 50000, alpha.Volume(dataset.MaterialA), 1e-9)
	assert.InDelta(t, 10000, alpha.Volume(dataset.MaterialE), 1e-9)
	assert.InDelta(t, 60, alpha.Prices[dataset.MaterialE], 1e-9)

	require.Len(t, ds.Ports, 1)
	assert.Equal(t, "PortX", ds.Ports[0].PortID)
	assert.InDelta(t, 5, ds.Ports[0].OperationalCost, 1e-9)

	assert.InDelta(t, 100000, ds.Demand.TargetTons, 1e-9)
	assert.InDelta(t, 0.9, ds.Demand.Yield(dataset.MaterialA), 1e-9)
	assert.InDelta(t, 0.2, ds.Demand.MaxConsumptionShares[dataset.MaterialE], 1e-9)

	rate, ok := ds.Freight.InboundRate("Alpha_Mill", "Beta_Works")
	require.True(t, ok)
	assert.InDelta(t, 20, rate, 1e-9)
	assert.InDelta(t, 30, ds.Freight.MaterialEFlat, 1e-9)
	out, ok := ds.Freight.OutboundRate("Gamma_Forge", "PortX")
	require.True(t, ok)
	assert.InDelta(t, 15, out, 1e-9)
}

func TestLoader_SameSiteInboundIsFree(t *testing.T) {
	path := writeFixture(t, validYAML, validInboundCSV, validOutboundCSV)

	ds, err := NewLoader().Load(path)

	require.NoError(t, err)
	rate, ok := ds.Freight.InboundRate("Alpha_Mill", "Alpha_Mill")
	require.True(t, ok)
	assert.Zero(t, rate)
}

func TestLoader_EmptyCellLeavesLaneUndefined(t *testing.T) {
	inbound := `origin,Alpha_Mill,Beta_Works,Gamma_Forge
Alpha_Mill,,20,20
Beta_Works,20,,
Gamma_Forge,20,20,
`
	path := writeFixture(t, validYAML, inbound, validOutboundCSV)

	ds, err := NewLoader().Load(path)

	require.NoError(t, err)
	_, ok := ds.Freight.InboundRate("Beta_Works", "Gamma_Forge")
	assert.False(t, ok)
	_, ok = ds.Freight.InboundRate("Gamma_Forge", "Beta_Works")
	assert.True(t, ok)
}

func TestLoader_UnknownFieldRejected(t *testing.T) {
	path := writeFixture(t, validYAML+"extra_knob: 1\n", validInboundCSV, validOutboundCSV)

	_, err := NewLoader().Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra_knob")
}

func TestLoader_UnknownMaterialRejected(t *testing.T) {
	bad := `collection_points:
  - site_id: Alpha_Mill
    materials:
      rawMaterialZ: {volume_tons: 100, price_per_ton: 10}
ports:
  - port_id: PortX
    operational_cost: 5
    sea_freight: 10
demand:
  target_tons: 100
  yield_factors:
    rawMaterialA: 0.9
  max_consumption_shares:
    rawMaterialA: 1.0
freight:
  inbound_matrix: inbound.csv
  outbound_matrix: outbound.csv
`
	path := writeFixture(t, bad, "origin,Alpha_Mill\nAlpha_Mill,\n", "origin,PortX\nAlpha_Mill,15\n")

	_, err := NewLoader().Load(path)

	var inconsistent *shared.InconsistentDataError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "Alpha_Mill", inconsistent.Field)
	assert.Contains(t, inconsistent.Reason, "rawMaterialZ")
}

func TestLoader_OutboundToUnknownPortRejected(t *testing.T) {
	outbound := `origin,PortX,PortZ
Alpha_Mill,15,12
Beta_Works,15,12
Gamma_Forge,15,12
`
	path := writeFixture(t, validYAML, validInboundCSV, outbound)

	_, err := NewLoader().Load(path)

	var inconsistent *shared.InconsistentDataError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "freight.outbound", inconsistent.Field)
	assert.Contains(t, inconsistent.Reason, "PortZ")
}

func TestLoader_InboundFromUnknownSiteRejected(t *testing.T) {
	inbound := validInboundCSV + "Delta_Yard,20,20,20\n"
	path := writeFixture(t, validYAML, inbound, validOutboundCSV)

	_, err := NewLoader().Load(path)

	var inconsistent *shared.InconsistentDataError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "freight.inbound", inconsistent.Field)
	assert.Contains(t, inconsistent.Reason, "Delta_Yard")
}

func TestLoader_NonPositiveTargetRejected(t *testing.T) {
	bad := strings.Replace(validYAML, "target_tons: 100000", "target_tons: -5", 1)
	path := writeFixture(t, bad, validInboundCSV, validOutboundCSV)

	_, err := NewLoader().Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TargetTons")
}

func TestLoader_ForcedOverridesSurvive(t *testing.T) {
	body := validYAML + `overrides:
  forced_facility: Gamma_Forge
  forced_ports: [PortX]
`
	path := writeFixture(t, body, validInboundCSV, validOutboundCSV)

	ds, err := NewLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Gamma_Forge", ds.Overrides.ForcedFacility)
	assert.Equal(t, []string{"PortX"}, ds.Overrides.ForcedPorts)
}

func TestLoader_MissingMatrixFileFails(t *testing.T) {
	body := strings.Replace(validYAML, "inbound_matrix: inbound.csv", "inbound_matrix: nope.csv", 1)
	path := writeFixture(t, body, validInboundCSV, validOutboundCSV)

	_, err := NewLoader().Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestReadRateMatrix_RejectsMalformedTables(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		want string
	}{
		{"duplicate origin", "origin,A1\nA1,5\nA1,6\n", "repeats origin"},
		{"negative rate", "origin,A1\nB2,-3\n", "negative"},
		{"ragged row", "origin,A1,B2\nA1,5\n", "cells"},
		{"header only", "origin,A1\n", "at least one row"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rates.csv")
			require.NoError(t, os.WriteFile(path, []byte(tc.csv), 0o644))

			_, err := readRateMatrix(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
