package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"siteopt/pkg/utils"
)

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.5, utils.SafeDiv(5, 2))
	assert.Zero(t, utils.SafeDiv(5, 0))
	assert.Zero(t, utils.SafeDiv(0, 0))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 50.0, utils.PercentChange(100, 150))
	assert.Equal(t, -25.0, utils.PercentChange(100, 75))
	assert.Zero(t, utils.PercentChange(0, 75))
}

func TestGenerateRunID(t *testing.T) {
	id := utils.GenerateRunID("scenario", "Higher Fuel Cost")

	assert.True(t, strings.HasPrefix(id, "scenario-higher-fuel-cost-"), id)
	parts := strings.Split(id, "-")
	assert.Len(t, parts[len(parts)-1], 8)

	// No label collapses to kind + suffix
	bare := utils.GenerateRunID("baseline", "")
	assert.True(t, strings.HasPrefix(bare, "baseline-"), bare)

	// IDs are unique across calls
	assert.NotEqual(t, id, utils.GenerateRunID("scenario", "Higher Fuel Cost"))
}
