package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	c := Build("1.0.0")

	assert.Equal(t, "1.0.0", c.Version)
	require.Len(t, c.Intents, 10)

	byName := map[string]IntentEntry{}
	for _, entry := range c.Intents {
		byName[entry.Name] = entry
	}

	checkRate, ok := byName["CHECK_RATE"]
	require.True(t, ok)
	assert.Equal(t, []string{"pickup_location", "drop_location", "weight_kg"}, checkRate.RequiredFields)
	assert.Equal(t, []string{"packages"}, checkRate.RecommendedFields)

	track, ok := byName["TRACK_ORDER"]
	require.True(t, ok)
	assert.Empty(t, track.RequiredFields)
}
