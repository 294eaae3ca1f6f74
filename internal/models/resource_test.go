package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceType(t *testing.T) {
	for _, valid := range []string{"app", "dataset", "repository"} {
		rt, ok := ParseResourceType(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, ResourceType(valid), rt)
	}

	for _, invalid := range []string{"", "vm", "App", "APP", " app"} {
		_, ok := ParseResourceType(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestTypeChoicesOrderAndLabels(t *testing.T) {
	choices := TypeChoices()
	require.Len(t, choices, 3)
	assert.Equal(t, TypeApp, choices[0].Value)
	assert.Equal(t, "App", choices[0].Label)
	assert.Equal(t, TypeDataset, choices[1].Value)
	assert.Equal(t, "Dataset", choices[1].Label)
	assert.Equal(t, TypeRepository, choices[2].Value)
	assert.Equal(t, "Repository", choices[2].Label)
}

func TestLabelFallsBackToRawValue(t *testing.T) {
	assert.Equal(t, "App", TypeApp.Label())
	assert.Equal(t, "weird", ResourceType("weird").Label())
}
