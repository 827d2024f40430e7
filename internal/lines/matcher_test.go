package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LeBron James", "lebron james"},
		{"  Jaren Jackson Jr.  ", "jaren jackson"},
		{"Gary Payton II", "gary payton"},
		{"Tim Hardaway Jr", "tim hardaway"},
		{"Wendell Carter Jr.", "wendell carter"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestMatchExact(t *testing.T) {
	table := models.LineTable{
		"lebron james": {models.StatPoints: 25.5},
	}

	found, ok := Match("LeBron James", table)
	require.True(t, ok)
	assert.InDelta(t, 25.5, found[models.StatPoints], 1e-9)
}

func TestMatchSuffixNormalizesToExact(t *testing.T) {
	table := models.LineTable{
		"jaren jackson": {models.StatRebounds: 6.5},
	}

	found, ok := Match("Jaren Jackson Jr.", table)
	require.True(t, ok)
	assert.InDelta(t, 6.5, found[models.StatRebounds], 1e-9)
}

func TestMatchSurnameFallback(t *testing.T) {
	table := models.LineTable{
		"jr smith": {models.StatPoints: 12.5},
	}

	found, ok := Match("Jr. Smith Jr.", table)
	require.True(t, ok)
	assert.InDelta(t, 12.5, found[models.StatPoints], 1e-9)
}

func TestMatchSurnameCollisionBrokenByInitial(t *testing.T) {
	table := models.LineTable{
		"kevin porter": {models.StatPoints: 10.5},
		"otto porter":  {models.StatPoints: 8.5},
	}

	found, ok := Match("K. Porter", table)
	require.True(t, ok)
	assert.InDelta(t, 10.5, found[models.StatPoints], 1e-9)
}

func TestMatchAmbiguousSurnameReturnsNoMatch(t *testing.T) {
	table := models.LineTable{
		"austin rivers": {models.StatPoints: 9.5},
		"antoine rivers": {models.StatPoints: 7.5},
	}

	// Both candidates share the first initial; no safe pick exists.
	_, ok := Match("Doc Rivers", table)
	assert.False(t, ok)
}

func TestMatchSingleTokenName(t *testing.T) {
	table := models.LineTable{
		"nene hilario": {models.StatPoints: 6.5},
	}

	_, ok := Match("Nene", table)
	assert.False(t, ok)
}
