package plate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hakizimana/parkgate/internal/parkgate/plate"
)

func TestNormalize_ValidPlate(t *testing.T) {
	p, ok := plate.Normalize("RAB123C")
	assert.True(t, ok)
	assert.Equal(t, "RAB123C", p)
}

func TestNormalize_TrimsTrailingOCRJunk(t *testing.T) {
	p, ok := plate.Normalize("RAB123CXYZ99")
	assert.True(t, ok)
	assert.Equal(t, "RAB123C", p)
}

func TestNormalize_Rejects(t *testing.T) {
	cases := []string{
		"",
		"RAB123",  // too short
		"XAB123C", // wrong series
		"RA1123C", // digit in letter position
		"RABX23C", // letter in digit position
		"RAB123c", // lowercase suffix
		"RAB1234", // digit suffix
	}
	for _, c := range cases {
		_, ok := plate.Normalize(c)
		assert.False(t, ok, "expected %q to be rejected", c)
	}
}
