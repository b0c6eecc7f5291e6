package nmea0183

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0x0B), Checksum("GPRMC,120513.40,A,5159.2740,N,00539.7800,E,1.2,45.0,230323,,"))
	assert.Equal(t, byte(0x07), Checksum("PHTG,GAL,HAS,0,0,0"))
}

func TestStripSentence(t *testing.T) {
	var testCases = []struct {
		name        string
		given       string
		expect      string
		expectError error
	}{
		{
			name:   "ok, valid checksum",
			given:  "$PHTG,GAL,HAS,0,0,0*07",
			expect: "PHTG,GAL,HAS,0,0,0",
		},
		{
			name:   "ok, no checksum suffix",
			given:  "$PHTG,GAL,HAS,0,0,0",
			expect: "PHTG,GAL,HAS,0,0,0",
		},
		{
			name:   "ok, trailing CRLF is stripped",
			given:  "$PHTG,GAL,HAS,0,0,0*07\r\n",
			expect: "PHTG,GAL,HAS,0,0,0",
		},
		{
			name:        "nok, wrong checksum",
			given:       "$PHTG,GAL,HAS,0,0,0*08",
			expectError: ErrChecksumMismatch,
		},
		{
			name:        "nok, not a sentence",
			given:       "PHTG,GAL,HAS,0,0,0",
			expectError: ErrNotSentence,
		},
		{
			name:        "nok, unparseable checksum field",
			given:       "$PHTG,GAL,HAS,0,0,0*ZZ",
			expectError: ErrMalformedSentence,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := StripSentence(tc.given)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, body)
		})
	}
}

func TestParseRMC(t *testing.T) {
	t.Run("ok, northern and eastern hemisphere", func(t *testing.T) {
		rmc, err := ParseRMC("$GPRMC,120513.40,A,5159.2740,N,00539.7800,E,1.2,45.0,230323,,*0B")

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2023, 3, 23, 12, 5, 13, 400_000_000, time.UTC), rmc.Time)
		assert.InDelta(t, 51.9879, rmc.Latitude, 1e-9)
		assert.InDelta(t, 5.663, rmc.Longitude, 1e-9)
		assert.InDelta(t, 0.6173328, rmc.SpeedOverGround, 1e-9) // 1.2 knots
		assert.InDelta(t, 45.0, rmc.CourseOverGround, 1e-9)
	})

	t.Run("ok, southern and western hemisphere", func(t *testing.T) {
		rmc, err := ParseRMC("$GPRMC,120513.40,A,5159.2740,S,00539.7800,W,1.2,45.0,230323,,*04")

		assert.NoError(t, err)
		assert.InDelta(t, -51.9879, rmc.Latitude, 1e-9)
		assert.InDelta(t, -5.663, rmc.Longitude, 1e-9)
	})

	t.Run("ok, empty speed and course parse as unavailable", func(t *testing.T) {
		rmc, err := ParseRMC("$GPRMC,120513.40,A,5159.2740,N,00539.7800,E,,,230323,,*39")

		assert.NoError(t, err)
		assert.True(t, math.IsNaN(rmc.SpeedOverGround))
		assert.True(t, math.IsNaN(rmc.CourseOverGround))
	})

	t.Run("nok, status V means no fix", func(t *testing.T) {
		_, err := ParseRMC("$GPRMC,120513.40,V,5159.2740,N,00539.7800,E,1.2,45.0,230323,,*1C")
		assert.ErrorIs(t, err, ErrNoFix)
	})

	t.Run("nok, not an RMC sentence", func(t *testing.T) {
		_, err := ParseRMC("$GPGGA,120513.40,5159.2740,N,00539.7800,E,4,10,0.8,10.0,M,46.0,M,,*5A")
		assert.ErrorIs(t, err, ErrNotRMC)
	})

	t.Run("nok, checksum mismatch", func(t *testing.T) {
		_, err := ParseRMC("$GPRMC,120513.40,A,5159.2740,N,00539.7800,E,1.2,45.0,230323,,*0C")
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("nok, too few fields", func(t *testing.T) {
		_, err := ParseRMC("$GPRMC,120513.40,A")
		assert.ErrorIs(t, err, ErrMalformedSentence)
	})
}

func TestRMC_Fix(t *testing.T) {
	rmc, err := ParseRMC("$GPRMC,120513.40,A,5159.2740,N,00539.7800,E,1.2,45.0,230323,,*0B")
	assert.NoError(t, err)

	fix := rmc.Fix(7)

	assert.Equal(t, uint8(7), fix.SID)
	assert.Equal(t, rmc.Time, fix.Time)
	assert.Equal(t, rmc.Latitude, fix.Latitude)
	assert.Equal(t, rmc.Longitude, fix.Longitude)
	assert.Equal(t, rmc.SpeedOverGround, fix.SpeedOverGround)
	assert.Equal(t, rmc.CourseOverGround, fix.CourseOverGround)
	assert.True(t, math.IsNaN(fix.Altitude))
}
