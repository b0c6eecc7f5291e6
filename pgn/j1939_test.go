package pgn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehiclePosition_MarshalPayload(t *testing.T) {
	given := VehiclePosition{Latitude: 51.9879, Longitude: 5.663}

	data, err := given.MarshalPayload()

	assert.NoError(t, err)
	// raw = (degrees + 210) / 1e-7
	assert.Equal(t, []byte{0x58, 0x2E, 0x28, 0x9C, 0xF0, 0x8F, 0x8B, 0x80}, []byte(data))
}

func TestVehiclePosition_UnmarshalPayload(t *testing.T) {
	p := VehiclePosition{}
	err := p.UnmarshalPayload([]byte{0x58, 0x2E, 0x28, 0x9C, 0xF0, 0x8F, 0x8B, 0x80})

	assert.NoError(t, err)
	assert.InDelta(t, 51.9879, p.Latitude, 1e-7)
	assert.InDelta(t, 5.663, p.Longitude, 1e-7)
}

func TestVehiclePosition_UnmarshalPayload_WrongLength(t *testing.T) {
	p := VehiclePosition{}
	assert.ErrorIs(t, p.UnmarshalPayload(make([]byte, 7)), ErrMalformedPayload)
	assert.ErrorIs(t, p.UnmarshalPayload(make([]byte, 9)), ErrMalformedPayload)
}

func TestVehicleDirectionSpeed_MarshalPayload(t *testing.T) {
	var testCases = []struct {
		name   string
		given  VehicleDirectionSpeed
		expect []byte
	}{
		{
			name: "ok, bearing and speed known, pitch and altitude not",
			given: VehicleDirectionSpeed{
				CompassBearing: 45.0,
				Speed:          0.61733, // 2.2224 km/h on the wire
				Pitch:          math.NaN(),
				Altitude:       math.NaN(),
			},
			// bearing raw = 45*128 = 5760, speed raw = round(2.2224*256) = 569
			expect: []byte{0x80, 0x16, 0x39, 0x02, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "ok, nothing known",
			given: VehicleDirectionSpeed{
				CompassBearing: math.NaN(),
				Speed:          math.NaN(),
				Pitch:          math.NaN(),
				Altitude:       math.NaN(),
			},
			expect: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.given.MarshalPayload()
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, []byte(data))
		})
	}
}

func TestVehicleDirectionSpeed_UnmarshalPayload(t *testing.T) {
	p := VehicleDirectionSpeed{}
	err := p.UnmarshalPayload([]byte{0x80, 0x16, 0x39, 0x02, 0xFF, 0xFF, 0xFF, 0xFF})

	assert.NoError(t, err)
	assert.InDelta(t, 45.0, p.CompassBearing, 0.01)
	assert.InDelta(t, 0.61733, p.Speed, 0.001)
	assert.True(t, math.IsNaN(p.Pitch))
	assert.True(t, math.IsNaN(p.Altitude))
}

func TestVehicleDirectionSpeed_RoundTrip(t *testing.T) {
	given := VehicleDirectionSpeed{
		CompassBearing: 293.3,
		Speed:          1.64,
		Pitch:          -2.5,
		Altitude:       120.5,
	}

	data, err := given.MarshalPayload()
	assert.NoError(t, err)

	decoded := VehicleDirectionSpeed{}
	assert.NoError(t, decoded.UnmarshalPayload(data))
	assert.InDelta(t, given.CompassBearing, decoded.CompassBearing, 0.01)
	assert.InDelta(t, given.Speed, decoded.Speed, 0.005)
	assert.InDelta(t, given.Pitch, decoded.Pitch, 0.01)
	assert.InDelta(t, given.Altitude, decoded.Altitude, 0.125)
}
