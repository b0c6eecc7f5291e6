package pgn

import (
	"testing"

	"github.com/openmarine/navbus"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	var testCases = []struct {
		name        string
		given       navbus.RawMessage
		expect      interface{}
		expectError error
	}{
		{
			name: "ok, position rapid update",
			given: navbus.RawMessage{
				Header: navbus.CanBusHeader{PGN: PGNPositionRapid, Source: 0x80},
				Data:   navbus.RawData{0x58, 0xB9, 0xFC, 0x1E, 0xF0, 0x1A, 0x60, 0x03},
			},
			expect: PositionRapid{Latitude: 51.9879, Longitude: 5.663},
		},
		{
			name: "ok, vehicle position",
			given: navbus.RawMessage{
				Header: navbus.CanBusHeader{PGN: PGNVehiclePosition, Source: 0x80},
				Data:   navbus.RawData{0x58, 0x2E, 0x28, 0x9C, 0xF0, 0x8F, 0x8B, 0x80},
			},
			expect: VehiclePosition{Latitude: 51.9879, Longitude: 5.663},
		},
		{
			name: "nok, malformed payload",
			given: navbus.RawMessage{
				Header: navbus.CanBusHeader{PGN: PGNCourseSpeedRapid, Source: 0x80},
				Data:   navbus.RawData{0x01},
			},
			expectError: ErrMalformedPayload,
		},
		{
			name: "nok, unknown pgn",
			given: navbus.RawMessage{
				Header: navbus.CanBusHeader{PGN: 60928, Source: 0x80},
				Data:   navbus.RawData{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			},
			expectError: ErrUnknownPGN,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Decode(tc.given)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.IsType(t, tc.expect, result)
			switch expect := tc.expect.(type) {
			case PositionRapid:
				decoded := result.(PositionRapid)
				assert.InDelta(t, expect.Latitude, decoded.Latitude, 1e-7)
				assert.InDelta(t, expect.Longitude, decoded.Longitude, 1e-7)
			case VehiclePosition:
				decoded := result.(VehiclePosition)
				assert.InDelta(t, expect.Latitude, decoded.Latitude, 1e-7)
				assert.InDelta(t, expect.Longitude, decoded.Longitude, 1e-7)
			}
		})
	}
}
