package pgn

import (
	"github.com/openmarine/navbus"
)

const metersPerSecondToKmh = 3.6

// VehiclePosition is J1939 PGN 65267 (Vehicle Position, J1939-71). Unlike PGN 129025
// the coordinates are unsigned with a -210 degree offset.
type VehiclePosition struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
}

const vehiclePositionLength = 8

var vehiclePositionFields = []navbus.Field{
	{ID: "latitude", BitOffset: 0, BitLength: 32, Resolution: 1e-7, Offset: -210, Special: 1},
	{ID: "longitude", BitOffset: 32, BitLength: 32, Resolution: 1e-7, Offset: -210, Special: 1},
}

func (p VehiclePosition) MarshalPayload() ([]byte, error) {
	return marshalFields(vehiclePositionLength, vehiclePositionFields, []float64{p.Latitude, p.Longitude})
}

func (p *VehiclePosition) UnmarshalPayload(data []byte) error {
	if len(data) != vehiclePositionLength {
		return ErrMalformedPayload
	}
	values, err := unmarshalFields(data, vehiclePositionFields)
	if err != nil {
		return err
	}
	p.Latitude = values[0]
	p.Longitude = values[1]
	return nil
}

// VehicleDirectionSpeed is J1939 PGN 65256 (Vehicle Direction/Speed, J1939-71).
// Speed is carried as km/h on the wire, this struct keeps m/s.
type VehicleDirectionSpeed struct {
	CompassBearing float64 // degrees, NaN when unknown
	Speed          float64 // m/s, NaN when unknown
	Pitch          float64 // degrees, NaN when unknown
	Altitude       float64 // meters, NaN when unknown
}

const vehicleDirectionSpeedLength = 8

var vehicleDirectionSpeedFields = []navbus.Field{
	{ID: "compassBearing", BitOffset: 0, BitLength: 16, Resolution: 1.0 / 128, Special: 1},
	{ID: "navigationSpeed", BitOffset: 16, BitLength: 16, Resolution: 1.0 / 256, Special: 1}, // km/h
	{ID: "pitch", BitOffset: 32, BitLength: 16, Resolution: 1.0 / 128, Offset: -200, Special: 1},
	{ID: "altitude", BitOffset: 48, BitLength: 16, Resolution: 0.125, Offset: -2500, Special: 1},
}

func (p VehicleDirectionSpeed) MarshalPayload() ([]byte, error) {
	return marshalFields(vehicleDirectionSpeedLength, vehicleDirectionSpeedFields, []float64{
		p.CompassBearing,
		p.Speed * metersPerSecondToKmh,
		p.Pitch,
		p.Altitude,
	})
}

func (p *VehicleDirectionSpeed) UnmarshalPayload(data []byte) error {
	if len(data) != vehicleDirectionSpeedLength {
		return ErrMalformedPayload
	}
	values, err := unmarshalFields(data, vehicleDirectionSpeedFields)
	if err != nil {
		return err
	}
	p.CompassBearing = values[0]
	p.Speed = values[1] / metersPerSecondToKmh
	p.Pitch = values[2]
	p.Altitude = values[3]
	return nil
}
