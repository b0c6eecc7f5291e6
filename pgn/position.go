package pgn

import (
	"github.com/openmarine/navbus"
)

// PositionRapid is PGN 129025 Position, Rapid Update. Single frame, exactly 8 bytes.
type PositionRapid struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
}

const positionRapidLength = 8

var positionRapidFields = []navbus.Field{
	{ID: "latitude", BitOffset: 0, BitLength: 32, Signed: true, Resolution: 1e-7, Special: 3},
	{ID: "longitude", BitOffset: 32, BitLength: 32, Signed: true, Resolution: 1e-7, Special: 3},
}

func (p PositionRapid) MarshalPayload() ([]byte, error) {
	return marshalFields(positionRapidLength, positionRapidFields, []float64{p.Latitude, p.Longitude})
}

func (p *PositionRapid) UnmarshalPayload(data []byte) error {
	if len(data) != positionRapidLength {
		return ErrMalformedPayload
	}
	values, err := unmarshalFields(data, positionRapidFields)
	if err != nil {
		return err
	}
	p.Latitude = values[0]
	p.Longitude = values[1]
	return nil
}
