package pgn

import (
	"math"

	"github.com/openmarine/navbus"
)

// Course reference values for PGN 129026.
const (
	CourseReferenceTrue     uint8 = 0
	CourseReferenceMagnetic uint8 = 1
)

// CourseSpeedRapid is PGN 129026 COG & SOG, Rapid Update. Course is carried as
// radians on the wire, this struct keeps degrees like the rest of the application.
type CourseSpeedRapid struct {
	SID              uint8
	Reference        uint8
	CourseOverGround float64 // degrees, NaN when unknown
	SpeedOverGround  float64 // m/s, NaN when unknown
}

const courseSpeedRapidLength = 8

// bytes 6-7 are reserved and stay 0xFFFF
var courseSpeedRapidFields = []navbus.Field{
	{ID: "sid", BitOffset: 0, BitLength: 8, Resolution: 1, Special: 3},
	{ID: "cogReference", BitOffset: 8, BitLength: 2, Resolution: 1, Special: 1},
	{ID: "cog", BitOffset: 16, BitLength: 16, Resolution: 0.0001, Special: 3},
	{ID: "sog", BitOffset: 32, BitLength: 16, Resolution: 0.01, Special: 3},
}

func (p CourseSpeedRapid) MarshalPayload() ([]byte, error) {
	return marshalFields(courseSpeedRapidLength, courseSpeedRapidFields, []float64{
		float64(p.SID),
		float64(p.Reference),
		p.CourseOverGround * math.Pi / 180,
		p.SpeedOverGround,
	})
}

func (p *CourseSpeedRapid) UnmarshalPayload(data []byte) error {
	if len(data) != courseSpeedRapidLength {
		return ErrMalformedPayload
	}
	values, err := unmarshalFields(data, courseSpeedRapidFields)
	if err != nil {
		return err
	}
	p.SID = byteValue(values[0])
	p.Reference = byteValue(values[1])
	p.CourseOverGround = values[2] * 180 / math.Pi
	p.SpeedOverGround = values[3]
	return nil
}
