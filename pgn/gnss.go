package pgn

import (
	"math"
	"time"

	"github.com/openmarine/navbus"
)

// GNSS system, fix method and integrity values used in PGN 129029.
const (
	SystemGPS     uint8 = 0
	SystemGLONASS uint8 = 1
	SystemGalileo uint8 = 8

	MethodNoFix    uint8 = 0
	MethodGNSSFix  uint8 = 1
	MethodDGNSSFix uint8 = 2

	IntegrityNoChecking uint8 = 0
	IntegritySafe       uint8 = 1
	IntegrityCaution    uint8 = 2

	// NullStationType and NullStationID mark a reference station block that carries
	// no station (all bits ones on the wire).
	NullStationType uint8  = 0x0F
	NullStationID   uint16 = 0x0FFF
)

const (
	gnssPositionMinLength  = 43
	referenceStationLength = 4

	secondsPerDay = 24 * 60 * 60
)

// fixed head of the payload, 43 bytes. Reference station blocks follow.
var gnssPositionFields = []navbus.Field{
	{ID: "sid", BitOffset: 0, BitLength: 8, Resolution: 1, Special: 3},
	{ID: "date", BitOffset: 8, BitLength: 16, Resolution: 1, Special: 3}, // days since 1970-01-01
	{ID: "time", BitOffset: 24, BitLength: 32, Resolution: 0.0001, Special: 3}, // seconds since midnight
	{ID: "latitude", BitOffset: 56, BitLength: 64, Signed: true, Resolution: 1e-16, Special: 3},
	{ID: "longitude", BitOffset: 120, BitLength: 64, Signed: true, Resolution: 1e-16, Special: 3},
	{ID: "altitude", BitOffset: 184, BitLength: 64, Signed: true, Resolution: 1e-6, Special: 3},
	{ID: "system", BitOffset: 248, BitLength: 4, Resolution: 1, Special: 1},
	{ID: "method", BitOffset: 252, BitLength: 4, Resolution: 1, Special: 1},
	{ID: "integrity", BitOffset: 256, BitLength: 2, Resolution: 1, Special: 1}, // 6 reserved bits follow
	{ID: "satelliteCount", BitOffset: 264, BitLength: 8, Resolution: 1, Special: 3},
	{ID: "hdop", BitOffset: 272, BitLength: 16, Signed: true, Resolution: 0.01, Special: 3},
	{ID: "pdop", BitOffset: 288, BitLength: 16, Signed: true, Resolution: 0.01, Special: 3},
	{ID: "geoidalSeparation", BitOffset: 304, BitLength: 32, Signed: true, Resolution: 0.01, Special: 3},
	{ID: "referenceStationCount", BitOffset: 336, BitLength: 8, Resolution: 1, Special: 3},
}

var referenceStationFields = []navbus.Field{
	{ID: "type", BitOffset: 0, BitLength: 4, Resolution: 1},
	{ID: "id", BitOffset: 4, BitLength: 12, Resolution: 1},
	{ID: "ageOfCorrection", BitOffset: 16, BitLength: 16, Resolution: 0.01, Special: 3}, // seconds
}

// ReferenceStation is one differential correction source appended to PGN 129029.
type ReferenceStation struct {
	Type            uint8
	ID              uint16
	AgeOfCorrection float64 // seconds, NaN when unavailable
}

// GNSSPosition is PGN 129029 GNSS Position Data. Wider than a single CAN frame, it is
// always framed with the fast-packet protocol on the wire.
type GNSSPosition struct {
	SID  uint8
	Time time.Time // UTC instant of the fix

	Latitude  float64 // degrees
	Longitude float64 // degrees
	Altitude  float64 // meters, NaN when unknown

	System    uint8
	Method    uint8
	Integrity uint8

	SatelliteCount    uint8   // 0xFF when unknown
	HDOP              float64 // NaN when unknown
	PDOP              float64 // NaN when unknown
	GeoidalSeparation float64 // meters, NaN when unknown

	ReferenceStations []ReferenceStation
}

func (p GNSSPosition) MarshalPayload() ([]byte, error) {
	date, timeOfDay := math.NaN(), math.NaN()
	if !p.Time.IsZero() {
		t := p.Time.UTC()
		days := t.Unix() / secondsPerDay
		date = float64(days)
		timeOfDay = t.Sub(time.Unix(days*secondsPerDay, 0)).Seconds()
	}
	satellites := math.NaN()
	if p.SatelliteCount != 0xFF {
		satellites = float64(p.SatelliteCount)
	}

	size := gnssPositionMinLength + len(p.ReferenceStations)*referenceStationLength
	data, err := marshalFields(size, gnssPositionFields, []float64{
		float64(p.SID),
		date,
		timeOfDay,
		p.Latitude,
		p.Longitude,
		p.Altitude,
		float64(p.System),
		float64(p.Method),
		float64(p.Integrity),
		satellites,
		p.HDOP,
		p.PDOP,
		p.GeoidalSeparation,
		float64(len(p.ReferenceStations)),
	})
	if err != nil {
		return nil, err
	}

	for i, rs := range p.ReferenceStations {
		block := data[gnssPositionMinLength+i*referenceStationLength:]
		values := []float64{float64(rs.Type), float64(rs.ID), rs.AgeOfCorrection}
		for j, f := range referenceStationFields {
			if err := f.Encode(block, values[j]); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

func (p *GNSSPosition) UnmarshalPayload(data []byte) error {
	if len(data) < gnssPositionMinLength {
		return ErrMalformedPayload
	}
	values, err := unmarshalFields(data, gnssPositionFields)
	if err != nil {
		return err
	}

	p.SID = byteValue(values[0])
	p.Time = time.Time{}
	if !math.IsNaN(values[1]) && !math.IsNaN(values[2]) {
		midnight := time.Unix(int64(values[1])*secondsPerDay, 0).UTC()
		p.Time = midnight.Add(time.Duration(math.Round(values[2] * float64(time.Second))))
	}
	p.Latitude = values[3]
	p.Longitude = values[4]
	p.Altitude = values[5]
	p.System = byteValue(values[6])
	p.Method = byteValue(values[7])
	p.Integrity = byteValue(values[8])
	p.SatelliteCount = byteValue(values[9])
	p.HDOP = values[10]
	p.PDOP = values[11]
	p.GeoidalSeparation = values[12]

	p.ReferenceStations = nil
	if math.IsNaN(values[13]) {
		return nil
	}
	count := int(values[13])
	if len(data) < gnssPositionMinLength+count*referenceStationLength {
		return ErrMalformedPayload
	}
	for i := 0; i < count; i++ {
		block := navbus.RawData(data[gnssPositionMinLength+i*referenceStationLength:])
		stationValues, err := unmarshalFields(block[:referenceStationLength], referenceStationFields)
		if err != nil {
			return err
		}
		p.ReferenceStations = append(p.ReferenceStations, ReferenceStation{
			Type:            byteValue(stationValues[0]) & 0x0F,
			ID:              uint16(stationValues[1]),
			AgeOfCorrection: stationValues[2],
		})
	}
	return nil
}
