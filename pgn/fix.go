package pgn

import (
	"math"
	"time"
)

// NavigationFix is a single GNSS fix with its motion values. It is immutable input to
// the PGN codecs: course and speed travel with the fix instead of being derived from
// codec state between calls.
type NavigationFix struct {
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Altitude  float64 // meters above mean sea level, NaN when unknown

	SpeedOverGround  float64 // m/s, NaN when unknown
	CourseOverGround float64 // degrees from true north 0-360, NaN when unknown

	Time time.Time // UTC
	SID  uint8     // 0-252, links PGNs derived from the same fix
}

// PositionRapid returns PGN 129025 values for the fix.
func (f NavigationFix) PositionRapid() PositionRapid {
	return PositionRapid{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
	}
}

// CourseSpeedRapid returns PGN 129026 values for the fix, course referenced to true north.
func (f NavigationFix) CourseSpeedRapid() CourseSpeedRapid {
	return CourseSpeedRapid{
		SID:              f.SID,
		Reference:        CourseReferenceTrue,
		CourseOverGround: f.CourseOverGround,
		SpeedOverGround:  f.SpeedOverGround,
	}
}

// GNSSPosition returns PGN 129029 values for the fix. Quality values that a bare fix
// does not carry (satellite count, dilutions, geoidal separation) are left
// unavailable for the caller to fill in. A single null reference station is appended,
// some receivers expect the station trailer to be present.
func (f NavigationFix) GNSSPosition() GNSSPosition {
	return GNSSPosition{
		SID:       f.SID,
		Time:      f.Time,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Altitude:  f.Altitude,

		System:    SystemGPS,
		Method:    MethodGNSSFix,
		Integrity: IntegritySafe,

		SatelliteCount:    0xFF,
		HDOP:              math.NaN(),
		PDOP:              math.NaN(),
		GeoidalSeparation: math.NaN(),

		ReferenceStations: []ReferenceStation{
			{Type: NullStationType, ID: NullStationID, AgeOfCorrection: math.NaN()},
		},
	}
}

// VehiclePosition returns J1939 PGN 65267 values for the fix.
func (f NavigationFix) VehiclePosition() VehiclePosition {
	return VehiclePosition{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
	}
}

// VehicleDirectionSpeed returns J1939 PGN 65256 values for the fix. Pitch and
// altitude are sent as unavailable, matching what a GNSS-only source can know.
func (f NavigationFix) VehicleDirectionSpeed() VehicleDirectionSpeed {
	return VehicleDirectionSpeed{
		CompassBearing: f.CourseOverGround,
		Speed:          f.SpeedOverGround,
		Pitch:          math.NaN(),
		Altitude:       math.NaN(),
	}
}
