package pgn

import (
	"encoding/json"
	"math"
	"time"
)

// Decoded values carry NaN for fields the sender marked unavailable. JSON has no
// NaN so those fields marshal as null.

func optionalFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func (p PositionRapid) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{
		Latitude:  optionalFloat(p.Latitude),
		Longitude: optionalFloat(p.Longitude),
	})
}

func (p CourseSpeedRapid) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SID              uint8    `json:"sid"`
		Reference        uint8    `json:"reference"`
		CourseOverGround *float64 `json:"courseOverGround"`
		SpeedOverGround  *float64 `json:"speedOverGround"`
	}{
		SID:              p.SID,
		Reference:        p.Reference,
		CourseOverGround: optionalFloat(p.CourseOverGround),
		SpeedOverGround:  optionalFloat(p.SpeedOverGround),
	})
}

func (p GNSSPosition) MarshalJSON() ([]byte, error) {
	var at *time.Time
	if !p.Time.IsZero() {
		at = &p.Time
	}
	return json.Marshal(struct {
		SID               uint8              `json:"sid"`
		Time              *time.Time         `json:"time"`
		Latitude          *float64           `json:"latitude"`
		Longitude         *float64           `json:"longitude"`
		Altitude          *float64           `json:"altitude"`
		System            uint8              `json:"system"`
		Method            uint8              `json:"method"`
		Integrity         uint8              `json:"integrity"`
		SatelliteCount    uint8              `json:"satelliteCount"`
		HDOP              *float64           `json:"hdop"`
		PDOP              *float64           `json:"pdop"`
		GeoidalSeparation *float64           `json:"geoidalSeparation"`
		ReferenceStations []ReferenceStation `json:"referenceStations"`
	}{
		SID:               p.SID,
		Time:              at,
		Latitude:          optionalFloat(p.Latitude),
		Longitude:         optionalFloat(p.Longitude),
		Altitude:          optionalFloat(p.Altitude),
		System:            p.System,
		Method:            p.Method,
		Integrity:         p.Integrity,
		SatelliteCount:    p.SatelliteCount,
		HDOP:              optionalFloat(p.HDOP),
		PDOP:              optionalFloat(p.PDOP),
		GeoidalSeparation: optionalFloat(p.GeoidalSeparation),
		ReferenceStations: p.ReferenceStations,
	})
}

func (r ReferenceStation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type            uint8    `json:"type"`
		ID              uint16   `json:"id"`
		AgeOfCorrection *float64 `json:"ageOfCorrection"`
	}{
		Type:            r.Type,
		ID:              r.ID,
		AgeOfCorrection: optionalFloat(r.AgeOfCorrection),
	})
}

func (p VehiclePosition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{
		Latitude:  optionalFloat(p.Latitude),
		Longitude: optionalFloat(p.Longitude),
	})
}

func (p VehicleDirectionSpeed) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CompassBearing *float64 `json:"compassBearing"`
		Speed          *float64 `json:"speed"`
		Pitch          *float64 `json:"pitch"`
		Altitude       *float64 `json:"altitude"`
	}{
		CompassBearing: optionalFloat(p.CompassBearing),
		Speed:          optionalFloat(p.Speed),
		Pitch:          optionalFloat(p.Pitch),
		Altitude:       optionalFloat(p.Altitude),
	})
}
