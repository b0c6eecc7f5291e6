package pgn

import (
	"github.com/openmarine/navbus"
)

// Decode decodes assembled raw message into the typed value for PGNs known to this
// package. Returns ErrUnknownPGN for everything else.
func Decode(raw navbus.RawMessage) (interface{}, error) {
	switch raw.Header.PGN {
	case PGNPositionRapid:
		var v PositionRapid
		if err := v.UnmarshalPayload(raw.Data); err != nil {
			return nil, err
		}
		return v, nil
	case PGNCourseSpeedRapid:
		var v CourseSpeedRapid
		if err := v.UnmarshalPayload(raw.Data); err != nil {
			return nil, err
		}
		return v, nil
	case PGNGNSSPosition:
		var v GNSSPosition
		if err := v.UnmarshalPayload(raw.Data); err != nil {
			return nil, err
		}
		return v, nil
	case PGNVehiclePosition:
		var v VehiclePosition
		if err := v.UnmarshalPayload(raw.Data); err != nil {
			return nil, err
		}
		return v, nil
	case PGNVehicleDirectionSpeed:
		var v VehicleDirectionSpeed
		if err := v.UnmarshalPayload(raw.Data); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, ErrUnknownPGN
}
