// Package pgn implements payload codecs for the navigation related NMEA2000 and
// SAE J1939 parameter groups. Each codec is driven by a declarative field table so
// the bit packing logic exists only once, in the navbus root package.
package pgn

import (
	"errors"
	"fmt"
	"math"

	"github.com/openmarine/navbus"
)

const (
	// PGNPositionRapid is NMEA2000 Position, Rapid Update (0x1F801)
	PGNPositionRapid uint32 = 129025
	// PGNCourseSpeedRapid is NMEA2000 COG & SOG, Rapid Update (0x1F802)
	PGNCourseSpeedRapid uint32 = 129026
	// PGNGNSSPosition is NMEA2000 GNSS Position Data (0x1F805)
	PGNGNSSPosition uint32 = 129029
	// PGNVehiclePosition is SAE J1939 Vehicle Position (0xFEF3)
	PGNVehiclePosition uint32 = 65267
	// PGNVehicleDirectionSpeed is SAE J1939 Vehicle Direction/Speed (0xFEE8)
	PGNVehicleDirectionSpeed uint32 = 65256
)

var (
	// ErrMalformedPayload is returned when payload size does not match the PGN layout.
	ErrMalformedPayload = errors.New("payload size does not match PGN layout")
	// ErrUnknownPGN is returned when decoding a PGN this package has no layout for.
	ErrUnknownPGN = errors.New("decode failed, unknown PGN seen")
)

// FastPacketPGNs lists PGNs of this package that are framed with the fast-packet
// protocol on the wire.
var FastPacketPGNs = []uint32{PGNGNSSPosition}

// DefaultPriority returns the transmit priority conventionally used for given PGN.
func DefaultPriority(pgn uint32) uint8 {
	switch pgn {
	case PGNPositionRapid, PGNCourseSpeedRapid:
		return 2
	case PGNGNSSPosition:
		return 3
	default:
		return 6
	}
}

// Header builds broadcast CAN bus header for given PGN with its default priority.
func Header(pgn uint32, source uint8) (navbus.CanBusHeader, error) {
	return navbus.NewCanBusHeader(pgn, DefaultPriority(pgn), source, navbus.AddressGlobal)
}

// marshalFields packs values into payload of given size. Values are given in
// field table order, unused bits stay all ones as the protocols expect.
func marshalFields(size int, fields []navbus.Field, values []float64) (navbus.RawData, error) {
	data := make(navbus.RawData, size)
	for i := range data {
		data[i] = 0xFF
	}
	for i, f := range fields {
		if err := f.Encode(data, values[i]); err != nil {
			return nil, fmt.Errorf("field %v: %w", f.ID, err)
		}
	}
	return data, nil
}

// unmarshalFields extracts values in field table order. Fields carrying one of
// the reserved raw values ("no data" and friends) decode as NaN.
func unmarshalFields(data navbus.RawData, fields []navbus.Field) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := f.Decode(data)
		switch {
		case err == nil:
			values[i] = v
		case errors.Is(err, navbus.ErrValueNoData),
			errors.Is(err, navbus.ErrValueOutOfRange),
			errors.Is(err, navbus.ErrValueReserved):
			values[i] = math.NaN()
		default:
			return nil, fmt.Errorf("field %v: %w", f.ID, err)
		}
	}
	return values, nil
}

// byteValue converts decoded field value to byte, mapping NaN to 0xFF.
func byteValue(v float64) uint8 {
	if math.IsNaN(v) {
		return 0xFF
	}
	return uint8(v)
}
