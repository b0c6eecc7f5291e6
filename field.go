package navbus

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

// NMEA2000 number fields reserve the most positive raw values for special meanings:
// the most positive value is "data not available", the one below it "out of range"
// and the one below that "reserved". For example 8 bit unsigned fields reserve
// 0xFF, 0xFE, 0xFD and 8 bit signed fields 0x7F, 0x7E, 0x7D. J1939 fields typically
// reserve only the "not available" value.
var (
	// ErrValueNoData indicates that field has no data (for example uint8=>0xFF, int8=>0x7F)
	ErrValueNoData = errors.New("field value has no data")
	// ErrValueOutOfRange indicates that field value is out of valid range (for example uint8=>0xFE, int8=>0x7E)
	ErrValueOutOfRange = errors.New("field value out of range")
	// ErrValueReserved indicates that field is reserved (for example uint8=>0xFD, int8=>0x7D)
	ErrValueReserved = errors.New("field value is reserved")
)

// RawData is PGN payload bytes. Multibyte fields are little-endian and fields can
// start and end at arbitrary bit offsets.
type RawData []byte

// Field describes a single scaled number bit-packed into PGN payload. Physical value
// relates to the wire value as: physical = Offset + raw * Resolution.
type Field struct {
	ID string

	BitOffset  uint16
	BitLength  uint16
	Signed     bool
	Resolution float64
	Offset     float64

	// Special is count of the most positive raw values the protocol reserves for this
	// field (3 for NMEA2000 numbers, 1 for J1939 "not available" only fields, 0 for
	// none). Encoding clamps below the reserved band so a saturated value can never
	// masquerade as a sentinel.
	Special uint8
}

// Encode writes value into data. Values outside the representable range are clamped,
// NaN is written as the "no data" sentinel.
func (f Field) Encode(data RawData, value float64) error {
	if f.BitLength == 0 || f.BitLength > 64 {
		return fmt.Errorf("field %v has invalid bit length", f.ID)
	}
	mask := ^uint64(0) >> (64 - f.BitLength)

	var raw uint64
	if f.Signed {
		maxRaw := int64(mask >> 1)
		minRaw := -maxRaw - 1
		if math.IsNaN(value) {
			raw = uint64(maxRaw)
		} else {
			scaled := math.Round((value - f.Offset) / f.Resolution)
			limit := maxRaw - int64(f.Special)
			switch {
			case scaled > float64(limit):
				raw = uint64(limit)
			case scaled < float64(minRaw):
				raw = uint64(minRaw)
			default:
				raw = uint64(int64(scaled))
			}
		}
	} else {
		if math.IsNaN(value) {
			raw = mask
		} else {
			scaled := math.Round((value - f.Offset) / f.Resolution)
			limit := mask - uint64(f.Special)
			switch {
			case scaled < 0:
				raw = 0
			case scaled > float64(limit):
				raw = limit
			default:
				raw = uint64(scaled)
			}
		}
	}
	return data.PutVariableUint(f.BitOffset, f.BitLength, raw)
}

// Decode reads physical value from data. Reserved raw values are reported as
// ErrValueNoData, ErrValueOutOfRange and ErrValueReserved instead of being scaled.
func (f Field) Decode(data RawData) (float64, error) {
	if f.BitLength == 0 || f.BitLength > 64 {
		return 0, fmt.Errorf("field %v has invalid bit length", f.ID)
	}
	raw, err := data.DecodeVariableUint(f.BitOffset, f.BitLength)
	if err != nil {
		return 0, err
	}
	mask := ^uint64(0) >> (64 - f.BitLength)
	top := mask
	if f.Signed {
		top = mask >> 1
	}
	if f.Special > 0 {
		switch {
		case raw == top:
			return 0, ErrValueNoData
		case f.Special > 1 && raw == top-1:
			return 0, ErrValueOutOfRange
		case f.Special > 2 && raw == top-2:
			return 0, ErrValueReserved
		}
	}

	var scaled float64
	if f.Signed {
		if raw&(1<<(f.BitLength-1)) != 0 { // negative numbers have all higher bits toggled
			raw |= ^mask
		}
		scaled = float64(int64(raw))
	} else {
		scaled = float64(raw)
	}
	return f.Offset + scaled*f.Resolution, nil
}

// DecodeVariableUint extracts raw unsigned integer of bitLength bits at bitOffset.
func (d RawData) DecodeVariableUint(bitOffset uint16, bitLength uint16) (uint64, error) {
	if bitLength == 0 || bitLength > 64 {
		return 0, fmt.Errorf("bit length larger than can be decoded")
	}
	if uint(bitOffset%8)+uint(bitLength) > 64 {
		return 0, fmt.Errorf("field spans more than eight bytes")
	}
	startByteIndex := bitOffset / 8
	endByteIndex := (bitOffset+bitLength+7)/8 - 1
	if int(endByteIndex) >= len(d) {
		return 0, fmt.Errorf("bitoffset is out of bounds of data")
	}

	rawBytes := make([]byte, 8)
	copy(rawBytes, d[startByteIndex:endByteIndex+1])
	result := binary.LittleEndian.Uint64(rawBytes)

	// in case we do not start at the byte border the rightmost bits are what interest
	// us, and in case we do not end exactly at a byte border clear the bits at the end
	result >>= bitOffset % 8
	result &= ^uint64(0) >> (64 - bitLength)
	return result, nil
}

// PutVariableUint writes raw unsigned integer of bitLength bits at bitOffset. Bits
// outside the field are left untouched.
func (d RawData) PutVariableUint(bitOffset uint16, bitLength uint16, value uint64) error {
	if bitLength == 0 || bitLength > 64 {
		return fmt.Errorf("bit length larger than can be encoded")
	}
	shift := uint(bitOffset % 8)
	if shift+uint(bitLength) > 64 {
		return fmt.Errorf("field spans more than eight bytes")
	}
	startByteIndex := bitOffset / 8
	endByteIndex := (bitOffset+bitLength+7)/8 - 1
	if int(endByteIndex) >= len(d) {
		return fmt.Errorf("bitoffset is out of bounds of data")
	}

	mask := ^uint64(0) >> (64 - bitLength)
	value &= mask
	for i := startByteIndex; i <= endByteIndex; i++ {
		n := 8 * uint(i-startByteIndex)
		d[i] = d[i]&^byte((mask<<shift)>>n) | byte((value<<shift)>>n)
	}
	return nil
}

func (d RawData) AsHex() string {
	return hex.EncodeToString(d)
}
