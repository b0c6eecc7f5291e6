package navbus

import (
	"errors"
)

// ErrInvalidAddressing is returned when a specific destination address is requested
// for a broadcast-only (PDU2) PGN.
var ErrInvalidAddressing = errors.New("non-broadcast destination for broadcast-only PGN")

// PDU format values of 240 and above mean PDU2 (broadcast) addressing. Below that the
// PS byte of the identifier carries the destination address (PDU1).
const pdu2FormatStart = 240

// CanBusHeader is unpacked form of the 29-bit extended CAN identifier.
type CanBusHeader struct {
	PGN         uint32 `json:"pgn"`
	Priority    uint8  `json:"priority"`
	Source      uint8  `json:"source"`
	Destination uint8  `json:"destination"`
}

// NewCanBusHeader assembles header for given PGN enforcing PDU1/PDU2 addressing rules.
// For PDU1 PGNs the low byte of the PGN is zeroed as that byte of the identifier
// carries the destination address. PDU2 PGNs accept only AddressGlobal as destination.
func NewCanBusHeader(pgn uint32, priority uint8, source uint8, destination uint8) (CanBusHeader, error) {
	h := CanBusHeader{
		PGN:         pgn & 0x3FFFF,
		Priority:    priority & 0x7,
		Source:      source,
		Destination: destination,
	}
	if uint8(pgn>>8) < pdu2FormatStart { // PDU1
		h.PGN &= 0x3FF00
		return h, nil
	}
	if destination != AddressGlobal {
		return CanBusHeader{}, ErrInvalidAddressing
	}
	return h, nil
}

// Uint32 packs header to 29 bits of 32 bit CAN identifier as
// priority<<26 | dataPage<<24 | pduFormat<<16 | pduSpecific<<8 | source.
func (h CanBusHeader) Uint32() uint32 {
	canID := uint32(h.Source) // bits 0-7

	pf := uint8(h.PGN >> 8)
	if pf < pdu2FormatStart {
		canID |= uint32(h.Destination) << 8 // bits 8-15
	}
	canID |= (h.PGN & 0x3FFFF) << 8         // bits 8-24
	canID |= uint32(h.Priority&0x7) << 26   // bits 26,27,28
	return canID
}

// ParseCANID parses CAN bus header fields from CAN identifier (29 bits of 32 bit).
func ParseCANID(canID uint32) CanBusHeader {
	result := CanBusHeader{
		Priority: uint8((canID >> 26) & 0x7), // bits 26,27,28
		Source:   uint8(canID),               // bits 0-7
	}
	ps := uint8(canID >> 8)         // bits 8-15
	pduFormat := uint8(canID >> 16) // bits 16-23
	rAndDP := uint8(canID>>24) & 3  // bits 24,25
	pgn := uint32(rAndDP)<<16 + uint32(pduFormat)<<8
	if pduFormat < pdu2FormatStart {
		result.Destination = ps
		result.PGN = pgn
	} else {
		result.Destination = AddressGlobal
		result.PGN = pgn + uint32(ps)
	}
	return result
}
