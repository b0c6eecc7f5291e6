// Package navbus implements the protocol core for exchanging navigation data over
// a CAN bus: 29-bit extended identifier construction/decomposition for NMEA2000 and
// SAE J1939 style addressing, scaled bit-packed payload fields and the fast-packet
// framing protocol used to carry payloads larger than a single 8 byte CAN frame.
//
// Transports (SocketCAN, serial devices) and PGN specific payload layouts live in
// sub-packages.
package navbus

import (
	"time"
)

const (
	// AddressGlobal is broadcast address. PDU2 (broadcast) PGNs are always sent to it.
	AddressGlobal uint8 = 255
	// AddressNull is source address used by nodes that have not claimed an address on the bus.
	AddressNull uint8 = 254
)

// RawFrame is single CAN frame as read from or written to the bus.
type RawFrame struct {
	// Time is when frame was read from the bus. Filled by the transport.
	Time time.Time

	Header CanBusHeader
	Length uint8 // 1-8
	Data   [8]byte
}

// RawMessage is complete message assembled from one or multiple raw frames.
// Fast-packet messages span up to 8 frames so data length can vary up to
// FastPacketMaxPayload bytes.
type RawMessage struct {
	// Time is when the last frame of the message was read from the bus.
	Time time.Time

	Header CanBusHeader
	Data   RawData
}
