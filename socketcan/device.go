package socketcan

import (
	"context"
	"fmt"
	"time"

	"github.com/openmarine/navbus"
	"github.com/openmarine/navbus/pgn"
)

type DeviceConfig struct {
	// InterfaceName is SocketCAN interface name. For example: can0
	InterfaceName string

	// ReceiveDataTimeout limits the amount of time reads can result in no data, to
	// time out when there is no interaction on the bus at all. This is different from
	// a serial device readTimeout which limits how long a single Read call blocks. We
	// want Reads to block a short time so context cancellation is noticed, while
	// still detecting a silent bus.
	ReceiveDataTimeout time.Duration

	// FastPacketPGNs lists the PGNs that arrive fast-packet framed and need
	// reassembly. Defaults to pgn.FastPacketPGNs.
	FastPacketPGNs []uint32
}

// Device is a SocketCAN backed RawMessageReaderWriter. Reads assemble fast-packet
// frames into complete messages, writes split messages wider than a single frame.
type Device struct {
	conn *Connection

	ifName             string
	receiveDataTimeout time.Duration

	assembler *navbus.FastPacketAssembler
	fastPGNs  map[uint32]struct{}
	sequence  uint8

	timeNow func() time.Time
}

func NewDevice(config DeviceConfig) *Device {
	if config.ReceiveDataTimeout == 0 {
		config.ReceiveDataTimeout = 5 * time.Second
	}
	if config.FastPacketPGNs == nil {
		config.FastPacketPGNs = pgn.FastPacketPGNs
	}
	fastPGNs := make(map[uint32]struct{}, len(config.FastPacketPGNs))
	for _, p := range config.FastPacketPGNs {
		fastPGNs[p] = struct{}{}
	}
	return &Device{
		conn: nil,

		ifName:             config.InterfaceName,
		receiveDataTimeout: config.ReceiveDataTimeout,

		assembler: navbus.NewFastPacketAssembler(config.FastPacketPGNs),
		fastPGNs:  fastPGNs,

		timeNow: time.Now,
	}
}

func (d *Device) Initialize() error {
	conn, err := NewConnection(d.ifName)
	if err != nil {
		return err
	}
	d.conn = conn

	return nil
}

func (d *Device) Close() error {
	return d.conn.Close()
}

// Write sends a complete message to the bus. Fast-packet PGNs are split into
// multiple frames with a rolling sequence, everything else must fit a single frame.
func (d *Device) Write(msg navbus.RawMessage) error {
	if _, ok := d.fastPGNs[msg.Header.PGN]; !ok {
		if len(msg.Data) > 8 {
			return fmt.Errorf("message for PGN %v does not fit a single frame", msg.Header.PGN)
		}
		frame := navbus.RawFrame{
			Time:   msg.Time,
			Header: msg.Header,
			Length: uint8(len(msg.Data)),
		}
		copy(frame.Data[:], msg.Data)
		return d.conn.SendFrame(frame)
	}

	frames, err := navbus.SplitFastPacket(msg.Header, d.sequence, msg.Data)
	if err != nil {
		return err
	}
	d.sequence++
	for _, frame := range frames {
		if err := d.conn.SendFrame(frame); err != nil {
			return err
		}
	}
	return nil
}

// ReadRawMessage reads frames until a complete message is assembled or the context
// is cancelled.
func (d *Device) ReadRawMessage(ctx context.Context) (navbus.RawMessage, error) {
	start := d.timeNow()
	var msg navbus.RawMessage
	for {
		select {
		case <-ctx.Done():
			return navbus.RawMessage{}, ctx.Err()
		default:
		}

		if err := d.conn.SetReadTimeout(50 * time.Millisecond); err != nil { // max 50ms block time for read per iteration
			return navbus.RawMessage{}, err
		}
		frame, err := d.conn.ReadRawFrame()

		now := d.timeNow()
		if err != nil {
			if err == errReadTimeout {
				if now.Sub(start) > d.receiveDataTimeout {
					return navbus.RawMessage{}, err
				}
				continue
			}
			return navbus.RawMessage{}, err
		}

		if d.assembler.Assemble(frame, &msg) {
			return msg, nil
		}
	}
}

// DroppedFrames reports how many fast-packet frames the read side has discarded.
func (d *Device) DroppedFrames() uint64 {
	return d.assembler.Dropped()
}
