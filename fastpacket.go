package navbus

import (
	"errors"
	"sync"
	"time"
)

// Fast-packet protocol splits payloads wider than a single CAN frame into an ordered
// sequence of frames:
//   - first byte of every frame carries frame counter (high 3 bits) and message
//     sequence counter (low 5 bits). Sequence counter is fixed for the whole message
//     and distinguishes simultaneously sent messages.
//   - frame 0 has message total length as its second byte and up to 6 bytes of payload
//   - frames 1-7 carry up to 7 bytes of payload each
//   - unused trailing bytes of the last frame are padded with 0xFF
//
// Maximum payload of 55 bytes comes from the fact that the first frame can carry only
// 6 bytes of data and the 3 bit frame counter allows 7 following frames of 7 bytes.
const (
	// FastPacketMaxPayload is maximum total payload length a fast-packet message can carry.
	FastPacketMaxPayload = 6 + 7*7

	sequenceMask = 0b0001_1111
)

// ErrPayloadTooLarge is returned when payload does not fit into a fast-packet frame
// sequence. Emitting more frames would silently reuse frame counter values and corrupt
// the message on receiving side.
var ErrPayloadTooLarge = errors.New("payload exceeds fast packet capacity")

// SplitFastPacket splits payload into ordered frames ready for transmission. Sequence
// is 5 bit counter fixed for the whole message, caller increments it between messages.
func SplitFastPacket(header CanBusHeader, sequence uint8, payload []byte) ([]RawFrame, error) {
	if len(payload) == 0 {
		return nil, errors.New("fast packet payload is empty")
	}
	if len(payload) > FastPacketMaxPayload {
		return nil, ErrPayloadTooLarge
	}
	seq := sequence & sequenceMask

	frameCount := 1
	if len(payload) > 6 {
		frameCount += (len(payload) - 6 + 6) / 7
	}
	frames := make([]RawFrame, 0, frameCount)

	first := RawFrame{
		Header: header,
		Length: 8,
		Data:   [8]byte{seq, uint8(len(payload)), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	copy(first.Data[2:], payload)
	frames = append(frames, first)

	for nr, offset := uint8(1), 6; offset < len(payload); nr, offset = nr+1, offset+7 {
		f := RawFrame{
			Header: header,
			Length: 8,
			Data:   [8]byte{seq | nr<<5, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		}
		copy(f.Data[1:], payload[offset:])
		frames = append(frames, f)
	}
	return frames, nil
}

type fastPacketSession struct {
	lastFrameTime time.Time

	// sequence is message counter to distinguish to which message a frame belongs.
	// Found as low 5 bits of the first byte of every frame.
	sequence uint8
	// length of data over all frames. Found as second byte of frame 0.
	length uint8

	requiredMask uint8 // each frame of the message is a single bit
	receivedMask uint8
	data         [FastPacketMaxPayload]byte
}

// FastPacketAssembler assembles fast-packet frames back into complete raw messages.
// Sessions are keyed by the full 29-bit CAN identifier so concurrent transfers from
// multiple senders do not interfere. Assembly is best effort: continuation frames
// that match no active session are dropped and sessions that see no frame within the
// inactivity timeout are reclaimed. Only complete messages are ever delivered.
type FastPacketAssembler struct {
	// pgns are PGNs that are transferred as fast-packet and should be assembled.
	// Frames of other PGNs pass through as single frame messages.
	pgns     map[uint32]struct{}
	sessions map[uint32]*fastPacketSession

	timeout time.Duration
	dropped uint64

	now  func() time.Time
	lock sync.Mutex
}

// NewFastPacketAssembler creates assembler that assembles frames of given PGNs.
func NewFastPacketAssembler(fastPGNs []uint32) *FastPacketAssembler {
	pgns := make(map[uint32]struct{}, len(fastPGNs))
	for _, p := range fastPGNs {
		pgns[p] = struct{}{}
	}
	return &FastPacketAssembler{
		pgns:     pgns,
		sessions: make(map[uint32]*fastPacketSession),

		timeout: 1 * time.Second,
		now:     time.Now,
	}
}

// Assemble processes a single frame and returns true when `to` now holds a complete
// message. Frames must be given in the order the transport delivered them, reordering
// is not attempted.
func (a *FastPacketAssembler) Assemble(frame RawFrame, to *RawMessage) bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	if _, ok := a.pgns[frame.Header.PGN]; !ok { // single frame PGN passes through as is
		a.copyTo(to, frame, frame.Data[:frame.Length])
		return true
	}

	a.discardStale()

	if frame.Length < 2 {
		a.dropped++
		return false
	}
	key := frame.Header.Uint32()
	frameNr := frame.Data[0] >> 5
	sequence := frame.Data[0] & sequenceMask

	s, active := a.sessions[key]
	if frameNr == 0 { // frame 0 starts or restarts the session for this identifier
		length := frame.Data[1]
		if length == 0 || length > FastPacketMaxPayload {
			a.dropped++
			delete(a.sessions, key)
			return false
		}
		if !active {
			s = &fastPacketSession{}
			a.sessions[key] = s
		}
		frameCount := uint8(1)
		if length > 6 {
			frameCount += (length - 6 + 6) / 7
		}
		*s = fastPacketSession{
			sequence:     sequence,
			length:       length,
			requiredMask: ^uint8(0) >> (8 - frameCount),
			receivedMask: 0b1,
		}
		copy(s.data[:6], frame.Data[2:])
	} else {
		if !active || s.sequence != sequence {
			// out of sequence continuation. Existing session is left untouched.
			a.dropped++
			return false
		}
		bit := uint8(1) << frameNr
		if s.requiredMask&bit == 0 { // frame counter beyond declared length
			a.dropped++
			return false
		}
		if s.receivedMask&bit == 0 { // duplicates are ignored
			start := 6 + (int(frameNr)-1)*7
			end := start + 7
			if end > int(s.length) {
				end = int(s.length)
			}
			copy(s.data[start:end], frame.Data[1:])
			s.receivedMask |= bit
		}
	}
	s.lastFrameTime = frame.Time

	if s.receivedMask != s.requiredMask {
		return false
	}
	a.copyTo(to, frame, s.data[:s.length])
	delete(a.sessions, key)
	return true
}

// Dropped returns count of frames and timed out sessions discarded by the assembler.
func (a *FastPacketAssembler) Dropped() uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.dropped
}

func (a *FastPacketAssembler) copyTo(to *RawMessage, frame RawFrame, data []byte) {
	if cap(to.Data) < len(data) {
		to.Data = make([]byte, len(data))
	}
	to.Data = to.Data[:len(data)]
	copy(to.Data, data)
	to.Time = frame.Time
	to.Header = frame.Header
}

func (a *FastPacketAssembler) discardStale() {
	threshold := a.now().Add(-a.timeout)
	for key, s := range a.sessions {
		if s.lastFrameTime.Before(threshold) {
			delete(a.sessions, key)
			a.dropped++
		}
	}
}
