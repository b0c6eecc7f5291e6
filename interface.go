package navbus

import (
	"context"
)

// RawFrameWriter is transport capability to send single CAN frames to the bus.
type RawFrameWriter interface {
	SendFrame(frame RawFrame) error
}

// RawMessageReader reads complete (assembled) messages from the bus.
type RawMessageReader interface {
	ReadRawMessage(ctx context.Context) (RawMessage, error)
	Initialize() error
	Close() error
}

// RawMessageWriter writes complete messages to the bus, splitting them to multiple
// frames when needed.
type RawMessageWriter interface {
	Write(RawMessage) error
	Close() error
}

type RawMessageReaderWriter interface {
	RawMessageReader
	RawMessageWriter
}
