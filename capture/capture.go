// Package capture records assembled bus messages as a CBOR stream for offline
// analysis and replay.
package capture

import (
	"errors"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/openmarine/navbus"
)

// Record is one captured message. CBOR-encoded back to back into the stream, no
// container or framing around individual records.
type Record struct {
	Time  int64  `cbor:"1,keyasint"` // unix nanoseconds
	CanID uint32 `cbor:"2,keyasint"`
	Data  []byte `cbor:"3,keyasint"`
}

// Message converts the record back to a RawMessage.
func (r Record) Message() navbus.RawMessage {
	return navbus.RawMessage{
		Time:   time.Unix(0, r.Time),
		Header: navbus.ParseCANID(r.CanID),
		Data:   r.Data,
	}
}

// Recorder appends messages to a CBOR stream, typically a file.
type Recorder struct {
	enc *cbor.Encoder
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: cbor.NewEncoder(w)}
}

func (r *Recorder) Record(msg navbus.RawMessage) error {
	return r.enc.Encode(Record{
		Time:  msg.Time.UnixNano(),
		CanID: msg.Header.Uint32(),
		Data:  msg.Data,
	})
}

// Reader replays a recorded stream.
type Reader struct {
	dec *cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next captured message. Returns io.EOF at the end of the stream.
func (r *Reader) Next() (navbus.RawMessage, error) {
	var record Record
	if err := r.dec.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) {
			return navbus.RawMessage{}, io.EOF
		}
		return navbus.RawMessage{}, err
	}
	return record.Message(), nil
}
