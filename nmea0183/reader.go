package nmea0183

import (
	"bufio"
	"io"
	"strings"
)

// PHTG authentication status sentences are receiver chatter the CAN side has no use
// for, the reader drops them the same way the serial bridge does.
const dropToken = "PHTG"

// SentenceReader yields framed, checksum-valid sentences from a byte stream,
// typically a serial port. Lines that are not sentences, fail their checksum or
// carry PHTG are skipped silently.
type SentenceReader struct {
	scanner *bufio.Scanner
}

func NewSentenceReader(r io.Reader) *SentenceReader {
	return &SentenceReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next acceptable sentence including its leading `$`, without the
// line terminator. Returns io.EOF when the stream ends.
func (s *SentenceReader) Next() (string, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}
		if strings.Contains(line, dropToken) {
			continue
		}
		if _, err := StripSentence(line); err != nil {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
