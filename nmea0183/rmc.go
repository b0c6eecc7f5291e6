// Package nmea0183 parses the small slice of NMEA0183 needed to feed the CAN side:
// RMC sentences from a serial GNSS receiver, with checksum validation and course and
// speed derivation for receivers that do not fill those fields.
package nmea0183

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/openmarine/navbus/pgn"
)

var (
	ErrNotSentence       = errors.New("nmea0183: line is not a sentence")
	ErrChecksumMismatch  = errors.New("nmea0183: checksum mismatch")
	ErrNotRMC            = errors.New("nmea0183: sentence is not RMC")
	ErrNoFix             = errors.New("nmea0183: receiver reports no valid fix")
	ErrMalformedSentence = errors.New("nmea0183: malformed sentence")
)

const knotsToMetersPerSecond = 0.514444

// Checksum is the NMEA0183 checksum of a sentence body, XOR of all characters
// between `$` and `*`.
func Checksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}

// StripSentence validates framing and checksum of a raw sentence line and returns
// the body between `$` and `*`. A sentence without a checksum suffix is accepted,
// a sentence with one must match.
func StripSentence(line string) (string, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return "", ErrNotSentence
	}
	body := line[1:]
	star := strings.LastIndexByte(body, '*')
	if star == -1 {
		return body, nil
	}
	sum, err := strconv.ParseUint(body[star+1:], 16, 8)
	if err != nil {
		return "", fmt.Errorf("%w: invalid checksum field %q", ErrMalformedSentence, body[star+1:])
	}
	body = body[:star]
	if Checksum(body) != byte(sum) {
		return "", ErrChecksumMismatch
	}
	return body, nil
}

// RMC is a parsed Recommended Minimum sentence. SpeedOverGround and CourseOverGround
// are NaN when the receiver left the field empty.
type RMC struct {
	Time             time.Time // UTC
	Latitude         float64   // degrees, north positive
	Longitude        float64   // degrees, east positive
	SpeedOverGround  float64   // m/s
	CourseOverGround float64   // degrees from true north
}

// ParseRMC parses an RMC sentence line.
//
//	$GPRMC,hhmmss.ss,A,ddmm.mmmm,N/S,dddmm.mmmm,E/W,sogKnots,cogDeg,ddmmyy,...
//
// Returns ErrNotRMC for other sentence types and ErrNoFix when the status field
// is not `A`.
func ParseRMC(line string) (RMC, error) {
	body, err := StripSentence(line)
	if err != nil {
		return RMC{}, err
	}
	parts := strings.Split(body, ",")
	if len(parts) < 10 {
		return RMC{}, ErrMalformedSentence
	}
	if !strings.HasSuffix(parts[0], "RMC") {
		return RMC{}, ErrNotRMC
	}
	if parts[2] != "A" {
		return RMC{}, ErrNoFix
	}

	lat, err := parseCoordinate(parts[3], parts[4], "S")
	if err != nil {
		return RMC{}, err
	}
	lon, err := parseCoordinate(parts[5], parts[6], "W")
	if err != nil {
		return RMC{}, err
	}
	at, err := parseDateTime(parts[9], parts[1])
	if err != nil {
		return RMC{}, err
	}

	sog := math.NaN()
	if parts[7] != "" {
		knots, err := strconv.ParseFloat(parts[7], 64)
		if err != nil {
			return RMC{}, fmt.Errorf("%w: speed field %q", ErrMalformedSentence, parts[7])
		}
		sog = knots * knotsToMetersPerSecond
	}
	cog := math.NaN()
	if parts[8] != "" {
		cog, err = strconv.ParseFloat(parts[8], 64)
		if err != nil {
			return RMC{}, fmt.Errorf("%w: course field %q", ErrMalformedSentence, parts[8])
		}
	}

	return RMC{
		Time:             at,
		Latitude:         lat,
		Longitude:        lon,
		SpeedOverGround:  sog,
		CourseOverGround: cog,
	}, nil
}

// Fix converts the sentence into a NavigationFix with the given sequence ID. RMC
// carries no altitude, it stays unavailable.
func (r RMC) Fix(sid uint8) pgn.NavigationFix {
	return pgn.NavigationFix{
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Altitude:         math.NaN(),
		SpeedOverGround:  r.SpeedOverGround,
		CourseOverGround: r.CourseOverGround,
		Time:             r.Time,
		SID:              sid,
	}
}

// parseCoordinate converts ddmm.mmmm (latitude) or dddmm.mmmm (longitude) plus a
// hemisphere letter to decimal degrees.
func parseCoordinate(raw string, hemisphere string, negative string) (float64, error) {
	if raw == "" || hemisphere == "" {
		return 0, fmt.Errorf("%w: empty coordinate", ErrMalformedSentence)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate field %q", ErrMalformedSentence, raw)
	}
	degrees := math.Floor(value / 100)
	minutes := value - degrees*100
	result := degrees + minutes/60
	if hemisphere == negative {
		result = -result
	}
	return result, nil
}

// parseDateTime converts ddmmyy and hhmmss.ss fields to a UTC instant.
func parseDateTime(date string, timeOfDay string) (time.Time, error) {
	if len(date) != 6 || len(timeOfDay) < 6 {
		return time.Time{}, fmt.Errorf("%w: date %q time %q", ErrMalformedSentence, date, timeOfDay)
	}
	day, err1 := strconv.Atoi(date[0:2])
	month, err2 := strconv.Atoi(date[2:4])
	year, err3 := strconv.Atoi(date[4:6])
	hour, err4 := strconv.Atoi(timeOfDay[0:2])
	minute, err5 := strconv.Atoi(timeOfDay[2:4])
	seconds, err6 := strconv.ParseFloat(timeOfDay[4:], 64)
	for _, err := range []error{err1, err2, err3, err4, err5, err6} {
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date %q time %q", ErrMalformedSentence, date, timeOfDay)
		}
	}
	sec, frac := math.Modf(seconds)
	return time.Date(2000+year, time.Month(month), day, hour, minute, int(sec),
		int(math.Round(frac*float64(time.Second))), time.UTC), nil
}
