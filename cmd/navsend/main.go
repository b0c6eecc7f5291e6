// navsend bridges a serial NMEA0183 GNSS receiver to a CAN bus. RMC sentences are
// parsed to fixes and sent out as NMEA2000 PGNs (129025, 129026, 129029) or as
// J1939 PGNs (65267, 65256). Rapid update PGNs are repeated to reach chartplotter
// refresh rates even when the receiver itself updates at 1Hz.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/openmarine/navbus"
	"github.com/openmarine/navbus/nmea0183"
	"github.com/openmarine/navbus/pgn"
	"github.com/openmarine/navbus/socketcan"
	"github.com/tarm/serial"
)

const (
	modeNMEA2000 = "nmea2000"
	modeJ1939    = "j1939"
)

type config struct {
	SerialPort    string `env:"NAVSEND_SERIAL_PORT" envDefault:"/dev/ttyUSB0"`
	SerialBaud    int    `env:"NAVSEND_SERIAL_BAUD" envDefault:"115200"`
	CANInterface  string `env:"NAVSEND_CAN_INTERFACE" envDefault:"can0"`
	SourceAddress uint8  `env:"NAVSEND_SOURCE_ADDRESS" envDefault:"128"`
	Mode          string `env:"NAVSEND_MODE" envDefault:"nmea2000"`
	RepeatCount   int    `env:"NAVSEND_REPEAT_COUNT" envDefault:"10"`
}

func main() {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}
	flag.StringVar(&cfg.SerialPort, "serial", cfg.SerialPort, "path to serial GNSS device")
	flag.IntVar(&cfg.SerialBaud, "baud", cfg.SerialBaud, "serial device baud rate")
	flag.StringVar(&cfg.CANInterface, "interface", cfg.CANInterface, "SocketCAN interface name")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "output mode (nmea2000, j1939)")
	flag.IntVar(&cfg.RepeatCount, "repeat", cfg.RepeatCount, "times each rapid update PGN is sent per fix")
	source := flag.Uint("source", uint(cfg.SourceAddress), "source address to send from")
	flag.Parse()
	cfg.SourceAddress = uint8(*source)

	switch cfg.Mode {
	case modeNMEA2000, modeJ1939:
	default:
		log.Fatalf("unknown mode %q\n", cfg.Mode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	port, err := serial.OpenPort(&serial.Config{
		Name: cfg.SerialPort,
		Baud: cfg.SerialBaud,
	})
	if err != nil {
		log.Fatal(err)
	}
	// reads block until the receiver sends a line, closing the port is what unblocks
	// the reader loop on shutdown
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	device := socketcan.NewDevice(socketcan.DeviceConfig{InterfaceName: cfg.CANInterface})
	if err := device.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer device.Close()

	fmt.Printf("# bridging %v -> %v as %v (source 0x%02X)\n", cfg.SerialPort, cfg.CANInterface, cfg.Mode, cfg.SourceAddress)

	if err := run(ctx, cfg, nmea0183.NewSentenceReader(port), device); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config, sentences *nmea0183.SentenceReader, device navbus.RawMessageWriter) error {
	var sid uint8
	var prev pgn.NavigationFix
	hasPrev := false

	for {
		line, err := sentences.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		rmc, err := nmea0183.ParseRMC(line)
		if err != nil {
			// the receiver interleaves RMC with other sentence types, only complain
			// about sentences that should have parsed
			if !errors.Is(err, nmea0183.ErrNotRMC) && !errors.Is(err, nmea0183.ErrNoFix) {
				log.Printf("skipping sentence: %v\n", err)
			}
			continue
		}

		fix := rmc.Fix(sid)
		sid = (sid + 1) % 253

		// receivers without motion output leave COG/SOG empty, derive them from the
		// previous fix instead
		if hasPrev && (math.IsNaN(fix.CourseOverGround) || math.IsNaN(fix.SpeedOverGround)) {
			course, speed := nmea0183.DeriveCourseSpeed(prev, fix)
			if math.IsNaN(fix.CourseOverGround) {
				fix.CourseOverGround = course
			}
			if math.IsNaN(fix.SpeedOverGround) {
				fix.SpeedOverGround = speed
			}
		}
		prev = fix
		hasPrev = true

		if err := sendFix(ctx, cfg, device, fix); err != nil {
			return err
		}
	}
}

func sendFix(ctx context.Context, cfg config, device navbus.RawMessageWriter, fix pgn.NavigationFix) error {
	type payload struct {
		pgn  uint32
		data []byte
	}

	var rapid []payload
	var slow []payload

	switch cfg.Mode {
	case modeNMEA2000:
		position, err := fix.PositionRapid().MarshalPayload()
		if err != nil {
			return err
		}
		courseSpeed, err := fix.CourseSpeedRapid().MarshalPayload()
		if err != nil {
			return err
		}
		gnss, err := fix.GNSSPosition().MarshalPayload()
		if err != nil {
			return err
		}
		rapid = []payload{{pgn.PGNPositionRapid, position}, {pgn.PGNCourseSpeedRapid, courseSpeed}}
		slow = []payload{{pgn.PGNGNSSPosition, gnss}}
	case modeJ1939:
		position, err := fix.VehiclePosition().MarshalPayload()
		if err != nil {
			return err
		}
		directionSpeed, err := fix.VehicleDirectionSpeed().MarshalPayload()
		if err != nil {
			return err
		}
		rapid = []payload{{pgn.PGNVehiclePosition, position}, {pgn.PGNVehicleDirectionSpeed, directionSpeed}}
	}

	send := func(p payload) error {
		header, err := pgn.Header(p.pgn, cfg.SourceAddress)
		if err != nil {
			return err
		}
		return device.Write(navbus.RawMessage{Time: fix.Time, Header: header, Data: p.data})
	}

	for i := 0; i < cfg.RepeatCount; i++ {
		for _, p := range rapid {
			if err := send(p); err != nil {
				return fmt.Errorf("send PGN %v: %w", p.pgn, err)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	for _, p := range slow {
		if err := send(p); err != nil {
			return fmt.Errorf("send PGN %v: %w", p.pgn, err)
		}
	}
	return nil
}
