// navmon prints navigation traffic seen on a CAN bus. Fast-packet PGNs are
// reassembled before decoding, decoded messages are printed as JSON lines and can
// optionally be captured to a CBOR file for later replay.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v6"
	"github.com/openmarine/navbus"
	"github.com/openmarine/navbus/capture"
	"github.com/openmarine/navbus/pgn"
	"github.com/openmarine/navbus/socketcan"
)

type config struct {
	CANInterface string `env:"NAVMON_CAN_INTERFACE" envDefault:"can0"`
	CaptureFile  string `env:"NAVMON_CAPTURE_FILE"`
}

func main() {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}
	flag.StringVar(&cfg.CANInterface, "interface", cfg.CANInterface, "SocketCAN interface name")
	flag.StringVar(&cfg.CaptureFile, "capture", cfg.CaptureFile, "path to write captured messages to (CBOR)")
	printRaw := flag.Bool("raw", false, "prints raw message in addition to decoded fields")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	device := socketcan.NewDevice(socketcan.DeviceConfig{InterfaceName: cfg.CANInterface})
	if err := device.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer device.Close()

	var recorder *capture.Recorder
	if cfg.CaptureFile != "" {
		out, err := os.Create(cfg.CaptureFile)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
		recorder = capture.NewRecorder(out)
	}

	fmt.Printf("# monitoring %v\n", cfg.CANInterface)

	for {
		msg, err := device.ReadRawMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Printf("read: %v\n", err)
			continue
		}

		if recorder != nil {
			if err := recorder.Record(msg); err != nil {
				log.Printf("capture: %v\n", err)
			}
		}
		if *printRaw {
			fmt.Printf("%v\n", formatRaw(msg))
		}

		decoded, err := pgn.Decode(msg)
		if err != nil {
			if !errors.Is(err, pgn.ErrUnknownPGN) {
				log.Printf("decode PGN %v: %v\n", msg.Header.PGN, err)
			}
			continue
		}
		line, err := json.Marshal(map[string]interface{}{
			"time":   msg.Time,
			"header": msg.Header,
			"fields": decoded,
		})
		if err != nil {
			log.Printf("marshal: %v\n", err)
			continue
		}
		fmt.Printf("%s\n", line)
	}

	fmt.Printf("# dropped fast-packet frames: %v\n", device.DroppedFrames())
}

func formatRaw(msg navbus.RawMessage) string {
	return fmt.Sprintf("# %v PGN %v src %v: %v", msg.Time.Format("15:04:05.000"), msg.Header.PGN, msg.Header.Source, msg.Data.AsHex())
}
