//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"periscope/app"
	"periscope/bootcfg"
	"periscope/hal"
	"periscope/mirror"
)

func main() {
	var (
		opts    hal.Options
		hcfg    hal.HeadlessConfig
		cfgPath string
	)
	flag.StringVar(&cfgPath, "config", "periscope.toml", "Boot configuration document.")
	flag.StringVar(&opts.SerialPort, "serial", "", "Observe a real serial device (empty = keyboard loopback).")
	flag.StringVar(&opts.FlashPath, "flash", "", "File backing the emulated flash.")
	flag.BoolVar(&opts.FlapPause, "flappause", false, "Drive the pause switch from a periodic waveform.")
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.Parse()

	raw, err := os.ReadFile(cfgPath)
	if err != nil {
		fatal(err)
	}
	boot, err := bootcfg.Parse(raw)
	if err != nil {
		fatal(err)
	}

	h, err := hal.New(opts)
	if err != nil {
		fatal(err)
	}

	mq := mirror.NewMQTTSink(boot.MQTT.Broker, boot.MQTT.ClientID, boot.MQTT.Topic)
	tel, err := mirror.NewTelnetSink(boot.Telnet.Listen, h.Logger())
	if err != nil {
		fatal(err)
	}
	defer tel.Close()

	cfg := app.Config{
		Boot: boot,
		Sink: mirror.Multi{mirror.NewLoggerSink(h.Logger()), mq, tel},
		Sessions: []app.SupervisedSession{
			{Name: "mqtt", Session: mq},
		},
	}

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		app.New(h, cfg)
		if err := hal.RunHeadless(ctx, h, hcfg); err != nil && err != context.Canceled {
			fatal(err)
		}
		return
	}

	app.New(h, cfg)
	if err := hal.RunWindow(h); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
