//go:build tinygo

package main

import (
	"periscope/app"
	"periscope/bootcfg"
	"periscope/hal"
	"periscope/mirror"
)

func main() {
	h := hal.New()
	log := h.Logger()

	boot, err := bootcfg.ReadFlash(h.Flash(), bootcfg.DefaultFlashOffset)
	if err != nil {
		// Unprovisioned or corrupt config: report on the diagnostic UART
		// and halt rather than boot half-configured.
		log.WriteLineString("boot: config: " + err.Error())
		for {
		}
	}

	app.Run(h, app.Config{
		Boot: boot,
		Sink: mirror.NewLoggerSink(log),
	})
}
