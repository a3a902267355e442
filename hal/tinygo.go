//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"
)

// New returns the RP2040/RP2350 HAL implementation.
//
// Display: ST7796 on SPI0 (SCK GP18, SDO GP19, SDI GP16), CS GP17,
// DC GP20, RST GP21. Touch: XPT2046 sharing SPI0 with CS GP22 and
// PENIRQ GP26. Observed UART: UART1 on GP8 (TX) / GP9 (RX), 9600 8N1
// at boot. Diagnostics: UART0 on GP0/GP1, 115200. Pause switch: GP15,
// input pull-up, held low = paused.
func New() HAL {
	machine.SPI0.Configure(machine.SPIConfig{
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		SDI:       machine.GP16,
		Frequency: 40_000_000,
	})

	diag := machine.UART0
	diag.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	observed := machine.UART1
	observed.Configure(machine.UARTConfig{
		BaudRate: 9600,
		TX:       machine.GP8,
		RX:       machine.GP9,
	})

	pausePin := machine.GP15
	pausePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	panel := initST7796(machine.SPI0, machine.GP17, machine.GP20, machine.GP21)
	touch := initXPT2046(machine.SPI0, machine.GP22, machine.GP26, panel)

	return &tinyGoHAL{
		logger: &uartLogger{uart: diag},
		panel:  panel,
		touch:  touch,
		serial: &uartSerial{uart: observed},
		pause:  &machinePin{name: "PAUSE", pin: pausePin},
		t:      newTinyGoTime(),
		flash:  newRP2Flash(),
	}
}

type tinyGoHAL struct {
	logger *uartLogger
	panel  *st7796
	touch  *xpt2046
	serial *uartSerial
	pause  *machinePin
	t      *tinyGoTime
	flash  Flash
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) Panel() Panel   { return h.panel }
func (h *tinyGoHAL) Touch() Touch   { return h.touch }
func (h *tinyGoHAL) Serial() Serial { return h.serial }
func (h *tinyGoHAL) Pause() GPIOPin { return h.pause }
func (h *tinyGoHAL) Time() Time     { return h.t }
func (h *tinyGoHAL) Flash() Flash   { return h.flash }

// Reset arms the watchdog with the shortest timeout and spins until it
// fires.
func (h *tinyGoHAL) Reset() {
	h.logger.WriteLineString("hal: device restart requested")
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	machine.Watchdog.Start()
	for {
	}
}
