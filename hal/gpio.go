package hal

import (
	"fmt"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// virtualPin is a software pin. The host HAL uses one for the pause
// switch; the simulator window toggles its level.
type virtualPin struct {
	mu    sync.Mutex
	name  string
	mode  GPIOMode
	pull  GPIOPull
	level bool
}

func newVirtualPin(name string, level bool) *virtualPin {
	return &virtualPin{
		name:  name,
		mode:  GPIOModeInput,
		pull:  GPIOPullNone,
		level: level,
	}
}

func (p *virtualPin) Name() string { return p.name }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	p.pull = pull
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	return nil
}

// toggle flips the pin level and returns the new one.
func (p *virtualPin) toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = !p.level
	return p.level
}

// signalPin is a read-only pin that follows a periodic waveform. The
// headless runner can substitute one for the pause switch to soak-test
// the relay's pause gate without an operator.
type signalPin struct {
	mu     sync.Mutex
	name   string
	mode   GPIOMode
	pull   GPIOPull
	now    func() time.Time
	t0     time.Time
	period time.Duration
	high   time.Duration
}

func newSignalPin(name string, period, high time.Duration) *signalPin {
	return newSignalPinWithClock(name, period, high, time.Now)
}

func newSignalPinWithClock(name string, period, high time.Duration, now func() time.Time) *signalPin {
	if now == nil {
		return nil
	}
	return &signalPin{
		name:   name,
		mode:   GPIOModeInput,
		now:    now,
		t0:     now(),
		period: period,
		high:   high,
	}
}

func (p *signalPin) Name() string { return p.name }

func (p *signalPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	p.mode = mode
	p.pull = pull
	return nil
}

func (p *signalPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.period <= 0 {
		return false, fmt.Errorf("gpio: pin %s: invalid period", p.name)
	}

	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	phase := elapsed % p.period
	return phase < p.high, nil
}

func (p *signalPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}
