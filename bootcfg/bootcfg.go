// Package bootcfg loads the device's connectivity settings. The source
// of truth is a small TOML document, stored either as a plain file (host
// builds) or framed in a reserved flash region (on-device builds).
package bootcfg

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

var ErrMissing = errors.New("bootcfg: required field missing")

// Defaults applied by Parse when the document omits them.
const (
	DefaultClientID = "periscope"
	DefaultTopic    = "periscope/console"
	DefaultListen   = ":24"
)

type WiFi struct {
	SSID     string `toml:"ssid"`
	Password string `toml:"password"`
}

type MQTT struct {
	Broker   string `toml:"broker"`
	ClientID string `toml:"client_id"`
	Topic    string `toml:"topic"`
}

type Telnet struct {
	Listen string `toml:"listen"`
}

// Config is the full boot-time document. WiFi credentials only matter
// to on-device builds; the host build joins whatever network it is on.
type Config struct {
	WiFi   WiFi   `toml:"wifi"`
	MQTT   MQTT   `toml:"mqtt"`
	Telnet Telnet `toml:"telnet"`
}

// Parse decodes and validates a TOML document, filling defaults.
// The SSID and the broker address have no sensible default and must be
// present.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("bootcfg: decode: %w", err)
	}
	if cfg.WiFi.SSID == "" {
		return Config{}, fmt.Errorf("%w: wifi.ssid", ErrMissing)
	}
	if cfg.MQTT.Broker == "" {
		return Config{}, fmt.Errorf("%w: mqtt.broker", ErrMissing)
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultClientID
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = DefaultTopic
	}
	if cfg.Telnet.Listen == "" {
		cfg.Telnet.Listen = DefaultListen
	}
	return cfg, nil
}

// Marshal renders a Config back to TOML, for tooling that writes the
// flash image.
func Marshal(cfg Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootcfg: encode: %w", err)
	}
	return out, nil
}
