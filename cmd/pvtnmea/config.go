// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mkhts/pvtnmea"
)

type Config struct {
	Systems     SystemsConfig `yaml:"systems"`
	Nmea        NmeaConfig    `yaml:"nmea"`
	LeapSeconds LeapConfig    `yaml:"leap_seconds"`
	Output      OutputConfig  `yaml:"output"`
}

type SystemsConfig struct {
	Use    string `yaml:"use"`    // Systems used for positioning like "G" or "G,E,R"
	Enable string `yaml:"enable"` // Systems with GSV output
}

type NmeaConfig struct {
	Sentences []string `yaml:"sentences"`
}

type LeapConfig struct {
	Valid bool `yaml:"valid"`
	TLS   int  `yaml:"tls"`
	TLSF  int  `yaml:"tlsf"`
	WNLSF int  `yaml:"wnlsf"`
	DN    int  `yaml:"dn"`
}

type OutputConfig struct {
	Type   string       `yaml:"type"` // stdout, file, serial or mqtt
	Path   string       `yaml:"path"`
	Serial SerialConfig `yaml:"serial"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

const (
	outStdout = "stdout"
	outFile   = "file"
	outSerial = "serial"
	outMQTT   = "mqtt"
)

func DefaultConfig() Config {
	return Config{
		Systems: SystemsConfig{
			Use:    "G,C,E,R",
			Enable: "G,C,E,R",
		},
		Nmea: NmeaConfig{
			Sentences: []string{"GGA", "GSA", "GSV", "RMC"},
		},
		Output: OutputConfig{
			Type: outStdout,
		},
	}
}

// Read the config file. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return cfg, cfg.validate()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Systems.Use == "" {
		c.Systems.Use = def.Systems.Use
	}
	if c.Systems.Enable == "" {
		c.Systems.Enable = def.Systems.Enable
	}
	if len(c.Nmea.Sentences) == 0 {
		c.Nmea.Sentences = def.Nmea.Sentences
	}
	c.Output.Type = strings.ToLower(strings.TrimSpace(c.Output.Type))
	if c.Output.Type == "" {
		c.Output.Type = outStdout
	}
	if c.Output.Type == outSerial && c.Output.Serial.Baud == 0 {
		c.Output.Serial.Baud = 9600
	}
	if c.Output.Type == outMQTT {
		if c.Output.MQTT.Topic == "" {
			c.Output.MQTT.Topic = "pvtnmea/nmea"
		}
		if c.Output.MQTT.ClientID == "" {
			c.Output.MQTT.ClientID = "pvtnmea"
		}
	}
}

func (c *Config) validate() error {
	if _, err := c.UseMask(); err != nil {
		return fmt.Errorf("systems.use: %w", err)
	}
	if _, err := c.EnableMask(); err != nil {
		return fmt.Errorf("systems.enable: %w", err)
	}
	if _, err := c.SentenceMask(); err != nil {
		return fmt.Errorf("nmea.sentences: %w", err)
	}
	switch c.Output.Type {
	case outStdout:
	case outFile:
		if c.Output.Path == "" {
			return fmt.Errorf("output.path is required for file output")
		}
	case outSerial:
		if c.Output.Serial.Port == "" {
			return fmt.Errorf("output.serial.port is required for serial output")
		}
		if c.Output.Serial.Baud < 0 {
			return fmt.Errorf("output.serial.baud must be positive, got %d", c.Output.Serial.Baud)
		}
	case outMQTT:
		if c.Output.MQTT.Broker == "" {
			return fmt.Errorf("output.mqtt.broker is required for mqtt output")
		}
	default:
		return fmt.Errorf("unknown output.type %q", c.Output.Type)
	}
	return nil
}

func (c *Config) UseMask() (m.SysMask, error) {
	var v m.SysVar
	if err := v.Set(c.Systems.Use); err != nil {
		return 0, err
	}
	return v.Mask(), nil
}

func (c *Config) EnableMask() (m.SysMask, error) {
	var v m.SysVar
	if err := v.Set(c.Systems.Enable); err != nil {
		return 0, err
	}
	return v.Mask(), nil
}

func (c *Config) SentenceMask() (m.NmeaMask, error) {
	return m.ParseNmeaMask(strings.Join(c.Nmea.Sentences, ","))
}

// nil when the leap second parameters are not given (the default leap seconds are used)
func (c *Config) UtcParam() *m.UtcParam {
	if !c.LeapSeconds.Valid {
		return nil
	}
	return &m.UtcParam{
		Valid: true,
		TLS:   c.LeapSeconds.TLS,
		TLSF:  c.LeapSeconds.TLSF,
		WNLSF: c.LeapSeconds.WNLSF,
		DN:    c.LeapSeconds.DN,
	}
}
