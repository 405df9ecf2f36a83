// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mkhts/pvtnmea"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "G,C,E,R", cfg.Systems.Use)
	assert.Equal(t, outStdout, cfg.Output.Type)
	assert.Nil(t, cfg.UtcParam())

	mask, err := cfg.SentenceMask()
	require.NoError(t, err)
	assert.Equal(t, m.MsgMask(m.NMEA_GGA, m.NMEA_GSA, m.NMEA_GSV, m.NMEA_RMC), mask)
}

func TestParseConfig_Full(t *testing.T) {
	src := `
systems:
  use: G
  enable: G,R
nmea:
  sentences: [GGA, ZDA]
leap_seconds:
  valid: true
  tls: 18
  tlsf: 19
  wnlsf: 2238
  dn: 1
output:
  type: MQTT
  mqtt:
    broker: tcp://localhost:1883
`
	cfg, err := ParseConfig([]byte(src))
	require.NoError(t, err)

	use, err := cfg.UseMask()
	require.NoError(t, err)
	assert.Equal(t, m.NewSysMask(m.SYS_GPS), use)

	enable, err := cfg.EnableMask()
	require.NoError(t, err)
	assert.True(t, enable.Has(m.SYS_GLO))
	assert.False(t, enable.Has(m.SYS_GAL))

	assert.Equal(t, outMQTT, cfg.Output.Type)
	assert.Equal(t, "pvtnmea/nmea", cfg.Output.MQTT.Topic)
	assert.Equal(t, "pvtnmea", cfg.Output.MQTT.ClientID)

	p := cfg.UtcParam()
	require.NotNil(t, p)
	assert.Equal(t, m.UtcParam{Valid: true, TLS: 18, TLSF: 19, WNLSF: 2238, DN: 1}, *p)
}

func TestParseConfig_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unknown output", "output: {type: udp}\n"},
		{"file without path", "output: {type: file}\n"},
		{"serial without port", "output: {type: serial}\n"},
		{"mqtt without broker", "output: {type: mqtt}\n"},
		{"unknown system", "systems: {use: X}\n"},
		{"unknown sentence", "nmea: {sentences: [GGA, HDT]}\n"},
		{"broken yaml", "output: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.src))
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_SerialBaudDefault(t *testing.T) {
	cfg, err := ParseConfig([]byte("output: {type: serial, serial: {port: /dev/ttyUSB0}}\n"))
	require.NoError(t, err)
	assert.Equal(t, 9600, cfg.Output.Serial.Baud)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	fn := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("output: {type: file, path: out.nmea}\n"), 0o644))
	cfg, err = LoadConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, "out.nmea", cfg.Output.Path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
