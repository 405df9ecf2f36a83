// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mkhts/pvtnmea"
)

const epochYaml = `
epochs:
  - week: 2238
    ms: 18000
    quality: fix
    pos: [-3961904.939, 3348993.763, 3698211.764]
    vel: [0.0, 0.0, 0.0]
    systems: G
    sats:
      G:
        - {index: 0, el: 80.0, az: 0.0, cn0: 4500, used: true}
        - {index: 1, el: 30.0, az: 0.0, cn0: 4000, used: true}
        - {index: 2, el: 30.0, az: 120.0, cn0: 3800, used: true}
        - {index: 3, el: 30.0, az: 240.0, cn0: 3600, used: true}
        - {index: 5, cn0: 2500}
  - week: 2238
    ms: 19000
    quality: bogus
    pos: [0, 0, 0]
  - week: 2238
    ms: 20000
    quality: none
    pos: [0, 0, 0]
`

func TestDecodeEpochs(t *testing.T) {
	epochs, err := decodeEpochs(strings.NewReader(epochYaml))
	require.NoError(t, err)
	require.Len(t, epochs, 3)

	sol, err := epochs[0].ToPvtSol()
	require.NoError(t, err)
	assert.Equal(t, m.POSQ_FIX, sol.Quality)
	assert.Equal(t, m.NewSysMask(m.SYS_GPS), sol.PosSys)
	assert.Equal(t, uint64(0xf), sol.SatInUse[m.SYS_GPS.Index()])
	require.Len(t, sol.SatInfo[m.SYS_GPS.Index()], 6)
	assert.False(t, sol.SatInfo[m.SYS_GPS.Index()][5].ElAzValid)
	assert.Greater(t, sol.InvMat[0], 0.0, "inverse matrix derived from el/az")

	_, err = epochs[1].ToPvtSol()
	assert.Error(t, err)
}

func TestEpochToPvtSol_Errors(t *testing.T) {
	cases := []struct {
		name  string
		epoch Epoch
	}{
		{"short inv", Epoch{InvMat: []float64{1, 2, 3}}},
		{"unknown system", Epoch{Sats: map[string][]SatRecord{"J": {{Index: 1}}}}},
		{"index out of range", Epoch{Sats: map[string][]SatRecord{"G": {{Index: 64}}}}},
		{"unknown position system", Epoch{Systems: "X"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.epoch.ToPvtSol()
			assert.Error(t, err)
		})
	}
}

func TestProcessEpochs(t *testing.T) {
	epochs, err := decodeEpochs(strings.NewReader(epochYaml))
	require.NoError(t, err)

	cfg := DefaultConfig()
	args := cmdOpt{
		ts:     time.Time{},
		te:     time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
		cfg:    cfg,
		pvtCfg: m.PvtConfig{UseSys: m.NewSysMask(m.SYS_GPS), EnableSys: m.NewSysMask(m.SYS_GPS)},
		mask:   m.MsgMask(m.NMEA_GGA, m.NMEA_GSV),
	}

	var out bytes.Buffer
	require.NoError(t, processEpochs(args, epochs, &out))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\r\n"), "\r\n")
	// epoch 1: GGA + 2 GSV, epoch 2 is skipped, epoch 3: GGA only (nothing in view)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "$GPGGA,"))
	assert.Contains(t, lines[0], ",1,4,")
	assert.True(t, strings.HasPrefix(lines[1], "$GPGSV,2,1,05,"))
	assert.True(t, strings.HasPrefix(lines[3], "$GPGGA,"))
	assert.Contains(t, lines[3], ",0,0,")
}

func TestShouldProcessEpoch(t *testing.T) {
	// week 2238 ms 18000 is 2022/11/27 00:00:18 GPST
	args := cmdOpt{
		ts: time.Date(2022, 11, 27, 0, 0, 0, 0, time.UTC),
		te: time.Date(2022, 11, 27, 0, 0, 30, 0, time.UTC),
	}
	assert.True(t, shouldProcessEpoch(&Epoch{Week: 2238, Ms: 18000}, args))
	assert.True(t, shouldProcessEpoch(&Epoch{Week: 2238, Ms: 30000}, args))
	assert.False(t, shouldProcessEpoch(&Epoch{Week: 2238, Ms: 31000}, args))
	assert.False(t, shouldProcessEpoch(&Epoch{Week: 2237, Ms: 18000}, args))
}

func TestParseArgs_Overrides(t *testing.T) {
	a, err := parseArgs([]string{"--systems", "E", "--sentences", "GGA,ZDA", "--out", "x.nmea", "--input", "in.yaml"})
	require.NoError(t, err)
	assert.Equal(t, m.NewSysMask(m.SYS_GAL), a.pvtCfg.UseSys)
	assert.Equal(t, m.MsgMask(m.NMEA_GGA, m.NMEA_ZDA), a.mask)
	assert.Equal(t, outFile, a.cfg.Output.Type)
	assert.Equal(t, "x.nmea", a.cfg.Output.Path)
	assert.Equal(t, "in.yaml", a.inFn)
}

func TestParseArgs_Errors(t *testing.T) {
	cases := []struct {
		name string
		argv []string
	}{
		{"unknown sentence", []string{"--sentences", "XYZ"}},
		{"unknown system", []string{"--systems", "G,J"}},
		{"stray argument", []string{"epochs.yaml"}},
		{"missing config", []string{"--config", "/nonexistent/pvtnmea.yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseArgs(tc.argv)
			assert.Error(t, err)
		})
	}
}

func TestEpochSummary(t *testing.T) {
	epochs, err := decodeEpochs(strings.NewReader(epochYaml))
	require.NoError(t, err)
	sol, err := epochs[0].ToPvtSol()
	require.NoError(t, err)

	line := epochSummary(m.NewNmeaInfo(sol, nil))
	assert.Contains(t, line, "utm=(54 N ")
	assert.Contains(t, line, "mgrs=54S")
	assert.Contains(t, line, "ns=4")

	sol, err = epochs[2].ToPvtSol()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(epochSummary(m.NewNmeaInfo(sol, nil)), " no position"))
}

func TestEpochToPvtSol_SatellitePosition(t *testing.T) {
	usr := m.NewPosLLH(m.ToRad(35.681236), m.ToRad(139.767125), 40).ToXYZ()
	cm, ok := usr.ConvMatrix()
	require.True(t, ok)

	// 20000 km away at el 45, az 90
	r := 20000e3
	x, y, z := cm.RotateBack(m.PosENU{E: r * math.Sqrt2 / 2, N: 0, U: r * math.Sqrt2 / 2})
	satPos := []float64{usr.X + x, usr.Y + y, usr.Z + z}

	e := Epoch{
		Quality: "fix",
		Pos:     [3]float64{usr.X, usr.Y, usr.Z},
		Sats: map[string][]SatRecord{
			"E": {{Index: 2, Pos: satPos, CN0: 4100, Used: true}},
		},
	}
	sol, err := e.ToPvtSol()
	require.NoError(t, err)
	info := sol.SatInfo[m.SYS_GAL.Index()][2]
	assert.True(t, info.ElAzValid)
	assert.InDelta(t, m.PI/4, info.El, 1e-9)
	assert.InDelta(t, m.PI/2, info.Az, 1e-9)
	assert.Equal(t, uint64(1<<2), sol.SatInUse[m.SYS_GAL.Index()])

	// No local frame at the earth center, the satellite stays without el/az
	e.Pos = [3]float64{}
	sol, err = e.ToPvtSol()
	require.NoError(t, err)
	assert.False(t, sol.SatInfo[m.SYS_GAL.Index()][2].ElAzValid)

	e.Sats["E"][0].Pos = []float64{1, 2}
	_, err = e.ToPvtSol()
	assert.Error(t, err)
}
