// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysType(t *testing.T) {
	assert.Equal(t, 0, SYS_GPS.Index())
	assert.Equal(t, 3, SYS_GLO.Index())
	assert.Equal(t, -1, SysType('J').Index())
	assert.False(t, SysType('J').IsValid())
	assert.Equal(t, SysMask(0), SysType('J').Mask())
	assert.Equal(t, "GAL", SYS_GAL.String())
	assert.Equal(t, "UNKNOWN!", SysType('X').String())
}

func TestSysMask(t *testing.T) {
	m := NewSysMask(SYS_GLO, SYS_GPS)
	assert.True(t, m.Has(SYS_GPS))
	assert.False(t, m.Has(SYS_BDS))
	assert.Equal(t, "GR", m.String())
	assert.Equal(t, "GCER", SYS_ALL.String())

	_, ok := m.Single()
	assert.False(t, ok)
	_, ok = SysMask(0).Single()
	assert.False(t, ok)

	s, ok := NewSysMask(SYS_GAL).Single()
	require.True(t, ok)
	assert.Equal(t, SYS_GAL, s)
}

func TestSysVar(t *testing.T) {
	var v SysVar
	require.NoError(t, v.Set("g, E,g"))
	assert.Equal(t, SysVar{SYS_GPS, SYS_GAL}, v)
	assert.Equal(t, "G,E", v.String())
	assert.True(t, v.Contains(SYS_GAL))
	assert.False(t, v.Contains(SYS_GLO))
	assert.Equal(t, NewSysMask(SYS_GPS, SYS_GAL), v.Mask())
	assert.Equal(t, "systems", v.Type())

	assert.Error(t, v.Set("G,J"))
}

func TestTimeStr(t *testing.T) {
	var ts TimeStr
	require.NoError(t, ts.Set("2023/01/02 03:04:05"))
	assert.Equal(t, time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC), time.Time(ts))
	assert.Equal(t, "2023/01/02 03:04:05", ts.String())
	assert.Equal(t, "datetime", ts.Type())
	assert.Error(t, ts.Set("2023-01-02"))

	assert.Equal(t, "0001/01/01 00:00:00", NewTimeStr(time.Time{}).String())
}

func TestDebugLevel(t *testing.T) {
	defer SetDebugLevel(0)

	SetDebugLevel(2)
	assert.Equal(t, 2, DBG_)
	SetDebugLevel(0)
	assert.Equal(t, 0, DBG_)
}
