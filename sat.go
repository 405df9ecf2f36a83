// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"math/bits"
	"strings"
)

// Type representing satellite system like 'G'
type SysType byte

// Satellite systems handled by the receiver, in NMEA output order
const (
	SYS_GPS SysType = 'G'
	SYS_BDS SysType = 'C'
	SYS_GAL SysType = 'E'
	SYS_GLO SysType = 'R'
)

// Number of satellite systems
const NSYS = 4

var sysList = [NSYS]SysType{SYS_GPS, SYS_BDS, SYS_GAL, SYS_GLO}

// Check validity of satellite system
func (p SysType) IsValid() bool {
	return p.Index() >= 0
}

// Position in the per-system tables (-1 when unknown)
func (p SysType) Index() int {
	for i, s := range sysList {
		if s == p {
			return i
		}
	}
	return -1
}

func (p SysType) Mask() SysMask {
	i := p.Index()
	if i < 0 {
		return 0
	}
	return 1 << i
}

func (p SysType) String() string {
	switch p {
	case SYS_GPS:
		return "GPS"
	case SYS_BDS:
		return "BDS"
	case SYS_GAL:
		return "GAL"
	case SYS_GLO:
		return "GLO"
	default:
		return "UNKNOWN!"
	}
}

// Set of satellite systems, bit i is sysList[i]
type SysMask uint8

const SYS_ALL SysMask = 1<<NSYS - 1

func NewSysMask(sys ...SysType) SysMask {
	var m SysMask
	for _, s := range sys {
		m |= s.Mask()
	}
	return m
}

func (m SysMask) Has(s SysType) bool {
	return m&s.Mask() != 0
}

// The single system in the mask (ok is false for none or several)
func (m SysMask) Single() (SysType, bool) {
	if bits.OnesCount8(uint8(m&SYS_ALL)) != 1 {
		return 0, false
	}
	return sysList[bits.TrailingZeros8(uint8(m))], true
}

func (m SysMask) String() string {
	var sb strings.Builder
	for _, s := range sysList {
		if m.Has(s) {
			sb.WriteByte(byte(s))
		}
	}
	return sb.String()
}

// Tracking state of one satellite
type SatInfo struct {
	El        float64 // Elevation [rad]
	Az        float64 // Azimuth [rad]
	CN0       int     // Carrier to noise ratio [0.01 dB-Hz]
	ElAzValid bool    // El/Az have been calculated from ephemeris or almanac
}

// NMEA parameters of each satellite system
type nmeaSysParam struct {
	talker   byte // Second character of the talker ID
	systemID int  // GNSS system ID of GSA (NMEA 4.10)
	svidBase int  // SVID of the first satellite in the system
}

var nmeaSys = [NSYS]nmeaSysParam{
	{talker: 'P', systemID: 1, svidBase: 1},  // GPS
	{talker: 'B', systemID: 4, svidBase: 1},  // BeiDou
	{talker: 'A', systemID: 3, svidBase: 1},  // Galileo
	{talker: 'L', systemID: 2, svidBase: 65}, // GLONASS
}

// Talker for multi system output
const TALKER_GNSS = 'N'
