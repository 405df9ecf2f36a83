// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Encodes the positioning result into NMEA0183 sentences.

package pvtnmea

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"strings"
)

//-------------------------------------------------------------------
// Sentence types
//-------------------------------------------------------------------

type NmeaType int

const (
	NMEA_GGA NmeaType = iota
	NMEA_GSA
	NMEA_GSV
	NMEA_GLL
	NMEA_RMC
	NMEA_VTG
	NMEA_ZDA
	NMEA_MAX
)

var nmeaNames = [NMEA_MAX]string{"GGA", "GSA", "GSV", "GLL", "RMC", "VTG", "ZDA"}

func (t NmeaType) String() string {
	if t < 0 || t >= NMEA_MAX {
		return "UNKNOWN!"
	}
	return nmeaNames[t]
}

// Set of sentence types to output, bit i is NmeaType i
type NmeaMask uint32

const NMEA_ALL NmeaMask = 1<<NMEA_MAX - 1

func MsgMask(types ...NmeaType) NmeaMask {
	var m NmeaMask
	for _, t := range types {
		m |= 1 << t
	}
	return m
}

func (m NmeaMask) Has(t NmeaType) bool {
	return m&(1<<t) != 0
}

// Parse a list like "GGA,RMC" ("ALL" for every type)
func ParseNmeaMask(s string) (NmeaMask, error) {
	var m NmeaMask
	for _, a := range strings.Split(s, ",") {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if a == "ALL" {
			m |= NMEA_ALL
			continue
		}
		found := false
		for t, name := range nmeaNames {
			if a == name {
				m |= 1 << t
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown NMEA sentence %q", a)
		}
	}
	return m, nil
}

func (m NmeaMask) String() string {
	names := []string{}
	for t := NmeaType(0); t < NMEA_MAX; t++ {
		if m.Has(t) {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, ",")
}

//-------------------------------------------------------------------
// Input of the encoder
//-------------------------------------------------------------------

// Quality of the positioning result
type PosQuality int

const (
	POSQ_NONE PosQuality = iota // No position
	POSQ_KEEP                   // Last position is kept (not updated in this epoch)
	POSQ_FIX                    // Position calculated in this epoch
)

// Receiver configuration read by the encoder
type PvtConfig struct {
	UseSys    SysMask // Systems used for positioning (a single G/C/E system forces its talker ID)
	EnableSys SysMask // Systems enabled for tracking (one GSV group each)
}

// Everything reported in one epoch
type NmeaInfo struct {
	PosLLH      PosLLH
	Time        UtcTime
	GroundSpeed GroundSpeed
	Dop         DopArray
	SatInfo     [NSYS][]SatInfo // Tracking state indexed by satellite index within each system
	SatInUse    [NSYS]uint64    // Bit i set when satellite index i is used for positioning
	PosSys      SysMask         // Systems that contributed to the position
	Quality     PosQuality
}

func (info *NmeaInfo) IsValid() bool {
	return info.Quality > POSQ_KEEP
}

// Number of satellites used for positioning
func (info *NmeaInfo) SatCount() int {
	n := 0
	for _, m := range info.SatInUse {
		n += bits.OnesCount64(m)
	}
	return n
}

//-------------------------------------------------------------------
// Encoder
//-------------------------------------------------------------------

// Fields shared by several sentences, each with its leading comma
type nmeaFields struct {
	latLon string
	alt    string
	time   string
	date   string
	hdop   string
	vdop   string
	pdop   string
	speed  string
	course string
}

// Write the sentences selected by mask
func EncodeNmea(w io.Writer, info *NmeaInfo, cfg *PvtConfig, mask NmeaMask) (int, error) {
	b := AppendNmea(nil, info, cfg, mask)
	if len(b) == 0 {
		return 0, nil
	}
	return w.Write(b)
}

// Append the sentences selected by mask to dst
func AppendNmea(dst []byte, info *NmeaInfo, cfg *PvtConfig, mask NmeaMask) []byte {
	if info == nil || cfg == nil {
		return dst
	}

	valid := info.IsValid()
	talker, talkerSys := selectTalker(info, cfg, valid)
	f := makeFields(info, valid, mask)
	s := &sentenceBuf{b: dst}

	for t := NmeaType(0); t < NMEA_MAX; t++ {
		if !mask.Has(t) {
			continue
		}
		switch t {
		case NMEA_GGA:
			s.begin(talker, "GGA")
			s.str(f.time)
			s.str(f.latLon)
			s.char(',')
			s.dec(quality(valid), 1)
			s.char(',')
			s.dec(info.SatCount(), 1)
			s.str(f.hdop)
			s.str(f.alt)
			s.char(',', ',') // no differential information
			s.end()
		case NMEA_GSA:
			composeGsa(s, info, talker, talkerSys, valid, &f)
		case NMEA_GSV:
			for i, sys := range sysList {
				if cfg.EnableSys.Has(sys) {
					composeGsv(s, i, info.SatInfo[i])
				}
			}
		case NMEA_GLL:
			s.begin(talker, "GLL")
			s.str(f.latLon)
			s.str(f.time)
			s.char(',', status(valid))
			s.char(',', 'A') // mode
			s.end()
		case NMEA_RMC:
			s.begin(talker, "RMC")
			s.str(f.time)
			s.char(',', status(valid))
			s.str(f.latLon)
			s.str(f.speed)
			s.str(f.course)
			s.str(f.date)
			s.char(',', ',', 'E') // no magnetic variation
			s.char(',', 'A')      // mode
			s.char(',', status(valid))
			s.end()
		case NMEA_VTG:
			s.begin(talker, "VTG")
			s.str(f.course)
			s.char(',', 'T')
			s.char(',', ',', 'M')
			s.str(f.speed)
			s.char(',', 'N')
			s.char(',')
			if valid {
				s.float(info.GroundSpeed.Speed*MS2KMH, 3)
			}
			s.char(',', 'K')
			s.char(',', 'A')
			s.end()
		case NMEA_ZDA:
			s.begin(talker, "ZDA")
			s.str(f.time)
			s.char(',')
			s.dec(info.Time.Day, 2)
			s.char(',')
			s.dec(info.Time.Month, 2)
			s.char(',')
			s.dec(info.Time.Year, 4)
			s.char(',', ',') // no local zone
			s.end()
		}
	}
	return s.b
}

// Talker ID: the configured single system, else the single system of a valid fix, else GN
// - talkerSys is the index of the system or -1 for GN
func selectTalker(info *NmeaInfo, cfg *PvtConfig, valid bool) (talker byte, talkerSys int) {
	if sys, ok := cfg.UseSys.Single(); ok && sys != SYS_GLO {
		return nmeaSys[sys.Index()].talker, sys.Index()
	}
	if valid {
		if sys, ok := info.PosSys.Single(); ok && sys != SYS_GLO {
			return nmeaSys[sys.Index()].talker, sys.Index()
		}
	}
	return TALKER_GNSS, -1
}

func quality(valid bool) int {
	if valid {
		return 1
	}
	return 0
}

func status(valid bool) byte {
	if valid {
		return 'A'
	}
	return 'V'
}

func makeFields(info *NmeaInfo, valid bool, mask NmeaMask) nmeaFields {
	var f nmeaFields
	var b []byte

	if mask&MsgMask(NMEA_GGA, NMEA_GLL, NMEA_RMC) != 0 {
		b = appendLatLon(b[:0], &info.PosLLH)
		f.latLon = string(b)
	}
	if mask.Has(NMEA_GGA) {
		b = append(b[:0], ',')
		b = appendFloat(b, info.PosLLH.Hei, 3)
		b = append(b, ",M,0,M"...) // geoid separation is not applied
		f.alt = string(b)
	}
	if mask&MsgMask(NMEA_GGA, NMEA_GLL, NMEA_RMC, NMEA_ZDA) != 0 {
		b = append(b[:0], ',')
		b = appendUint(b, info.Time.Hour, 2)
		b = appendUint(b, info.Time.Minute, 2)
		b = appendUint(b, info.Time.Second, 2)
		b = append(b, '.')
		b = appendUint(b, info.Time.Millisecond, 3)
		f.time = string(b)
	}
	if mask.Has(NMEA_RMC) {
		b = append(b[:0], ',')
		b = appendUint(b, info.Time.Day, 2)
		b = appendUint(b, info.Time.Month, 2)
		b = appendUint(b, info.Time.Year%100, 2)
		f.date = string(b)
	}
	if mask&MsgMask(NMEA_GGA, NMEA_GSA) != 0 {
		f.hdop = optFloat(valid, info.Dop[HDOP], 3)
		if mask.Has(NMEA_GSA) {
			f.vdop = optFloat(valid, info.Dop[VDOP], 3)
			f.pdop = optFloat(valid, info.Dop[PDOP], 3)
		}
	}
	if mask&MsgMask(NMEA_RMC, NMEA_VTG) != 0 {
		f.speed = optFloat(valid, info.GroundSpeed.Speed*MS2KNOT, 3)
		f.course = optFloat(valid, ToDeg(info.GroundSpeed.Course), 2)
	}
	return f
}

// ",value" or "," when not valid
func optFloat(valid bool, v float64, digits int) string {
	if !valid {
		return ","
	}
	return string(appendFloat([]byte{','}, v, digits))
}

// ",ddmm.mmmmmm,N,dddmm.mmmmmm,E"
func appendLatLon(b []byte, llh *PosLLH) []byte {
	lat := ToDeg(llh.Lat)
	lon := ToDeg(llh.Lon)
	b = append(b, ',')
	b = appendDegMin(b, math.Abs(lat), 2)
	if lat < 0 {
		b = append(b, ',', 'S', ',')
	} else {
		b = append(b, ',', 'N', ',')
	}
	b = appendDegMin(b, math.Abs(lon), 3)
	if lon < 0 {
		b = append(b, ',', 'W')
	} else {
		b = append(b, ',', 'E')
	}
	return b
}

// Degrees and minutes with 6 decimal digits
func appendDegMin(b []byte, deg float64, width int) []byte {
	d := int(deg)
	m := int((deg-float64(d))*600000000. + 5) // 1/10000000 minute, half of the last digit added to round
	if m >= 600000000 {                       // rounded up to the next degree
		d++
		m = 0
	}
	m /= 10
	b = appendUint(b, d, width)
	b = appendUint(b, m/1000000, 2)
	b = append(b, '.')
	return appendUint(b, m%1000000, 6)
}

// One GSA for each system with satellites in use
func composeGsa(s *sentenceBuf, info *NmeaInfo, talker byte, talkerSys int, valid bool, f *nmeaFields) {
	for i := range sysList {
		if talkerSys >= 0 && i != talkerSys { // only one system is reported
			continue
		}
		inUse := info.SatInUse[i]
		if inUse == 0 {
			continue
		}
		s.begin(talker, "GSA")
		s.char(',', 'A', ',')
		if valid {
			s.char('3')
		} else {
			s.char('1')
		}
		count := 0
		for j := 0; count < MAX_GSA_SATS && inUse != 0; j++ {
			if inUse&(1<<j) == 0 {
				continue
			}
			s.char(',')
			s.dec(nmeaSys[i].svidBase+j, 2)
			inUse &^= 1 << j
			count++
		}
		for ; count < MAX_GSA_SATS; count++ {
			s.char(',')
		}
		s.str(f.pdop)
		s.str(f.hdop)
		s.str(f.vdop)
		s.char(',')
		s.dec(nmeaSys[i].systemID, 1)
		s.end()
	}
}

// Elevation written for satellites in track without el/az
const GSV_EL_UNKNOWN = 100

type gsvSat struct {
	prn int
	el  int // [deg]
	az  int // [deg]
	cn0 int // [dB-Hz]
}

// Satellites in view of one system (at most MAX_GSV_SATS)
func gsvSats(sys int, infos []SatInfo) []gsvSat {
	sats := make([]gsvSat, 0, MAX_GSV_SATS)
	for i := range infos {
		if len(sats) >= MAX_GSV_SATS {
			break
		}
		si := &infos[i]
		if si.ElAzValid && si.El > GSV_EL_MASK {
			az := int(ToDeg(si.Az))
			if az < 0 {
				az += 360
			}
			sats = append(sats, gsvSat{
				prn: nmeaSys[sys].svidBase + i,
				el:  int(ToDeg(si.El) + 0.5),
				az:  az,
				cn0: (si.CN0 + 50) / 100,
			})
		} else if si.CN0 > CN0_TRACK_THRES { // in track but el/az not yet calculated
			sats = append(sats, gsvSat{
				prn: nmeaSys[sys].svidBase + i,
				el:  GSV_EL_UNKNOWN,
				az:  0,
				cn0: (si.CN0 + 50) / 100,
			})
		}
	}
	return sats
}

// GSV group of one system, 4 satellites per sentence
func composeGsv(s *sentenceBuf, sys int, infos []SatInfo) {
	sats := gsvSats(sys, infos)
	nmsg := (len(sats) + 3) / 4
	for m := 1; m <= nmsg; m++ {
		s.begin(nmeaSys[sys].talker, "GSV")
		s.char(',')
		s.dec(nmsg, 1)
		s.char(',')
		s.dec(m, 1)
		s.char(',')
		s.dec(len(sats), 2)
		for j := (m - 1) * 4; j < m*4 && j < len(sats); j++ {
			sat := &sats[j]
			s.char(',')
			s.dec(sat.prn, 2)
			s.char(',')
			if sat.el <= 90 {
				s.dec(sat.el, 2)
			}
			s.char(',')
			if sat.el <= 90 {
				s.dec(sat.az, 3)
			}
			s.char(',')
			if sat.cn0 > 0 {
				s.dec(sat.cn0, 2)
			}
		}
		s.char(',', '0') // signal ID
		s.end()
	}
}
