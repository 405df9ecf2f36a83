// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"fmt"
	"math"
	"time"
)

//-------------------------------------------------------------------
// GTime
//-------------------------------------------------------------------

type GTime struct {
	Week int
	Sec  float64
}

func NewGTime(dt time.Time) *GTime {
	t := dt.Unix()
	t -= time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // Elapsed seconds since 1980/1/6 00:00:00
	return &GTime{
		Week: int(t / (3600 * 24 * 7)),
		Sec:  float64(t%(3600*24*7)) + float64(dt.Nanosecond())/1000000000,
	}
}

// From week number and millisecond within week (solver output)
func NewGTimeMs(week, weekMs int) *GTime {
	return &GTime{
		Week: week,
		Sec:  float64(weekMs) / 1000,
	}
}

func (p *GTime) ToTime() time.Time {
	o := time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // GPS time starts from 1980/1/6 00:00:00
	i := int64(math.Trunc(p.Sec))
	t := int64(3600*24*7*p.Week) + i + o
	n := int64((p.Sec - float64(i)) * 1e9)
	return time.Unix(t, n) // Unix time is the elapsed seconds since 1970/1/1 00:00:00
}

func (p *GTime) Less(b GTime, roundSec bool) bool {
	if p.Week == b.Week {
		if roundSec {
			return math.Round(p.Sec) < math.Round(b.Sec)
		} else {
			return p.Sec < b.Sec
		}
	} else {
		return p.Week < b.Week
	}
}

func (p *GTime) Before(t time.Time, roundSec bool) bool {
	return p.Less(*NewGTime(t), roundSec)
}

func (p *GTime) After(t time.Time, roundSec bool) bool {
	return NewGTime(t).Less(*p, roundSec)
}

//-------------------------------------------------------------------
// UtcTime
//-------------------------------------------------------------------

// Calendar time in UTC
type UtcTime struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

func NewUtcTime(t time.Time) *UtcTime {
	t = t.UTC()
	return &UtcTime{
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / 1000000,
	}
}

func (t *UtcTime) ToTime() time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, t.Millisecond*1000000, time.UTC)
}

func (t *UtcTime) String() string {
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d.%03d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millisecond)
}

// Leap second parameters from the navigation message
type UtcParam struct {
	Valid bool // Parameters have been received
	TLS   int  // Current leap seconds
	TLSF  int  // Leap seconds after the pending transition
	WNLSF int  // Week number of the transition (full week number)
	DN    int  // Day number of the transition
}

// Leap seconds to apply at the given GPS time
// - shifted is the millisecond count within week plus one week
func (p *UtcParam) leapMs(week, shifted int) int {
	if p == nil || !p.Valid {
		return LS * 1000
	}
	ms := p.TLS * 1000
	if p.TLS != p.TLSF {
		if week > p.WNLSF || (week == p.WNLSF && (shifted-ms)/MS_PER_DAY > p.DN+7) {
			ms += (p.TLSF - p.TLS) * 1000
		}
	}
	return ms
}

// Leap seconds for the UTC to GPS direction (pending transition is not applied)
func (p *UtcParam) currentMs() int {
	if p == nil || !p.Valid {
		return LS * 1000
	}
	return p.TLS * 1000
}

//-------------------------------------------------------------------
// Time system conversions
// - Valid from 1984/1/1 until the end of 2099 (every 4th year is a leap year in this range)
//-------------------------------------------------------------------

// Cumulative days before each month in a common year
var daysAcc = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// Convert GLONASS time to UTC
// - leapYears: number of 4 year cycles since 1992
// - dayNumber: day within the 4 year cycle (1 based)
// - dayMsCount: millisecond within the GLONASS day (starts at 03:00 UTC)
func GlonassToUtc(leapYears, dayNumber, dayMsCount int) UtcTime {
	var t UtcTime
	leapDay := false

	dayMsCount -= GLO_OFFSET_MS
	if dayMsCount < 0 {
		dayMsCount += MS_PER_DAY
		dayNumber--
	}
	if dayNumber < 1 { // back into the previous cycle
		dayNumber += DAYS_4YEARS
		leapYears--
	}
	seconds := dayMsCount / 1000
	t.Millisecond = dayMsCount - seconds*1000

	// The leap year is always the first year of the cycle
	years := leapYears * 4
	dayNumber--
	switch {
	case dayNumber >= 366+365*2:
		dayNumber -= 366 + 365*2
		years += 3
	case dayNumber >= 366+365:
		dayNumber -= 366 + 365
		years += 2
	case dayNumber >= 366:
		dayNumber -= 366
		years++
	case dayNumber >= 60:
		dayNumber--
	case dayNumber == 59:
		leapDay = true
	}

	i := 1
	for ; i < 12; i++ {
		if dayNumber < daysAcc[i] {
			break
		}
	}
	if leapDay {
		t.Month = 2
		t.Day = 29
	} else {
		t.Month = i
		t.Day = dayNumber - daysAcc[i-1] + 1
	}
	t.Year = 1992 + years
	t.Hour = seconds / 3600
	seconds -= t.Hour * 3600
	t.Minute = seconds / 60
	t.Second = seconds - t.Minute*60
	return t
}

// Convert UTC to GLONASS time (inverse of GlonassToUtc)
func UtcToGlonass(t *UtcTime) (leapYears, dayNumber, dayMsCount int) {
	if t == nil {
		return
	}
	dayMsCount = ((t.Hour*60+t.Minute)*60+t.Second)*1000 + t.Millisecond + GLO_OFFSET_MS

	years := t.Year - 1992
	leapYears = floorDiv(years, 4)
	years -= leapYears * 4 // year within the cycle

	days := daysAcc[t.Month-1] + t.Day - 1
	// One more day after Feb 29 of the leap year
	if years != 0 || t.Month > 2 {
		days++
	}
	days += years * 365
	dayNumber = days + 1
	return
}

// Convert GPS time to UTC
// - param: leap second parameters. When nil or not valid, LS is used
func GpsToUtc(week, weekMs int, param *UtcParam) UtcTime {
	// One week is added so that the count does not go negative after the leap second adjustment
	totalDays := (week - 1) * 7
	ms := weekMs + MS_PER_WEEK
	ms -= param.leapMs(week, ms)
	totalDays += ms / MS_PER_DAY
	ms %= MS_PER_DAY

	// Days since 1984/1/1 to 4 year cycles
	totalDays -= GPS_GLO_WEEKS * 7
	leapYears := totalDays / DAYS_4YEARS
	totalDays -= leapYears * DAYS_4YEARS

	return GlonassToUtc(leapYears-2, totalDays+1, ms+GLO_OFFSET_MS)
}

// Convert UTC to GPS time
// - Only the current leap seconds are applied. A pending transition is ignored
func UtcToGps(t *UtcTime, param *UtcParam) (week, weekMs int) {
	if t == nil {
		return
	}
	leapYears, totalDays, ms := UtcToGlonass(t)
	ms -= GLO_OFFSET_MS
	totalDays-- // 0 based
	ms += param.currentMs()
	if ms >= MS_PER_DAY {
		ms -= MS_PER_DAY
		totalDays++
	} else if ms < 0 {
		ms += MS_PER_DAY
		totalDays--
	}
	totalDays += (leapYears + 2) * DAYS_4YEARS
	week = totalDays/7 + GPS_GLO_WEEKS
	weekMs = (totalDays%7)*MS_PER_DAY + ms
	return
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
