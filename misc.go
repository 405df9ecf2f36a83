// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

func ToRad(deg float64) float64 {
	return deg / 180.0 * PI
}

// ------------------------------------
// Debug print function
// ------------------------------------

// Logger for all messages (stderr)
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "2006-01-02T15:04:05.000",
})

// Debug display level
var DBG_ int

// Set debug display level (0: info, 1 or more: debug messages up to that level)
func SetDebugLevel(v int) {
	DBG_ = v
	if v > 0 {
		Logger.SetLevel(log.DebugLevel)
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
}

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	Logger.Debugf("(%d x %d)\n%v", r, c, fa)
}

func PrintA(format string, a ...any) {
	Logger.Infof(strings.TrimSuffix(format, "\n"), a...)
}

// Print with the GPS time of the epoch
func PrintB(t GTime, format string, a ...any) {
	Logger.Info(fmt.Sprintf(strings.TrimSuffix(format, "\n"), a...), "gpst", t.ToTime().UTC().Format("2006-01-02T15:04:05.000"))
}

// Debug display
func PrintD(v int, format string, a ...any) {
	if DBG_ >= v {
		Logger.Debugf(strings.TrimSuffix(format, "\n"), a...)
	}
}

func PrintE(err error) {
	Logger.Error("failed", "err", err)
}

// ------------------------------------
// For command argument parsing
// ------------------------------------

// List of satellite systems like "G,C,E"
type SysVar []SysType

func (p *SysVar) Set(s string) error {
	*p = []SysType{}
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		sys := SysType(strings.ToUpper(a)[0])
		if !sys.IsValid() {
			return fmt.Errorf("unknown satellite system %q", a)
		}
		if !p.Contains(sys) {
			*p = append(*p, sys)
		}
	}
	return nil
}

func (p *SysVar) String() string {
	a := make([]string, len(*p))
	for i, s := range *p {
		a[i] = string(s)
	}
	return strings.Join(a, ",")
}

func (p *SysVar) Type() string {
	return "systems"
}

func (p *SysVar) Contains(s SysType) bool {
	return slices.Contains(*p, s)
}

func (p *SysVar) Mask() SysMask {
	return NewSysMask(*p...)
}

// Date and Time Parser (for command arguments)
type TimeStr time.Time

func (p *TimeStr) Set(s string) error {
	t, err := time.Parse("2006/01/02 15:04:05", s)
	if err != nil {
		return err
	}
	*p = TimeStr(t)
	return nil
}

func (p *TimeStr) String() string {
	return time.Time(*p).Format("2006/01/02 15:04:05")
}

func (p *TimeStr) Type() string {
	return "datetime"
}

func NewTimeStr(t time.Time) *TimeStr {
	m := new(TimeStr)
	*m = TimeStr(t)
	return m
}
