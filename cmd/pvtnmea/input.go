// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	m "github.com/mkhts/pvtnmea"
)

// One epoch of solver output as written in the input file
//
//	epochs:
//	  - week: 2238
//	    ms: 18000
//	    quality: fix
//	    pos: [-3961904.939, 3348993.763, 3698211.764]
//	    vel: [0.1, 0.2, 0.0]
//	    systems: G,E
//	    sats:
//	      G:
//	        - {index: 4, el: 45.0, az: 120.0, cn0: 4500, used: true}
//	        - {index: 7, pos: [-12611434.2, 13413103.5, 19062913.7], cn0: 3900, used: true}
type Epoch struct {
	Week    int                    `yaml:"week"`
	Ms      int                    `yaml:"ms"`
	Quality string                 `yaml:"quality"`
	Pos     [3]float64             `yaml:"pos"`
	Vel     [3]float64             `yaml:"vel"`
	Systems string                 `yaml:"systems"`
	InvMat  []float64              `yaml:"inv"`
	Sats    map[string][]SatRecord `yaml:"sats"`
}

type SatRecord struct {
	Index int       `yaml:"index"` // Satellite index within the system (0 origin)
	El    *float64  `yaml:"el"`    // [deg], omitted when not calculated yet
	Az    *float64  `yaml:"az"`    // [deg]
	Pos   []float64 `yaml:"pos"`   // Satellite ECEF [m], used when el/az are omitted
	CN0   int       `yaml:"cn0"`   // [0.01 dB-Hz]
	Used  bool      `yaml:"used"`
}

type EpochFile struct {
	Epochs []Epoch `yaml:"epochs"`
}

func readEpochs(fn string) ([]Epoch, error) {
	if fn == "" || fn == "-" {
		return decodeEpochs(os.Stdin)
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeEpochs(f)
}

func decodeEpochs(r io.Reader) ([]Epoch, error) {
	var ef EpochFile
	if err := yaml.NewDecoder(r).Decode(&ef); err != nil {
		return nil, fmt.Errorf("invalid epoch file: %w", err)
	}
	return ef.Epochs, nil
}

func parseQuality(s string) (m.PosQuality, error) {
	switch s {
	case "", "none":
		return m.POSQ_NONE, nil
	case "keep":
		return m.POSQ_KEEP, nil
	case "fix":
		return m.POSQ_FIX, nil
	default:
		return m.POSQ_NONE, fmt.Errorf("unknown quality %q", s)
	}
}

// Build the solver output of the epoch
// - el/az of a satellite given only by its position are seen from the receiver position
// - When inv is not given it is calculated from the el/az of the satellites in use
func (e *Epoch) ToPvtSol() (*m.PvtSol, error) {
	q, err := parseQuality(e.Quality)
	if err != nil {
		return nil, err
	}
	var posSys m.SysVar
	if err := posSys.Set(e.Systems); err != nil {
		return nil, err
	}

	sol := &m.PvtSol{
		Pos:     m.PosXYZ{X: e.Pos[0], Y: e.Pos[1], Z: e.Pos[2]},
		Vel:     m.VelXYZ{VX: e.Vel[0], VY: e.Vel[1], VZ: e.Vel[2]},
		Week:    e.Week,
		WeekMs:  e.Ms,
		Quality: q,
		PosSys:  posSys.Mask(),
	}

	_, local := sol.Pos.ConvMatrix()
	azel := [][2]float64{}
	for name, recs := range e.Sats {
		if len(name) != 1 || !m.SysType(name[0]).IsValid() {
			return nil, fmt.Errorf("unknown satellite system %q", name)
		}
		si := m.SysType(name[0]).Index()
		for _, r := range recs {
			if r.Index < 0 || r.Index >= 64 {
				return nil, fmt.Errorf("satellite index %d out of range (%s)", r.Index, name)
			}
			for len(sol.SatInfo[si]) <= r.Index {
				sol.SatInfo[si] = append(sol.SatInfo[si], m.SatInfo{})
			}
			info := &sol.SatInfo[si][r.Index]
			info.CN0 = r.CN0
			switch {
			case r.El != nil && r.Az != nil:
				info.El = m.ToRad(*r.El)
				info.Az = m.ToRad(*r.Az)
				info.ElAzValid = true
			case len(r.Pos) == 3:
				if local {
					sat := m.PosXYZ{X: r.Pos[0], Y: r.Pos[1], Z: r.Pos[2]}
					info.El = sol.Pos.Elevation(sat)
					info.Az = sol.Pos.Azimuth(sat)
					info.ElAzValid = true
				}
			case len(r.Pos) != 0:
				return nil, fmt.Errorf("satellite position must have 3 elements, got %d (%s%d)", len(r.Pos), name, r.Index)
			}
			if r.Used {
				sol.SatInUse[si] |= 1 << r.Index
				if info.ElAzValid {
					azel = append(azel, [2]float64{info.Az, info.El})
				}
			}
		}
	}

	switch {
	case len(e.InvMat) == 10:
		copy(sol.InvMat[:], e.InvMat)
	case len(e.InvMat) != 0:
		return nil, fmt.Errorf("inv must have 10 elements, got %d", len(e.InvMat))
	case q == m.POSQ_FIX:
		inv, err := m.InvMatrixFromAzEl(&sol.Pos, azel)
		if err != nil {
			m.PrintD(1, "no DOP for this epoch: %v\n", err)
		} else {
			sol.InvMat = inv
		}
	}
	return sol, nil
}
