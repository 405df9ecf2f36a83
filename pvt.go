// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

// Output of the position solver for one epoch
type PvtSol struct {
	Pos      PosXYZ          // Receiver position
	Vel      VelXYZ          // Receiver velocity
	Week     int             // GPS week number
	WeekMs   int             // Millisecond within week
	InvMat   [10]float64     // Inverse of the normal matrix, packed as in CalcDop
	Quality  PosQuality      // Quality of the position
	PosSys   SysMask         // Systems used in the solution
	SatInfo  [NSYS][]SatInfo // Tracking state of each system
	SatInUse [NSYS]uint64    // Satellites used in the solution
}

// Convert the solver output to the values reported by NMEA
// - When the local frame is not defined the velocity is zero and DOPs are invalid
func NewNmeaInfo(sol *PvtSol, param *UtcParam) *NmeaInfo {
	if sol == nil {
		return nil
	}

	info := &NmeaInfo{
		PosLLH:   sol.Pos.ToLLH(),
		Time:     GpsToUtc(sol.Week, sol.WeekMs, param),
		Dop:      InvalidDop(),
		SatInfo:  sol.SatInfo,
		SatInUse: sol.SatInUse,
		PosSys:   sol.PosSys,
		Quality:  sol.Quality,
	}

	cm, ok := sol.Pos.ConvMatrix()
	if ok {
		info.GroundSpeed = sol.Vel.ToLocal(&cm)
		info.Dop = CalcDop(&sol.InvMat, &cm)
	} else {
		PrintD(1, "local frame is not defined at %v\n", sol.Pos)
	}

	PrintD(2, "%s llh=(%s) %s speed=%.3f course=%.2f\n",
		info.Time.String(), info.PosLLH.String(), info.Dop, info.GroundSpeed.Speed, ToDeg(info.GroundSpeed.Course))
	return info
}
