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
	"strconv"
	"strings"
)

//-------------------------------------------------------------------
// PosLLH
//-------------------------------------------------------------------

type PosLLH struct {
	Lat float64 // [rad]
	Lon float64 // [rad]
	Hei float64 // Height above ellipsoid [m]
}

func NewPosLLH(lat, lon, hei float64) *PosLLH {
	return &PosLLH{
		Lat: lat,
		Lon: lon,
		Hei: hei,
	}
}

func (llh *PosLLH) ToXYZ() PosXYZ {
	// Radius of curvature in the prime vertical
	sinl := math.Sin(llh.Lat)
	n := WGS_AXIS_A / math.Sqrt(1.0-WGS_E1_SQR*sinl*sinl)
	return PosXYZ{
		X: (n + llh.Hei) * math.Cos(llh.Lat) * math.Cos(llh.Lon),
		Y: (n + llh.Hei) * math.Cos(llh.Lat) * math.Sin(llh.Lon),
		Z: (n*(1.0-WGS_E1_SQR) + llh.Hei) * sinl,
	}
}

// Read from string ("lat lon hei" with lat/lon in degrees)
func (llh *PosLLH) Set(s string) error {
	var err error
	f := strings.Fields(s)
	if len(f) != 3 {
		return fmt.Errorf("invalid position %q, want \"lat lon hei\"", s)
	}
	llh.Lat, err = strconv.ParseFloat(f[0], 64)
	if err != nil {
		return err
	}
	llh.Lon, err = strconv.ParseFloat(f[1], 64)
	if err != nil {
		return err
	}
	llh.Hei, err = strconv.ParseFloat(f[2], 64)
	if err != nil {
		return err
	}
	llh.Lat = ToRad(llh.Lat)
	llh.Lon = ToRad(llh.Lon)
	return nil
}

// Convert to string (degrees)
func (llh *PosLLH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", ToDeg(llh.Lat), ToDeg(llh.Lon), llh.Hei)
}

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

func NewPosXYZ(x, y, z float64) *PosXYZ {
	return &PosXYZ{
		X: x,
		Y: y,
		Z: z,
	}
}

// Closed form conversion by Bowring (no iteration)
func (pos *PosXYZ) ToLLH() PosLLH {
	p := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y)

	// On the polar axis the longitude is undefined and the formula below divides by p
	if p < POLE_THRES {
		llh := PosLLH{Lat: PI / 2, Lon: 0, Hei: math.Abs(pos.Z) - WGS_AXIS_B}
		if pos.Z < 0 {
			llh.Lat = -llh.Lat
		}
		return llh
	}

	t := math.Atan2(pos.Z*WGS_AXIS_A, p*WGS_AXIS_B)
	sint := math.Sin(t)
	cost := math.Cos(t)

	lat := math.Atan2(pos.Z+WGS_E2_SQR*WGS_AXIS_B*sint*sint*sint, p-WGS_E1_SQR*WGS_AXIS_A*cost*cost*cost)
	lon := math.Atan2(pos.Y, pos.X)
	if lon == -PI { // atan2(-0, x<0)
		lon = PI
	}
	sinl := math.Sin(lat)
	n := WGS_AXIS_A / math.Sqrt(1.0-WGS_E1_SQR*sinl*sinl) // Radius of curvature in the prime vertical
	hei := p/math.Cos(lat) - n
	return PosLLH{Lat: lat, Lon: lon, Hei: hei}
}

func (pos *PosXYZ) ToENU(base PosXYZ) PosENU {
	// Relative position from the reference location
	x := pos.X - base.X
	y := pos.Y - base.Y
	z := pos.Z - base.Z

	// Latitude and longitude of the reference location
	llh := base.ToLLH()
	s1 := math.Sin(llh.Lon)
	c1 := math.Cos(llh.Lon)
	s2 := math.Sin(llh.Lat)
	c2 := math.Cos(llh.Lat)

	// Rotate the relative position to convert to ENU coordinates
	return PosENU{
		E: -x*s1 + y*c1,
		N: -x*c1*s2 - y*s1*s2 + z*c2,
		U: x*c1*c2 + y*s1*c2 + z*s2,
	}
}

func (usr *PosXYZ) Elevation(sat PosXYZ) float64 {
	enu := sat.ToENU(*usr)
	return enu.Elevation()
}

func (usr *PosXYZ) Azimuth(sat PosXYZ) float64 {
	enu := sat.ToENU(*usr)
	return enu.Azimuth()
}

// Rotation from ECEF to the local ENU frame at this position
// - Direction cosines only, no trigonometric functions
// - ok is false when the position is too close to the earth center
//
//	|e|   |-y/P      x/P     0  | |x|
//	|n| = |-x*z/P/R -y*z/P/R P/R|*|y|
//	|u|   | x/R      y/R     z/R| |z|
func (pos *PosXYZ) ConvMatrix() (cm ConvMatrix, ok bool) {
	P := math.Sqrt(SQ(pos.X) + SQ(pos.Y))
	R := math.Sqrt(SQ(P) + SQ(pos.Z))

	if R < ROT_THRES {
		return cm, false
	}
	if P < ROT_THRES { // north or south pole
		cm.X2E = 0.0
		cm.Y2E = 1.0
	} else {
		cm.X2E = -pos.Y / P
		cm.Y2E = pos.X / P
	}
	cm.X2U = pos.X / R
	cm.Y2U = pos.Y / R
	cm.Z2U = pos.Z / R
	cm.X2N = -cm.Y2E * cm.Z2U
	cm.Y2N = cm.X2E * cm.Z2U
	cm.Z2N = P / R
	return cm, true
}

//-------------------------------------------------------------------
// PosENU
//-------------------------------------------------------------------

type PosENU struct {
	E float64
	N float64
	U float64
}

func (enu *PosENU) Elevation() float64 {
	return math.Atan2(enu.U, math.Sqrt(enu.E*enu.E+enu.N*enu.N))
}

func (enu *PosENU) Azimuth() float64 {
	return math.Atan2(enu.E, enu.N)
}

//-------------------------------------------------------------------
// ConvMatrix
//-------------------------------------------------------------------

// Coefficients of the ECEF to ENU rotation (x2e is the x coefficient of the east axis, etc.)
// The east axis has no z component.
type ConvMatrix struct {
	X2E, Y2E      float64
	X2N, Y2N, Z2N float64
	X2U, Y2U, Z2U float64
}

// Rotate an ECEF vector to ENU
func (cm *ConvMatrix) Rotate(x, y, z float64) PosENU {
	return PosENU{
		E: cm.X2E*x + cm.Y2E*y,
		N: cm.X2N*x + cm.Y2N*y + cm.Z2N*z,
		U: cm.X2U*x + cm.Y2U*y + cm.Z2U*z,
	}
}

// Rotate an ENU vector back to ECEF (transpose)
func (cm *ConvMatrix) RotateBack(enu PosENU) (x, y, z float64) {
	x = cm.X2E*enu.E + cm.X2N*enu.N + cm.X2U*enu.U
	y = cm.Y2E*enu.E + cm.Y2N*enu.N + cm.Y2U*enu.U
	z = cm.Z2N*enu.N + cm.Z2U*enu.U
	return
}

//-------------------------------------------------------------------
// Velocity
//-------------------------------------------------------------------

// ECEF velocity [m/s]
type VelXYZ struct {
	VX float64
	VY float64
	VZ float64
}

// Velocity in the local frame
type GroundSpeed struct {
	VE     float64 // [m/s]
	VN     float64 // [m/s]
	VU     float64 // [m/s]
	Speed  float64 // Horizontal speed [m/s]
	Course float64 // Course over ground, clockwise from north [rad] (0 <= Course < 2PI)
}

func (vel *VelXYZ) ToLocal(cm *ConvMatrix) GroundSpeed {
	enu := cm.Rotate(vel.VX, vel.VY, vel.VZ)
	gs := GroundSpeed{
		VE:    enu.E,
		VN:    enu.N,
		VU:    enu.U,
		Speed: math.Sqrt(SQ(enu.E) + SQ(enu.N)),
	}
	gs.Course = math.Atan2(gs.VE, gs.VN)
	if gs.Course < 0 {
		gs.Course += 2 * PI
		if gs.Course >= 2*PI { // tiny negative angle rounds up to 2PI
			gs.Course = 0
		}
	}
	return gs
}
