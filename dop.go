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

	"gonum.org/v1/gonum/mat"
)

// Index of DopArray
const (
	HDOP = iota
	VDOP
	PDOP
	TDOP
)

// HDOP, VDOP, PDOP, TDOP
type DopArray [4]float64

func InvalidDop() DopArray {
	return DopArray{DOP_INVALID, DOP_INVALID, DOP_INVALID, DOP_INVALID}
}

func (d DopArray) IsValid() bool {
	return d[0] != DOP_INVALID
}

func (d DopArray) String() string {
	return fmt.Sprintf("hdop=%.2f vdop=%.2f pdop=%.2f tdop=%.2f", d[HDOP], d[VDOP], d[PDOP], d[TDOP])
}

// Calculate DOP values from the inverse normal matrix in ECEF and the ENU rotation
// - Only the diagonal of Cxyz2enu*P*Cxyz2enu' is needed
// - TDOP is the square root of inv[9]
//
//	           | x2e y2e  0  |      | P[0] P[1] P[3] |
//	Cxyz2enu = | x2n y2n z2n |, P = | P[1] P[2] P[4] |
//	           | x2u y2u z2u |      | P[3] P[4] P[5] |
func CalcDop(inv *[10]float64, cm *ConvMatrix) DopArray {
	if inv == nil || cm == nil || inv[0] <= 0 {
		return InvalidDop()
	}

	p0, p2, p5 := inv[0], inv[2], inv[5]
	p1, p3, p4 := 2*inv[1], 2*inv[3], 2*inv[4] // off diagonal terms appear twice

	pe := cm.X2E*cm.X2E*p0 + cm.X2E*cm.Y2E*p1 + cm.Y2E*cm.Y2E*p2
	pn := quadForm(cm.X2N, cm.Y2N, cm.Z2N, p0, p1, p2, p3, p4, p5)
	pu := quadForm(cm.X2U, cm.Y2U, cm.Z2U, p0, p1, p2, p3, p4, p5)

	if pe < 0 || pn < 0 || pu < 0 || inv[9] < 0 {
		return InvalidDop()
	}
	return DopArray{
		math.Sqrt(pe + pn),
		math.Sqrt(pu),
		math.Sqrt(pe + pn + pu),
		math.Sqrt(inv[9]),
	}
}

func quadForm(x, y, z, p0, p1, p2, p3, p4, p5 float64) float64 {
	return x*x*p0 + y*y*p2 + z*z*p5 + x*y*p1 + x*z*p3 + y*z*p4
}

// Pack a 4x4 covariance (x, y, z, clock) into the upper triangle layout used by CalcDop
// - [xx, xy, yy, xz, yz, zz, xt, yt, zt, tt]
func PackInvMatrix(cov mat.Matrix) ([10]float64, error) {
	var inv [10]float64
	r, c := cov.Dims()
	if r != 4 || c != 4 {
		return inv, fmt.Errorf("invalid covariance size (%d x %d), want (4 x 4)", r, c)
	}
	k := 0
	for j := 0; j < 4; j++ {
		for i := 0; i <= j; i++ {
			inv[k] = cov.At(i, j)
			k++
		}
	}
	return inv, nil
}
