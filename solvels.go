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

// Inverse of the normal matrix (G^t W G)^-1
// - W may be nil for unit weights
func NormalInverse(G mat.Matrix, W mat.Matrix) (mat.Matrix, error) {

	n1, m1 := G.Dims()
	var A mat.Dense
	if W == nil {
		A.Mul(G.T(), G)
	} else {
		n2, m2 := W.Dims()
		if n1 != n2 || n2 != m2 {
			return nil, fmt.Errorf("invalid matrix size. G^T(%d x %d), W(%d x %d)", m1, n1, n2, m2)
		}
		var WG mat.Dense
		WG.Mul(W, G)
		A.Mul(G.T(), &WG)
	}

	var c mat.Dense
	if err := c.Inverse(&A); err != nil {
		return nil, err
	}
	if DBG_ >= 3 {
		PrintMat(&c)
	}
	return &c, nil
}

// Design matrix for pseudorange positioning from azimuth/elevation pairs [rad]
// - Row i is (-ex, -ey, -ez, 1) where e is the ECEF unit vector to the satellite
func DesignMatrix(cm *ConvMatrix, azel [][2]float64) *mat.Dense {
	G := mat.NewDense(len(azel), 4, nil)
	for i, ae := range azel {
		az, el := ae[0], ae[1]
		los := PosENU{
			E: math.Cos(el) * math.Sin(az),
			N: math.Cos(el) * math.Cos(az),
			U: math.Sin(el),
		}
		x, y, z := cm.RotateBack(los)
		G.SetRow(i, []float64{-x, -y, -z, 1})
	}
	return G
}

// Inverse normal matrix in the CalcDop layout from the satellite geometry at pos
func InvMatrixFromAzEl(pos *PosXYZ, azel [][2]float64) ([10]float64, error) {
	var inv [10]float64
	if len(azel) < 4 {
		return inv, fmt.Errorf("at least 4 satellites are needed, got %d", len(azel))
	}
	cm, ok := pos.ConvMatrix()
	if !ok {
		return inv, fmt.Errorf("local frame is not defined at %v", *pos)
	}
	cov, err := NormalInverse(DesignMatrix(&cm, azel), nil)
	if err != nil {
		return inv, fmt.Errorf("NormalInverse() failed, err=%w", err)
	}
	return PackInvMatrix(cov)
}
