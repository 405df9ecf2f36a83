// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// az, el [rad]
var testAzEl = [][2]float64{
	{ToRad(0), ToRad(80)},
	{ToRad(10), ToRad(30)},
	{ToRad(130), ToRad(25)},
	{ToRad(250), ToRad(40)},
	{ToRad(300), ToRad(15)},
}

func TestNormalInverse(t *testing.T) {
	G := mat.NewDense(4, 4, []float64{
		1, 0, 0, 1,
		0, 1, 0, 1,
		0, 0, 1, 1,
		-1, -1, -1, 1,
	})
	Q1, err := NormalInverse(G, nil)
	require.NoError(t, err)

	I := mat.NewDiagDense(4, []float64{1, 1, 1, 1})
	Q2, err := NormalInverse(G, I)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(Q1, Q2, 1e-12))

	// (G^t G) Q = I
	var A, P mat.Dense
	A.Mul(G.T(), G)
	P.Mul(&A, Q1)
	assert.True(t, mat.EqualApprox(&P, I, 1e-12))

	_, err = NormalInverse(G, mat.NewDiagDense(3, []float64{1, 1, 1}))
	assert.Error(t, err)

	_, err = NormalInverse(mat.NewDense(4, 4, nil), nil)
	assert.Error(t, err, "singular")
}

func TestInvMatrixFromAzEl(t *testing.T) {
	pos := NewPosLLH(ToRad(35.68), ToRad(139.77), 40).ToXYZ()
	cm, ok := pos.ConvMatrix()
	require.True(t, ok)

	inv, err := InvMatrixFromAzEl(&pos, testAzEl)
	require.NoError(t, err)
	dop := CalcDop(&inv, &cm)
	require.True(t, dop.IsValid())

	// DOP computed directly in the local frame
	H := mat.NewDense(len(testAzEl), 4, nil)
	for i, ae := range testAzEl {
		az, el := ae[0], ae[1]
		H.SetRow(i, []float64{-math.Cos(el) * math.Sin(az), -math.Cos(el) * math.Cos(az), -math.Sin(el), 1})
	}
	Q, err := NormalInverse(H, nil)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(Q.At(0, 0)+Q.At(1, 1)), dop[HDOP], 1e-9)
	assert.InDelta(t, math.Sqrt(Q.At(2, 2)), dop[VDOP], 1e-9)
	assert.InDelta(t, math.Sqrt(Q.At(0, 0)+Q.At(1, 1)+Q.At(2, 2)), dop[PDOP], 1e-9)
	assert.InDelta(t, math.Sqrt(Q.At(3, 3)), dop[TDOP], 1e-9)
	assert.Less(t, dop[PDOP], 10.0)
}

func TestInvMatrixFromAzEl_Errors(t *testing.T) {
	pos := NewPosLLH(ToRad(35.68), ToRad(139.77), 40).ToXYZ()

	_, err := InvMatrixFromAzEl(&pos, testAzEl[:3])
	assert.Error(t, err, "too few satellites")

	origin := NewPosXYZ(0, 0, 0)
	_, err = InvMatrixFromAzEl(origin, testAzEl)
	assert.Error(t, err, "no local frame")

	same := [][2]float64{testAzEl[0], testAzEl[0], testAzEl[0], testAzEl[0]}
	_, err = InvMatrixFromAzEl(&pos, same)
	assert.Error(t, err, "singular geometry")
}
