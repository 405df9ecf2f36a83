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

func TestCalcDop_Invalid(t *testing.T) {
	pos := NewPosLLH(ToRad(35), ToRad(139), 0).ToXYZ()
	cm, ok := pos.ConvMatrix()
	require.True(t, ok)

	var zero [10]float64
	neg := [10]float64{1, 0, 1, 0, 0, 1, 0, 0, 0, -1}
	indefinite := [10]float64{1, 0, 1, 0, 0, -5, 0, 0, 0, 1} // north and up variances come out negative

	assert.Equal(t, InvalidDop(), CalcDop(nil, &cm))
	assert.Equal(t, InvalidDop(), CalcDop(&zero, &cm))
	assert.Equal(t, InvalidDop(), CalcDop(&neg, &cm))
	assert.Equal(t, InvalidDop(), CalcDop(&neg, nil))
	assert.Equal(t, InvalidDop(), CalcDop(&indefinite, &cm))
	assert.False(t, InvalidDop().IsValid())
}

func TestCalcDop_Identity(t *testing.T) {
	// Unit covariance is the same in any rotated frame
	identity := [10]float64{1, 0, 1, 0, 0, 1, 0, 0, 0, 4}
	for _, lat := range []float64{-90, -35, 0, 45, 90} {
		pos := NewPosLLH(ToRad(lat), ToRad(139), 0).ToXYZ()
		cm, ok := pos.ConvMatrix()
		require.True(t, ok)

		dop := CalcDop(&identity, &cm)
		assert.True(t, dop.IsValid())
		assert.InDelta(t, math.Sqrt2, dop[HDOP], 1e-12)
		assert.InDelta(t, 1.0, dop[VDOP], 1e-12)
		assert.InDelta(t, math.Sqrt(3), dop[PDOP], 1e-12)
		assert.InDelta(t, 2.0, dop[TDOP], 1e-12)
	}
}

func TestCalcDop_Equator(t *testing.T) {
	// At (A, 0, 0) east is y, north is z and up is x
	cm, ok := NewPosXYZ(WGS_AXIS_A, 0, 0).ConvMatrix()
	require.True(t, ok)

	inv := [10]float64{9, 0.5, 4, 0.2, 0.3, 1, 0, 0, 0, 1}
	dop := CalcDop(&inv, &cm)
	assert.InDelta(t, math.Sqrt(4+1), dop[HDOP], 1e-12)
	assert.InDelta(t, 3.0, dop[VDOP], 1e-12)
	assert.InDelta(t, math.Sqrt(14), dop[PDOP], 1e-12)
	assert.Equal(t, "hdop=2.24 vdop=3.00 pdop=3.74 tdop=1.00", dop.String())
}

func TestPackInvMatrix(t *testing.T) {
	cov := mat.NewSymDense(4, []float64{
		11, 12, 13, 14,
		12, 22, 23, 24,
		13, 23, 33, 34,
		14, 24, 34, 44,
	})
	inv, err := PackInvMatrix(cov)
	require.NoError(t, err)
	assert.Equal(t, [10]float64{11, 12, 22, 13, 23, 33, 14, 24, 34, 44}, inv)

	_, err = PackInvMatrix(mat.NewDense(3, 3, nil))
	assert.Error(t, err)
}
