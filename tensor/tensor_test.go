// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/backend/cpu"
	"github.com/born-ml/autograd/tensor"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = cpu.New()
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 24, raw.ByteSize())

	before := raw.Version()
	raw.Fill(0)
	assert.Greater(t, raw.Version(), before)
}

func TestParseDataType(t *testing.T) {
	dt, err := tensor.ParseDataType("float16")
	require.NoError(t, err)
	assert.Equal(t, tensor.Float16, dt)

	_, err = tensor.ParseDataType("bfloat16")
	assert.Error(t, err)
}
