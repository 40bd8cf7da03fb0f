package tensor

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType, device Device) *RawTensor {
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return raw
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, dtype DataType, device Device, value float64) *RawTensor {
	raw := Zeros(shape, dtype, device)
	if value == 0 {
		return raw
	}
	data := make([]float64, raw.NumElements())
	for i := range data {
		data[i] = value
	}
	raw.store(data)
	return raw
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) *RawTensor {
	return Full(shape, dtype, device, 1)
}

// Randn creates a tensor with values drawn from a normal distribution (mean=0, std=1).
// Uses the Box-Muller transform; rng makes the draw reproducible.
func Randn(shape Shape, dtype DataType, device Device, rng *rand.Rand) *RawTensor {
	raw := Zeros(shape, dtype, device)
	data := make([]float64, raw.NumElements())
	for i := 0; i < len(data); i += 2 {
		u1 := 1 - rng.Float64() // (0, 1], keeps Log finite
		u2 := rng.Float64()
		r := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = r * math.Cos(2.0*math.Pi*u2)
		if i+1 < len(data) {
			data[i+1] = r * math.Sin(2.0*math.Pi*u2)
		}
	}
	raw.store(data)
	return raw
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
func Rand(shape Shape, dtype DataType, device Device, rng *rand.Rand) *RawTensor {
	raw := Zeros(shape, dtype, device)
	data := make([]float64, raw.NumElements())
	for i := range data {
		data[i] = rng.Float64()
	}
	raw.store(data)
	return raw
}
