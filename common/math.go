package common

import (
	"math"
	"unsafe"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Float32ToFloat16 converts a float32 value to its IEEE 754 half-precision bit
// representation. Values outside the representable range saturate to infinity,
// and subnormal results flush toward zero through the standard rounding path.
//
// Parameters:
//   - f: the float32 value to convert
//
// Returns:
//   - uint16: the half-precision bit pattern
func Float32ToFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23&0xff) - 127 + 15
	mant := bits & 0x7fffff

	if exp >= 0x1f {
		// Overflow or already inf/NaN.
		if int32(bits>>23&0xff) == 0xff && mant != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // Inf
	}
	if exp <= 0 {
		if exp < -10 {
			return sign // underflow to signed zero
		}
		// Subnormal half: shift the implicit leading bit into the mantissa.
		mant = (mant | 0x800000) >> uint32(1-exp)
		if mant&0x1000 != 0 {
			mant += 0x2000 // round to nearest
		}
		return sign | uint16(mant>>13)
	}

	h := sign | uint16(exp)<<10 | uint16(mant>>13)
	if mant&0x1000 != 0 {
		h++ // round to nearest; carry may bump the exponent, which is correct
	}
	return h
}

// Float16ToFloat32 converts an IEEE 754 half-precision bit pattern to float32.
//
// Parameters:
//   - h: the half-precision bit pattern
//
// Returns:
//   - float32: the converted value
func Float16ToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h >> 10 & 0x1f)
	mant := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half: normalize.
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		mant &= 0x3ff
		exp++
	case 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	}
	return math.Float32frombits(sign | (exp-15+127)<<23 | mant<<13)
}

// Float32ToFloat16Slice converts a slice of float32 values to their
// half-precision bit representations, suitable for RGBA16Float texture uploads.
//
// Parameters:
//   - src: the float32 values to convert
//
// Returns:
//   - []uint16: the converted half-precision values
func Float32ToFloat16Slice(src []float32) []uint16 {
	out := make([]uint16, len(src))
	for i, f := range src {
		out[i] = Float32ToFloat16(f)
	}
	return out
}
