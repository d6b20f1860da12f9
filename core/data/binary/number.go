// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binary

import "math"

// SpecialExponent is the exponent value reserved for infinities and NaNs.
// It lies outside the range returned by math.Frexp for finite values.
const SpecialExponent = int16(math.MaxInt16)

const signBit = uint32(1) << 31

// SplitNumber breaks v into the three fields of the number encoding.
//
// For finite values, one holds the top 32 bits of the significand returned by
// math.Frexp, the low 31 bits of two hold the remaining significand bits and
// the top bit of two holds the sign. exp is the binary exponent.
// Infinities and NaNs use SpecialExponent with the raw IEEE-754 bits split
// across one (high word) and two (low word), so their payloads survive.
func SplitNumber(v float64) (one, two uint32, exp int16) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		bits := math.Float64bits(v)
		return uint32(bits >> 32), uint32(bits), SpecialExponent
	}
	frac, e := math.Frexp(math.Abs(v))
	hi := math.Ldexp(frac, 32)
	one = uint32(hi)
	two = uint32(math.Ldexp(hi-float64(one), 31))
	if math.Signbit(v) {
		two |= signBit
	}
	return one, two, int16(e)
}

// JoinNumber is the inverse of SplitNumber.
func JoinNumber(one, two uint32, exp int16) float64 {
	if exp == SpecialExponent {
		return math.Float64frombits(uint64(one)<<32 | uint64(two))
	}
	frac := float64(one) + math.Ldexp(float64(two&^signBit), -31)
	v := math.Ldexp(frac, int(exp)-32)
	if two&signBit != 0 {
		v = math.Copysign(v, -1)
	}
	return v
}

// WriteNumber writes v to w as two 32 bit words and a 16 bit exponent.
func WriteNumber(w Writer, v float64) {
	one, two, exp := SplitNumber(v)
	w.Uint32(one)
	w.Uint32(two)
	w.Int16(exp)
}

// ReadNumber reads a number written by WriteNumber from r.
func ReadNumber(r Reader) float64 {
	one := r.Uint32()
	two := r.Uint32()
	exp := r.Int16()
	return JoinNumber(one, two, exp)
}
