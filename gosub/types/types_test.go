package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentical(t *testing.T) {
	i32, _ := Predeclared("int32")
	u8, _ := Predeclared("uint8")
	tests := []struct {
		x, y  Type
		equal bool
	}{
		{Int, Int, true},
		{Int, Float64, false},
		{Rune, i32, true},
		{Byte, u8, true},
		{Slice{Int}, Slice{Int}, true},
		{Slice{Int}, Array{3, Int}, false},
		{Array{3, Int}, Array{4, Int}, false},
		{Map{String, Slice{Int}}, Map{String, Slice{Int}}, true},
		{Pointer{Int}, Pointer{String}, false},
		{Func{Params: []Type{Int}, Result: Void}, Func{Params: []Type{Int}}, true},
		{Func{Params: []Type{Int}, Result: Bool}, Func{Params: []Type{Int}, Result: Int}, false},
		{Multiple{[]Type{Int, Bool}}, Multiple{[]Type{Int, Bool}}, true},
		{Unknown, Unknown, true},
		{Unknown, Void, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.equal, Identical(tc.x, tc.y), "Identical(%s, %s)", tc.x, tc.y)
	}
}

func TestAssignability(t *testing.T) {
	f32, _ := Predeclared("float32")
	assert.True(t, AssignableTo(Int, Float64), "numeric family is interchangeable")
	assert.True(t, AssignableTo(f32, Int))
	assert.False(t, AssignableTo(String, Int))
	assert.False(t, AssignableTo(Bool, Int))
	assert.True(t, AssignableTo(Nil, Slice{Int}))
	assert.True(t, AssignableTo(Nil, Pointer{Int}))
	assert.False(t, AssignableTo(Nil, Int))
	assert.True(t, AssignableTo(Unknown, String), "unknown types suppress follow-up errors")
	assert.True(t, AssignableTo(Bool, Unknown))
}

func TestComparable(t *testing.T) {
	assert.True(t, Comparable(Int, Float64))
	assert.True(t, Comparable(Map{String, Int}, Nil))
	assert.False(t, Comparable(String, Int))
}

func TestConversionTable(t *testing.T) {
	tests := []struct {
		from, to  Type
		ok, trunc bool
	}{
		{Int, Float64, true, false},
		{Float64, Int, true, true},
		{Float64, Byte, true, true},
		{Int, String, false, false},
		{Rune, String, true, false},
		{Byte, String, true, false},
		{String, Rune, true, false},
		{Slice{Byte}, String, true, false},
		{String, Slice{Rune}, true, false},
		{String, Slice{Int}, false, false},
		{Bool, Bool, true, false},
		{Bool, Int, false, false},
		{Int, Bool, false, false},
		{Slice{Int}, Slice{Int}, true, false},
		{Unknown, Int, true, false},
	}
	for _, tc := range tests {
		ok, trunc := Convertible(tc.from, tc.to)
		assert.Equal(t, tc.ok, ok, "%s(%s)", tc.to, tc.from)
		assert.Equal(t, tc.trunc, trunc, "truncation of %s(%s)", tc.to, tc.from)
	}
}

func TestStrings(t *testing.T) {
	sig := Func{Params: []Type{String, Slice{Int}}, Result: Multiple{[]Type{Int, Bool}}, Variadic: true}
	assert.Equal(t, "func(string, ...int) (int, bool)", sig.String())
	assert.Equal(t, "map[string][4]*int", Map{String, Array{4, Pointer{Int}}}.String())
	assert.Equal(t, "func()", Func{Result: Void}.String())
}
