/*
Package types implements type descriptors for the Go subset.

Types are structural values of a closed set of variants. Two types are
identical if their variants and their components are identical. Besides
identity, the package provides the compatibility rules used by the semantic
analyzer: the numeric family, assignability and the conversion table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package types

import (
	"fmt"
	"strings"
)

// Type is a type descriptor. The set of implementations is closed.
type Type interface {
	String() string
	aType()
}

// Primitive is a predeclared type, e.g. int or string.
type Primitive struct {
	Name string
}

// Pointer is a pointer type *Elem.
type Pointer struct {
	Elem Type
}

// Slice is a slice type []Elem.
type Slice struct {
	Elem Type
}

// Array is a fixed-size array type [Len]Elem.
type Array struct {
	Len  int64
	Elem Type
}

// Map is a map type map[Key]Value.
type Map struct {
	Key   Type
	Value Type
}

// Func is a function signature. Result is Void, a single type or a Multiple.
type Func struct {
	Params   []Type
	Result   Type
	Variadic bool // last parameter is ...T, represented as []T
}

// Multiple is the result type of functions returning more than one value.
type Multiple struct {
	Types []Type
}

type unknown struct{}
type void struct{}

func (Primitive) aType() {}
func (Pointer) aType()   {}
func (Slice) aType()     {}
func (Array) aType()     {}
func (Map) aType()       {}
func (Func) aType()      {}
func (Multiple) aType()  {}
func (unknown) aType()   {}
func (void) aType()      {}

// Predeclared types.
var (
	Unknown Type = unknown{} // type of erroneous or unresolvable expressions
	Void    Type = void{}    // result of functions without results

	Bool    = Primitive{"bool"}
	Int     = Primitive{"int"}
	Float64 = Primitive{"float64"}
	String  = Primitive{"string"}
	Rune    = Primitive{"rune"}
	Byte    = Primitive{"byte"}
	Nil     = Primitive{"nil"} // type of the predeclared nil
)

var primitives = map[string]Primitive{}

func init() {
	for _, name := range []string{
		"bool", "string", "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "rune", "byte", "error",
	} {
		primitives[name] = Primitive{name}
	}
}

// Predeclared returns the predeclared type with the given name.
func Predeclared(name string) (Primitive, bool) {
	p, ok := primitives[name]
	return p, ok
}

func (t Primitive) String() string { return t.Name }
func (t Pointer) String() string   { return "*" + t.Elem.String() }
func (t Slice) String() string     { return "[]" + t.Elem.String() }
func (t Array) String() string     { return fmt.Sprintf("[%d]%s", t.Len, t.Elem) }
func (t Map) String() string       { return fmt.Sprintf("map[%s]%s", t.Key, t.Value) }
func (unknown) String() string     { return "unknown" }
func (void) String() string        { return "void" }

func (t Multiple) String() string {
	return "(" + typeList(t.Types) + ")"
}

func (t Func) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
		if t.Variadic && i == len(t.Params)-1 {
			if s, ok := p.(Slice); ok {
				params[i] = "..." + s.Elem.String()
			}
		}
	}
	sig := "func(" + strings.Join(params, ", ") + ")"
	if t.Result != nil && t.Result != Void {
		sig += " " + t.Result.String()
	}
	return sig
}

func typeList(ts []Type) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = t.String()
	}
	return strings.Join(s, ", ")
}

// --- Identity --------------------------------------------------------------

// canonical resolves the aliases byte and rune.
func canonical(t Type) Type {
	if p, ok := t.(Primitive); ok {
		switch p.Name {
		case "byte":
			return Primitive{"uint8"}
		case "rune":
			return Primitive{"int32"}
		}
	}
	return t
}

// Identical reports whether x and y are the same type.
func Identical(x, y Type) bool {
	x, y = canonical(x), canonical(y)
	switch x := x.(type) {
	case Primitive:
		y, ok := y.(Primitive)
		return ok && x.Name == y.Name
	case Pointer:
		y, ok := y.(Pointer)
		return ok && Identical(x.Elem, y.Elem)
	case Slice:
		y, ok := y.(Slice)
		return ok && Identical(x.Elem, y.Elem)
	case Array:
		y, ok := y.(Array)
		return ok && x.Len == y.Len && Identical(x.Elem, y.Elem)
	case Map:
		y, ok := y.(Map)
		return ok && Identical(x.Key, y.Key) && Identical(x.Value, y.Value)
	case Func:
		y, ok := y.(Func)
		return ok && x.Variadic == y.Variadic && identicalLists(x.Params, y.Params) &&
			Identical(result(x.Result), result(y.Result))
	case Multiple:
		y, ok := y.(Multiple)
		return ok && identicalLists(x.Types, y.Types)
	}
	return x == y // Unknown, Void
}

func result(t Type) Type {
	if t == nil {
		return Void
	}
	return t
}

func identicalLists(xs, ys []Type) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Identical(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// --- Predicates ------------------------------------------------------------

// IsUnknown is true for the Unknown type.
func IsUnknown(t Type) bool {
	return t == Unknown
}

// IsInteger is true for the integer types, including rune and byte.
func IsInteger(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	switch p.Name {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"rune", "byte":
		return true
	}
	return false
}

// IsFloat is true for float32 and float64.
func IsFloat(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p.Name == "float32" || p.Name == "float64")
}

// IsNumeric is true for the numeric family: integer and floating point types.
func IsNumeric(t Type) bool {
	return IsInteger(t) || IsFloat(t)
}

// IsBool is true for bool.
func IsBool(t Type) bool {
	return Identical(t, Bool)
}

// IsString is true for string.
func IsString(t Type) bool {
	return Identical(t, String)
}

// IsNil is true for the type of nil.
func IsNil(t Type) bool {
	return Identical(t, Nil)
}

// Nillable is true for types which have nil as a value.
func Nillable(t Type) bool {
	switch t.(type) {
	case Pointer, Slice, Map, Func:
		return true
	}
	return false
}

// --- Compatibility ---------------------------------------------------------

// AssignableTo reports whether a value of type v may be assigned to a variable
// of type t. Unknown types are compatible with everything, to avoid follow-up
// errors.
func AssignableTo(v, t Type) bool {
	if IsUnknown(v) || IsUnknown(t) {
		return true
	}
	if Identical(v, t) {
		return true
	}
	if IsNumeric(v) && IsNumeric(t) {
		return true
	}
	return IsNil(v) && Nillable(t)
}

// Comparable reports whether values of types x and y may be compared with
// == or !=.
func Comparable(x, y Type) bool {
	if IsUnknown(x) || IsUnknown(y) {
		return true
	}
	if Identical(x, y) || (IsNumeric(x) && IsNumeric(y)) {
		return true
	}
	return (IsNil(x) && Nillable(y)) || (IsNil(y) && Nillable(x))
}

// Convertible reports whether an explicit conversion T(x) from type from to
// type to is allowed. truncates is set for conversions from floating point to
// integer types.
func Convertible(from, to Type) (ok bool, truncates bool) {
	if IsUnknown(from) || IsUnknown(to) {
		return true, false
	}
	switch {
	case IsNumeric(from) && IsNumeric(to):
		return true, IsFloat(from) && IsInteger(to)
	case IsString(to):
		return IsString(from) || isRuneOrByte(from) || isByteOrRuneSlice(from), false
	case IsString(from):
		return isRuneOrByte(to) || isByteOrRuneSlice(to), false
	case IsBool(from) || IsBool(to):
		return IsBool(from) && IsBool(to), false
	}
	return Identical(from, to), false
}

func isRuneOrByte(t Type) bool {
	return Identical(t, Rune) || Identical(t, Byte)
}

func isByteOrRuneSlice(t Type) bool {
	s, ok := t.(Slice)
	return ok && isRuneOrByte(s.Elem)
}

// Elem returns the element type of pointer, slice and array types, or Unknown.
func Elem(t Type) Type {
	switch t := t.(type) {
	case Pointer:
		return t.Elem
	case Slice:
		return t.Elem
	case Array:
		return t.Elem
	}
	return Unknown
}
