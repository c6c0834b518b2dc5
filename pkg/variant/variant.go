package variant

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Variant errors.
var (
	// ErrTypeMismatch indicates a read with a Go type or shape that does
	// not match the stored kind.
	ErrTypeMismatch = errors.New("variant type mismatch")

	// ErrNotComparable indicates an equality check on array values.
	ErrNotComparable = errors.New("variant arrays are not comparable")

	// ErrUnknownKind indicates a kind code outside the supported set.
	ErrUnknownKind = errors.New("unknown variant kind")
)

// Kind identifies the primitive type stored in a Variant.
type Kind int8

const (
	KindInvalid  Kind = -1
	KindBool     Kind = 1
	KindString   Kind = 2
	KindInt8     Kind = 3
	KindInt16    Kind = 4
	KindUInt8    Kind = 6
	KindUInt16   Kind = 7
	KindInt32    Kind = 8
	KindUInt32   Kind = 9
	KindInt64    Kind = 10
	KindUInt64   Kind = 11
	KindFloat    Kind = 12
	KindDouble   Kind = 13
	KindBytes    Kind = 14
	KindRational Kind = 20
	KindPoint    Kind = 21
	KindRect     Kind = 22
	KindTime     Kind = 23
)

var kindNames = map[Kind]string{
	KindInvalid:  "Invalid",
	KindBool:     "Bool",
	KindString:   "String",
	KindInt8:     "Int8",
	KindInt16:    "Int16",
	KindUInt8:    "UInt8",
	KindUInt16:   "UInt16",
	KindInt32:    "Int32",
	KindUInt32:   "UInt32",
	KindInt64:    "Int64",
	KindUInt64:   "UInt64",
	KindFloat:    "Float",
	KindDouble:   "Double",
	KindBytes:    "ByteBlock",
	KindRational: "Rational",
	KindPoint:    "Point",
	KindRect:     "Rect",
	KindTime:     "Time",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int8(k))
}

// Rational is a fraction of two signed integers.
type Rational struct {
	_   struct{} `cbor:",toarray"`
	Num int32
	Den int32
}

// Point is a 2D coordinate.
type Point struct {
	_ struct{} `cbor:",toarray"`
	X int32
	Y int32
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	_      struct{} `cbor:",toarray"`
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Value lists the Go types a Variant can hold. []byte is the Bytes kind.
type Value interface {
	bool | string |
		int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		float32 | float64 |
		[]byte | Rational | Point | Rect | time.Time
}

// payload is the Scalar | Array sum type behind a Variant.
type payload interface {
	isArray() bool
	value() any
	length() int
}

type scalar[T Value] struct{ v T }

func (scalar[T]) isArray() bool { return false }
func (s scalar[T]) value() any  { return s.v }
func (scalar[T]) length() int   { return 1 }

type array[T Value] struct{ v []T }

func (array[T]) isArray() bool { return true }
func (a array[T]) value() any  { return a.v }
func (a array[T]) length() int { return len(a.v) }

// Variant is an immutable tagged value. The zero value is Invalid.
type Variant struct {
	kind Kind
	p    payload
}

// Invalid returns a Variant of kind Invalid.
func Invalid() Variant {
	return Variant{}
}

// Of returns a scalar Variant holding x.
func Of[T Value](x T) Variant {
	return Variant{kind: kindOf[T](), p: scalar[T]{v: cloneValue(x)}}
}

// OfArray returns an array Variant holding a copy of xs.
func OfArray[T Value](xs []T) Variant {
	return Variant{kind: kindOf[T](), p: array[T]{v: slices.Clone(xs)}}
}

// Set stores the scalar x in v.
func Set[T Value](v *Variant, x T) {
	*v = Of(x)
}

// SetArray stores a copy of xs in v.
func SetArray[T Value](v *Variant, xs []T) {
	*v = OfArray(xs)
}

// Get returns the scalar stored in v.
// It fails with ErrTypeMismatch if v does not hold a scalar of type T.
func Get[T Value](v Variant) (T, error) {
	s, ok := v.p.(scalar[T])
	if !ok {
		var zero T
		return zero, mismatch(v, kindOf[T](), false)
	}
	return cloneValue(s.v), nil
}

// GetArray returns a copy of the array stored in v.
// It fails with ErrTypeMismatch if v does not hold an array of type T.
func GetArray[T Value](v Variant) ([]T, error) {
	a, ok := v.p.(array[T])
	if !ok {
		return nil, mismatch(v, kindOf[T](), true)
	}
	return slices.Clone(a.v), nil
}

// Kind returns the stored kind.
func (v Variant) Kind() Kind {
	if v.p == nil {
		return KindInvalid
	}
	return v.kind
}

// IsArray reports whether v holds an array.
func (v Variant) IsArray() bool {
	return v.p != nil && v.p.isArray()
}

// IsValid reports whether v holds a value.
func (v Variant) IsValid() bool {
	return v.p != nil
}

// Len returns the number of array elements, 1 for scalars and 0 for Invalid.
func (v Variant) Len() int {
	if v.p == nil {
		return 0
	}
	return v.p.length()
}

// Interface returns the stored Go value (a scalar or a slice), nil for Invalid.
func (v Variant) Interface() any {
	if v.p == nil {
		return nil
	}
	return v.p.value()
}

// Equal reports whether v and o hold the same kind and scalar value.
// Arrays are not comparable.
func (v Variant) Equal(o Variant) (bool, error) {
	if v.IsArray() || o.IsArray() {
		return false, ErrNotComparable
	}
	if v.p == nil || o.p == nil {
		return v.p == nil && o.p == nil, nil
	}
	if v.kind != o.kind {
		return false, nil
	}

	a, b := v.p.value(), o.p.value()
	switch x := a.(type) {
	case []byte:
		return bytes.Equal(x, b.([]byte)), nil
	case time.Time:
		return x.Equal(b.(time.Time)), nil
	default:
		return a == b, nil
	}
}

// Uint32 returns the value widened to uint32.
// UInt8, UInt16, UInt32 and Int32 scalars are accepted; Invalid yields 0.
func (v Variant) Uint32() (uint32, error) {
	if v.p == nil {
		return 0, nil
	}
	if !v.p.isArray() {
		switch x := v.p.value().(type) {
		case uint8:
			return uint32(x), nil
		case uint16:
			return uint32(x), nil
		case uint32:
			return x, nil
		case int32:
			return uint32(x), nil
		}
	}
	return 0, fmt.Errorf("%w: have %s, want unsigned integer", ErrTypeMismatch, v.describe())
}

// FromUint returns a scalar of an integer kind holding x truncated to the
// kind's width.
func FromUint(kind Kind, x uint64) (Variant, error) {
	switch kind {
	case KindUInt8:
		return Of(uint8(x)), nil
	case KindUInt16:
		return Of(uint16(x)), nil
	case KindUInt32:
		return Of(uint32(x)), nil
	case KindUInt64:
		return Of(x), nil
	case KindInt8:
		return Of(int8(x)), nil
	case KindInt16:
		return Of(int16(x)), nil
	case KindInt32:
		return Of(int32(x)), nil
	case KindInt64:
		return Of(int64(x)), nil
	default:
		return Variant{}, fmt.Errorf("%w: %s is not an integer kind", ErrTypeMismatch, kind)
	}
}

func (v Variant) describe() string {
	return describe(v.Kind(), v.IsArray())
}

func describe(k Kind, isArray bool) string {
	if isArray {
		return k.String() + " array"
	}
	return k.String()
}

func mismatch(v Variant, want Kind, wantArray bool) error {
	return fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, v.describe(), describe(want, wantArray))
}

func kindOf[T Value]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return KindBool
	case string:
		return KindString
	case int8:
		return KindInt8
	case uint8:
		return KindUInt8
	case int16:
		return KindInt16
	case uint16:
		return KindUInt16
	case int32:
		return KindInt32
	case uint32:
		return KindUInt32
	case int64:
		return KindInt64
	case uint64:
		return KindUInt64
	case float32:
		return KindFloat
	case float64:
		return KindDouble
	case []byte:
		return KindBytes
	case Rational:
		return KindRational
	case Point:
		return KindPoint
	case Rect:
		return KindRect
	case time.Time:
		return KindTime
	}
	return KindInvalid
}

// cloneValue copies byte blocks so callers never share payload memory.
func cloneValue[T Value](x T) T {
	if b, ok := any(x).([]byte); ok {
		return any(bytes.Clone(b)).(T)
	}
	return x
}
