// Package variant implements the tagged value type used for all camera
// property values.
//
// # Kinds
//
// A Variant carries one of a fixed set of primitive kinds (Bool, String,
// signed and unsigned integers of 8 to 64 bits, Float, Double, Bytes,
// Rational, Point, Rect, Time) or is Invalid. The zero Variant is Invalid.
//
// # Scalars and Arrays
//
// The payload is either a scalar or an array of the kind's Go type. The
// shape is part of the payload itself, so a Variant can never claim to
// hold an array while storing a scalar:
//
//	v := variant.Of(uint16(0x48))          // UInt16 scalar
//	a := variant.OfArray([]int32{1, 2, 3}) // Int32 array
//
// Reading back requires the exact Go type and shape:
//
//	iso, err := variant.Get[uint16](v)        // ok
//	_, err = variant.Get[uint32](v)           // ErrTypeMismatch
//	_, err = variant.GetArray[uint16](v)      // ErrTypeMismatch
//
// The only numeric widening is Variant.Uint32, which accepts UInt8,
// UInt16, UInt32 and Int32 values.
//
// # Comparison
//
// Equal compares scalar values of the same kind. Arrays are not
// comparable and report ErrNotComparable.
//
// # Encoding
//
// Variant implements cbor.Marshaler and cbor.Unmarshaler so values can be
// carried in bridge messages and event logs.
package variant
