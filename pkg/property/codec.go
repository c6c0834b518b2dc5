package property

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

type fixedInt interface {
	uint8 | uint16 | uint32 | int8 | int16 | int32
}

// Fixed width little-endian integer codecs.
var (
	UInt8Codec  = Codec{Decode: decodeFixed[uint8], Encode: encodeFixed[uint8]}
	UInt16Codec = Codec{Decode: decodeFixed[uint16], Encode: encodeFixed[uint16]}
	UInt32Codec = Codec{Decode: decodeFixed[uint32], Encode: encodeFixed[uint32]}
	Int8Codec   = Codec{Decode: decodeFixed[int8], Encode: encodeFixed[int8]}
	Int16Codec  = Codec{Decode: decodeFixed[int16], Encode: encodeFixed[int16]}
	Int32Codec  = Codec{Decode: decodeFixed[int32], Encode: encodeFixed[int32]}
)

// StringCodec handles NUL terminated strings.
var StringCodec = Codec{
	Decode: func(raw []byte) (variant.Variant, error) {
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		return variant.Of(string(raw)), nil
	},
	Encode: func(v variant.Variant) ([]byte, error) {
		s, err := variant.Get[string](v)
		if err != nil {
			return nil, err
		}
		return append([]byte(s), 0), nil
	},
}

// BytesCodec passes raw bytes through as a Bytes value.
var BytesCodec = Codec{
	Decode: func(raw []byte) (variant.Variant, error) {
		return variant.Of(bytes.Clone(raw)), nil
	},
	Encode: func(v variant.Variant) ([]byte, error) {
		return variant.Get[[]byte](v)
	},
}

// RawCodec applies the length heuristic used for properties absent from
// the table.
var RawCodec = Codec{Decode: decodeRaw, Encode: EncodeRaw}

// DecodeRaw decodes bytes of unknown shape: 1, 2 and 4 bytes become
// UInt8, UInt16 and UInt32, anything else a UInt8 array.
func DecodeRaw(raw []byte) variant.Variant {
	switch len(raw) {
	case 1:
		return variant.Of(raw[0])
	case 2:
		return variant.Of(binary.LittleEndian.Uint16(raw))
	case 4:
		return variant.Of(binary.LittleEndian.Uint32(raw))
	default:
		return variant.OfArray(raw)
	}
}

func decodeRaw(raw []byte) (variant.Variant, error) {
	return DecodeRaw(raw), nil
}

// EncodeRaw is the inverse of DecodeRaw.
func EncodeRaw(v variant.Variant) ([]byte, error) {
	if v.IsArray() {
		if xs, err := variant.GetArray[uint8](v); err == nil {
			return bytes.Clone(xs), nil
		}
		return nil, fmt.Errorf("%w: no raw encoding for %s array", ErrUnknownProperty, v.Kind())
	}

	switch v.Kind() {
	case variant.KindUInt8:
		return encodeFixed[uint8](v)
	case variant.KindUInt16:
		return encodeFixed[uint16](v)
	case variant.KindUInt32:
		return encodeFixed[uint32](v)
	case variant.KindBytes:
		return BytesCodec.Encode(v)
	default:
		return nil, fmt.Errorf("%w: no raw encoding for %s", ErrUnknownProperty, v.Kind())
	}
}

func decodeFixed[T fixedInt](raw []byte) (variant.Variant, error) {
	var x T
	size := binary.Size(x)
	if len(raw) < size {
		return variant.Invalid(), fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidData, len(raw), size)
	}
	if _, err := binary.Decode(raw[:size], binary.LittleEndian, &x); err != nil {
		return variant.Invalid(), fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return variant.Of(x), nil
}

func encodeFixed[T fixedInt](v variant.Variant) ([]byte, error) {
	x, err := variant.Get[T](v)
	if err != nil {
		return nil, err
	}
	return binary.Append(nil, binary.LittleEndian, x)
}
