package variant

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// encMode keeps nanosecond timestamps so Time values survive a round trip.
var encMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create variant CBOR encoder mode: %v", err))
	}
}

// wireVariant is the CBOR shape of a Variant:
//
//	{1: kind, 2: isArray, 3: value}
type wireVariant struct {
	Kind  Kind            `cbor:"1,keyasint"`
	Array bool            `cbor:"2,keyasint,omitempty"`
	Value cbor.RawMessage `cbor:"3,keyasint,omitempty"`
}

// MarshalCBOR implements cbor.Marshaler.
func (v Variant) MarshalCBOR() ([]byte, error) {
	w := wireVariant{Kind: v.Kind()}
	if v.p != nil {
		raw, err := encMode.Marshal(v.p.value())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s value: %w", v.describe(), err)
		}
		w.Array = v.p.isArray()
		w.Value = raw
	}
	return encMode.Marshal(w)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *Variant) UnmarshalCBOR(data []byte) error {
	var w wireVariant
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode variant: %w", err)
	}
	if w.Kind == KindInvalid {
		*v = Variant{}
		return nil
	}

	decode, ok := decoders[w.Kind]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int8(w.Kind))
	}
	decoded, err := decode(w.Value, w.Array)
	if err != nil {
		return fmt.Errorf("failed to decode %s value: %w", describe(w.Kind, w.Array), err)
	}
	*v = decoded
	return nil
}

var decoders = map[Kind]func(raw []byte, isArray bool) (Variant, error){
	KindBool:     decodeAs[bool],
	KindString:   decodeAs[string],
	KindInt8:     decodeAs[int8],
	KindUInt8:    decodeAs[uint8],
	KindInt16:    decodeAs[int16],
	KindUInt16:   decodeAs[uint16],
	KindInt32:    decodeAs[int32],
	KindUInt32:   decodeAs[uint32],
	KindInt64:    decodeAs[int64],
	KindUInt64:   decodeAs[uint64],
	KindFloat:    decodeAs[float32],
	KindDouble:   decodeAs[float64],
	KindBytes:    decodeAs[[]byte],
	KindRational: decodeAs[Rational],
	KindPoint:    decodeAs[Point],
	KindRect:     decodeAs[Rect],
	KindTime:     decodeAs[time.Time],
}

func decodeAs[T Value](raw []byte, isArray bool) (Variant, error) {
	if isArray {
		var xs []T
		if err := cbor.Unmarshal(raw, &xs); err != nil {
			return Variant{}, err
		}
		return OfArray(xs), nil
	}
	var x T
	if err := cbor.Unmarshal(raw, &x); err != nil {
		return Variant{}, err
	}
	return Of(x), nil
}
