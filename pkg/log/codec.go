package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// An event log is a bare sequence of CBOR items, one Event each. There is
// no header or index, so a log cut off mid-write still reads up to its
// last complete event and logs can be concatenated.
var encMode, decMode = eventModes()

func eventModes() (cbor.EncMode, cbor.DecMode) {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: event encoder mode: %v", err))
	}

	dec, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: event decoder mode: %v", err))
	}
	return enc, dec
}

// EncodeEvent encodes one event.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes one encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

func newEncoder(w io.Writer) *cbor.Encoder { return encMode.NewEncoder(w) }

func newDecoder(r io.Reader) *cbor.Decoder { return decMode.NewDecoder(r) }
