package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// traceEncMode is the CBOR encoder mode for the on-disk trace log: canonical
// key ordering keeps diffs between two runs of the same scenario meaningful,
// and nanosecond timestamps preserve event ordering across the three
// goroutines that write to it.
var traceEncMode cbor.EncMode

// traceDecMode is the matching decoder mode, used by pkg/log's trace file
// reader and by tests that replay a captured .mlog file.
var traceDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: building trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	traceDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: building trace CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes a single trace Event to its on-disk CBOR
// representation, using the integer-keyed field tags declared in event.go.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes one CBOR-encoded trace Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a streaming trace encoder writing to w, used by
// FileLogger to append one Event per Log call.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder returns a streaming trace decoder reading from r, used by
// pkg/log's trace file reader to replay a captured .mlog file event by
// event.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
