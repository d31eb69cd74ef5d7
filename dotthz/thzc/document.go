package thzc

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// The container body is one CBOR document.  Groups, attributes and
// datasets are arrays, not maps, so creation order survives the round
// trip.

type document struct {
	Groups []groupDoc `cbor:"groups"`
}

type groupDoc struct {
	Name     string       `cbor:"name"`
	Attrs    []attrDoc    `cbor:"attrs"`
	Datasets []datasetDoc `cbor:"datasets"`
}

// Attribute payload kinds.
const (
	kindText    = 1 // scalar text
	kindNumeric = 2 // float32 scalar
	kindList    = 3 // multi-entry text
)

type attrDoc struct {
	Name string   `cbor:"name"`
	Kind uint8    `cbor:"kind"`
	Text string   `cbor:"text,omitempty"`
	Num  float32  `cbor:"num,omitempty"`
	List []string `cbor:"list,omitempty"`
}

type datasetDoc struct {
	Name  string    `cbor:"name"`
	Shape []int64   `cbor:"shape"`
	Data  []float32 `cbor:"data"`
}

func newAttrDoc(name string, val any) (attrDoc, error) {
	switch v := val.(type) {
	case string:
		return attrDoc{Name: name, Kind: kindText, Text: v}, nil
	case float32:
		return attrDoc{Name: name, Kind: kindNumeric, Num: v}, nil
	case []string:
		return attrDoc{Name: name, Kind: kindList, List: v}, nil
	}
	return attrDoc{}, fmt.Errorf("%w: %T", ErrBadPayload, val)
}

func (ad *attrDoc) value() (any, error) {
	switch ad.Kind {
	case kindText:
		return ad.Text, nil
	case kindNumeric:
		return ad.Num, nil
	case kindList:
		// omitempty drops the empty list; an empty multi-entry
		// attribute decodes back as such.
		if ad.List == nil {
			return []string{}, nil
		}
		return ad.List, nil
	}
	return nil, fmt.Errorf("%w: kind %d", ErrBadPayload, ad.Kind)
}

// encMode encodes with deterministic map/field ordering but leaves floats
// untouched: dataset payloads must round-trip bit for bit, so values are
// never narrowed and NaN payloads are preserved.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encOptions := cbor.CoreDetEncOptions()
	encOptions.ShortestFloat = cbor.ShortestFloatNone
	encOptions.NaNConvert = cbor.NaNConvertNone
	encOptions.InfConvert = cbor.InfConvertNone
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("thzc: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("thzc: CBOR decoder initialization failed: " + err.Error())
	}
}
