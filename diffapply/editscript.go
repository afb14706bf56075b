package diffapply

import (
	"fmt"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/internal/errs"
)

// IndexedValue is one [index, value] pair from an edit-script "u", "i",
// or "p" list.
type IndexedValue struct {
	Index uint64
	Value cborval.Value
}

// EditScript is the parsed form of the wire edit-script map (§6): four
// optional lists keyed "u", "d", "i", "p". Absent keys mean empty.
type EditScript struct {
	Updates  []IndexedValue
	Deletes  []uint64
	Inserts  []IndexedValue
	Prepends []IndexedValue
}

// ParseEditScript decodes a cborval.Value (typically straight off the
// wire) into an EditScript. Values inside it are left exactly as parsed;
// Apply is responsible for running them through TagCodec.Decompress.
func ParseEditScript(v cborval.Value) (EditScript, error) {
	if v.Kind != cborval.KindMap {
		return EditScript{}, fmt.Errorf("%w: edit script must be a map", errs.ErrMalformedEdit)
	}

	var es EditScript
	for _, p := range v.Pairs {
		if p.Key.Kind != cborval.KindText {
			return EditScript{}, fmt.Errorf("%w: edit script keys must be text strings", errs.ErrMalformedEdit)
		}
		switch p.Key.Text {
		case "u":
			ivs, err := parseIndexedValues(p.Val)
			if err != nil {
				return EditScript{}, err
			}
			es.Updates = ivs
		case "d":
			idxs, err := parseIndices(p.Val)
			if err != nil {
				return EditScript{}, err
			}
			es.Deletes = idxs
		case "i":
			ivs, err := parseIndexedValues(p.Val)
			if err != nil {
				return EditScript{}, err
			}
			es.Inserts = ivs
		case "p":
			ivs, err := parseIndexedValues(p.Val)
			if err != nil {
				return EditScript{}, err
			}
			es.Prepends = ivs
		default:
			return EditScript{}, fmt.Errorf("%w: unknown edit script key %q", errs.ErrMalformedEdit, p.Key.Text)
		}
	}
	return es, nil
}

func parseIndexedValues(v cborval.Value) ([]IndexedValue, error) {
	if v.Kind != cborval.KindArray {
		return nil, fmt.Errorf("%w: expected an array of [index, value] pairs", errs.ErrMalformedEdit)
	}
	out := make([]IndexedValue, 0, len(v.Arr))
	for _, e := range v.Arr {
		if e.Kind != cborval.KindArray || len(e.Arr) != 2 {
			return nil, fmt.Errorf("%w: expected a [index, value] pair", errs.ErrMalformedEdit)
		}
		idx, err := asIndex(e.Arr[0])
		if err != nil {
			return nil, err
		}
		out = append(out, IndexedValue{Index: idx, Value: e.Arr[1]})
	}
	return out, nil
}

func parseIndices(v cborval.Value) ([]uint64, error) {
	if v.Kind != cborval.KindArray {
		return nil, fmt.Errorf("%w: expected an array of indices", errs.ErrMalformedEdit)
	}
	out := make([]uint64, 0, len(v.Arr))
	for _, e := range v.Arr {
		idx, err := asIndex(e)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

func asIndex(v cborval.Value) (uint64, error) {
	if v.Kind != cborval.KindUint {
		return 0, fmt.Errorf("%w: index must be a non-negative integer", errs.ErrMalformedEdit)
	}
	return v.Uint, nil
}

// ToValue re-serializes the EditScript to its wire map form, keys in
// canonical u/d/i/p order. Producer's choice whether embedded values
// arrive already tag-compressed; ToValue does not compress them itself.
func (es EditScript) ToValue() cborval.Value {
	var pairs []cborval.Pair
	if len(es.Updates) > 0 {
		pairs = append(pairs, cborval.Pair{Key: cborval.Text("u"), Val: indexedValuesToArray(es.Updates)})
	}
	if len(es.Deletes) > 0 {
		pairs = append(pairs, cborval.Pair{Key: cborval.Text("d"), Val: indicesToArray(es.Deletes)})
	}
	if len(es.Inserts) > 0 {
		pairs = append(pairs, cborval.Pair{Key: cborval.Text("i"), Val: indexedValuesToArray(es.Inserts)})
	}
	if len(es.Prepends) > 0 {
		pairs = append(pairs, cborval.Pair{Key: cborval.Text("p"), Val: indexedValuesToArray(es.Prepends)})
	}
	return cborval.Value{Kind: cborval.KindMap, Pairs: pairs}
}

func indexedValuesToArray(ivs []IndexedValue) cborval.Value {
	arr := make([]cborval.Value, len(ivs))
	for i, iv := range ivs {
		arr[i] = cborval.Array(cborval.Uint(iv.Index), iv.Value)
	}
	return cborval.Value{Kind: cborval.KindArray, Arr: arr}
}

func indicesToArray(idxs []uint64) cborval.Value {
	arr := make([]cborval.Value, len(idxs))
	for i, idx := range idxs {
		arr[i] = cborval.Uint(idx)
	}
	return cborval.Value{Kind: cborval.KindArray, Arr: arr}
}
