// Package diffapply materializes the next document from the previous
// document plus an edit script (§4.3). All four edit classes (update,
// delete, insert, prepend) are resolved against indices assigned to the
// ORIGINAL document, as if applied simultaneously — never against
// positions that would have shifted from an earlier edit in the same
// script.
package diffapply

import (
	"fmt"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/index"
	"github.com/edmundedgar/plccompress/internal/errs"
	"github.com/edmundedgar/plccompress/tagcodec"
)

// Apply returns a new document built from prev and script. It never
// mutates prev.
func Apply(prev cborval.Value, script EditScript) (cborval.Value, error) {
	table, err := index.Build(prev)
	if err != nil {
		return cborval.Value{}, err
	}

	edits, err := newEditSet(table, script)
	if err != nil {
		return cborval.Value{}, err
	}

	var counter uint64
	return applyNode(prev, &counter, edits)
}

// editSet holds the fully validated, tag-decompressed edits, keyed by the
// prev-relative index they target.
type editSet struct {
	updates  map[uint64]cborval.Value
	deletes  map[uint64]bool
	inserts  map[uint64][]cborval.Value // container index -> payloads, in script order
	prepends map[uint64][]cborval.Value // target element index -> payloads, in script order
}

func newEditSet(table *index.Table, script EditScript) (*editSet, error) {
	es := &editSet{
		updates:  map[uint64]cborval.Value{},
		deletes:  map[uint64]bool{},
		inserts:  map[uint64][]cborval.Value{},
		prepends: map[uint64][]cborval.Value{},
	}

	for _, iv := range script.Updates {
		loc, err := table.Lookup(iv.Index)
		if err != nil {
			return nil, err
		}
		if loc.Role == index.RoleMapEntry {
			return nil, fmt.Errorf("%w: update cannot target a map entry marker (index %d)", errs.ErrWrongContainerKind, iv.Index)
		}
		val, err := tagcodec.Decompress(iv.Value)
		if err != nil {
			return nil, err
		}
		es.updates[iv.Index] = val
	}

	for _, idx := range script.Deletes {
		loc, err := table.Lookup(idx)
		if err != nil {
			return nil, err
		}
		if loc.Role != index.RoleMapEntry && loc.Role != index.RoleArrayElem {
			return nil, fmt.Errorf("%w: delete target %d is neither a map entry nor an array element", errs.ErrWrongContainerKind, idx)
		}
		es.deletes[idx] = true
	}

	for _, iv := range script.Inserts {
		loc, err := table.Lookup(iv.Index)
		if err != nil {
			return nil, err
		}
		if loc.OwnKind != cborval.KindMap && loc.OwnKind != cborval.KindArray {
			return nil, fmt.Errorf("%w: insert target %d is not a container", errs.ErrWrongContainerKind, iv.Index)
		}
		val, err := tagcodec.Decompress(iv.Value)
		if err != nil {
			return nil, err
		}
		if loc.OwnKind == cborval.KindMap {
			if val.Kind != cborval.KindArray || len(val.Arr) != 2 {
				return nil, fmt.Errorf("%w: insert into map %d needs a [key, value] pair", errs.ErrMalformedEdit, iv.Index)
			}
		}
		es.inserts[iv.Index] = append(es.inserts[iv.Index], val)
	}

	for _, iv := range script.Prepends {
		loc, err := table.Lookup(iv.Index)
		if err != nil {
			return nil, err
		}
		if loc.Role != index.RoleArrayElem {
			return nil, fmt.Errorf("%w: prepend target %d is not an existing array element", errs.ErrWrongContainerKind, iv.Index)
		}
		val, err := tagcodec.Decompress(iv.Value)
		if err != nil {
			return nil, err
		}
		es.prepends[iv.Index] = append(es.prepends[iv.Index], val)
	}

	return es, nil
}

// applyNode walks v in the same pre-order as index.Build, consuming the
// same sequence of indices, and assembles the transformed tree bottom-up.
// Every container's new child list is built from its ORIGINAL child list,
// so sibling deletes/inserts/prepends never shift each other's addressing
// (the non-commutativity guard in §8).
func applyNode(v cborval.Value, counter *uint64, edits *editSet) (cborval.Value, error) {
	myIdx := *counter
	*counter++

	switch v.Kind {
	case cborval.KindArray:
		var newArr []cborval.Value
		for _, e := range v.Arr {
			elemIdx := *counter
			transformed, err := applyNode(e, counter, edits)
			if err != nil {
				return cborval.Value{}, err
			}
			if pre, ok := edits.prepends[elemIdx]; ok {
				newArr = append(newArr, pre...)
			}
			if edits.deletes[elemIdx] {
				continue
			}
			if upd, ok := edits.updates[elemIdx]; ok {
				transformed = upd
			}
			newArr = append(newArr, transformed)
		}
		if ins, ok := edits.inserts[myIdx]; ok {
			newArr = append(newArr, ins...)
		}
		return cborval.Value{Kind: cborval.KindArray, Arr: newArr}, nil

	case cborval.KindMap:
		var newPairs []cborval.Pair
		for _, p := range v.Pairs {
			entryIdx := *counter
			*counter++ // the entry marker itself consumes one index

			keyIdx := *counter
			keyVal, err := applyNode(p.Key, counter, edits)
			if err != nil {
				return cborval.Value{}, err
			}

			valIdx := *counter
			valVal, err := applyNode(p.Val, counter, edits)
			if err != nil {
				return cborval.Value{}, err
			}

			if edits.deletes[entryIdx] {
				continue
			}
			if upd, ok := edits.updates[keyIdx]; ok {
				keyVal = upd
			}
			if upd, ok := edits.updates[valIdx]; ok {
				valVal = upd
			}
			newPairs = append(newPairs, cborval.Pair{Key: keyVal, Val: valVal})
		}
		if ins, ok := edits.inserts[myIdx]; ok {
			for _, payload := range ins {
				newPairs = append(newPairs, cborval.Pair{Key: payload.Arr[0], Val: payload.Arr[1]})
			}
		}
		return cborval.Value{Kind: cborval.KindMap, Pairs: newPairs}, nil

	case cborval.KindTag:
		inner, err := applyNode(*v.Inner, counter, edits)
		if err != nil {
			return cborval.Value{}, err
		}
		return cborval.Value{Kind: cborval.KindTag, Tag: v.Tag, Inner: &inner}, nil

	default:
		return v, nil
	}
}
