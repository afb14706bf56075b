// Package index implements the structural walker that assigns stable
// integer indices to every node of a parsed CBOR document, so a later
// document can be described as a diff against an earlier one.
//
// The walk is a single left-to-right depth-first pass. DiffApplier calls
// Build to validate edit-script indices, and its own rebuilding walk
// (diffapply.applyNode) consumes indices in this same order; the two
// walks are separate code and must be kept in step by hand.
package index

import (
	"fmt"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/internal/errs"
)

// Role describes a node's structural relationship to its parent, as
// assigned by the walk in §4.1.
type Role uint8

const (
	// RoleRoot is the document's top-level node; it has no parent.
	RoleRoot Role = iota
	// RoleArrayElem is an array element, addressed for delete/prepend.
	RoleArrayElem
	// RoleMapEntry is the entry marker between a map and one of its keys,
	// addressed for delete.
	RoleMapEntry
	// RoleMapKey is a map entry's key.
	RoleMapKey
	// RoleMapValue is a map entry's value.
	RoleMapValue
	// RoleTagInner is the inner value wrapped by a tag.
	RoleTagInner
)

// Location describes the node addressed by a single index: its role
// relative to its parent, and the CBOR kind living at that index (used to
// validate an edit's kind against its target, e.g. insert needs a
// container, prepend needs an array element).
type Location struct {
	Role    Role
	OwnKind cborval.Kind
}

// Table is the flat address table produced by Build: addr[i] describes
// the node that the pre-order walk assigned index i to.
type Table struct {
	addr []Location
}

// Build walks v and assigns one index per structural event, per the rules
// in §4.1: one index for every scalar, array, map, map entry marker, map
// key, map value, and tag wrapper, emitted in pre-order.
func Build(v cborval.Value) (*Table, error) {
	t := &Table{}
	if err := t.walkWithRole(v, RoleRoot); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) walkWithRole(v cborval.Value, role Role) error {
	t.addr = append(t.addr, Location{Role: role, OwnKind: v.Kind})

	switch v.Kind {
	case cborval.KindArray:
		for _, e := range v.Arr {
			if err := t.walkWithRole(e, RoleArrayElem); err != nil {
				return err
			}
		}
	case cborval.KindMap:
		for _, p := range v.Pairs {
			// entry marker: the slot between the map and the key.
			t.addr = append(t.addr, Location{Role: RoleMapEntry, OwnKind: cborval.KindNull})
			if err := t.walkWithRole(p.Key, RoleMapKey); err != nil {
				return err
			}
			if err := t.walkWithRole(p.Val, RoleMapValue); err != nil {
				return err
			}
		}
	case cborval.KindTag:
		if v.Inner == nil {
			return fmt.Errorf("%w: tag with no inner value", errs.ErrMalformedCBOR)
		}
		if err := t.walkWithRole(*v.Inner, RoleTagInner); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the Location assigned to idx, or ErrIndexOutOfRange.
func (t *Table) Lookup(idx uint64) (Location, error) {
	if idx >= uint64(len(t.addr)) {
		return Location{}, fmt.Errorf("%w: index %d", errs.ErrIndexOutOfRange, idx)
	}
	return t.addr[idx], nil
}

// Max returns the highest index assigned by Build.
func (t *Table) Max() uint64 {
	if len(t.addr) == 0 {
		return 0
	}
	return uint64(len(t.addr) - 1)
}

// Len returns the number of indices assigned, i.e. Max()+1 for a
// non-empty table.
func (t *Table) Len() int {
	return len(t.addr)
}
