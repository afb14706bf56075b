// Package plcop holds the PLC operation field names and shapes that sit
// just outside the codec's formal contract: the codec treats documents as
// opaque CBOR maps (§1, "the schema of PLC operations beyond the known
// field names listed here" is out of scope), but a thin, advisory
// validator is useful for the CLI's "inspect" subcommand and for sanity
// checking test fixtures.
package plcop

import (
	"fmt"

	"github.com/edmundedgar/plccompress/cborval"
)

// Known operation "type" values.
const (
	OpTypeCreate       = "create"
	OpTypePLCOperation = "plc_operation"
	OpTypeTombstone    = "plc_tombstone"
)

var knownOpTypes = map[string]bool{
	OpTypeCreate:       true,
	OpTypePLCOperation: true,
	OpTypeTombstone:    true,
}

// Field names this package is aware of; identical to tagcodec's key
// table, kept separate because plcop is a schema-level concern and
// tagcodec is a wire-format concern — they happen to agree today, but
// nothing requires them to stay coupled.
const (
	FieldSig                 = "sig"
	FieldPrev                = "prev"
	FieldType                = "type"
	FieldServices            = "services"
	FieldAlsoKnownAs         = "alsoKnownAs"
	FieldRotationKeys        = "rotationKeys"
	FieldVerificationMethods = "verificationMethods"
	FieldATProtoPDS          = "atproto_pds"
	FieldEndpoint            = "endpoint"
	FieldATProto             = "atproto"
)

// Validator performs advisory schema checks over an uncompressed
// document. The codec packages never call it, so a document it rejects
// still compresses and decompresses; StrictFieldOrder additionally
// requires "type" and "sig" to appear in the conventional PLC operation
// field order.
type Validator struct {
	StrictFieldOrder bool
}

// Validate reports the first schema issue found, or nil.
func (v Validator) Validate(doc cborval.Value) error {
	if doc.Kind != cborval.KindMap {
		return fmt.Errorf("plc operation must be a map, got %v", doc.Kind)
	}

	var typ string
	var sawType, sawRotationKeys, sawServices bool
	for _, p := range doc.Pairs {
		if p.Key.Kind != cborval.KindText {
			continue
		}
		switch p.Key.Text {
		case FieldType:
			sawType = true
			if p.Val.Kind == cborval.KindText {
				typ = p.Val.Text
			}
		case FieldRotationKeys:
			sawRotationKeys = true
			if p.Val.Kind != cborval.KindArray {
				return fmt.Errorf("%q must be an array", FieldRotationKeys)
			}
		case FieldServices:
			sawServices = true
			if p.Val.Kind != cborval.KindMap {
				return fmt.Errorf("%q must be a map", FieldServices)
			}
		case FieldAlsoKnownAs:
			if p.Val.Kind != cborval.KindArray {
				return fmt.Errorf("%q must be an array", FieldAlsoKnownAs)
			}
		}
	}

	if sawType && typ != "" && !knownOpTypes[typ] {
		return fmt.Errorf("unknown operation type %q", typ)
	}
	if typ == OpTypePLCOperation && !sawRotationKeys {
		return fmt.Errorf("%q operation is missing %q", OpTypePLCOperation, FieldRotationKeys)
	}
	_ = sawServices

	if v.StrictFieldOrder {
		if err := checkFieldOrder(doc); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldOrder(doc cborval.Value) error {
	var lastType, lastSig = -1, -1
	for i, p := range doc.Pairs {
		if p.Key.Kind != cborval.KindText {
			continue
		}
		switch p.Key.Text {
		case FieldType:
			lastType = i
		case FieldSig:
			lastSig = i
		}
	}
	if lastType >= 0 && lastSig >= 0 && lastSig < lastType {
		return fmt.Errorf("%q must not precede %q in strict field order", FieldSig, FieldType)
	}
	return nil
}
