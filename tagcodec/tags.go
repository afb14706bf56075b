// Package tagcodec applies and reverses the semantic-tag substitutions
// over a cborval.Value tree: known leaf value shapes become tag(6..9, ...)
// and known map keys become tag(10..19, null), per §4.2.
package tagcodec

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/internal/errs"
)

// ValueTag is a table-driven tag(6..9) codec entry: a shape predicate plus
// its forward (text -> payload) and reverse (payload -> text) directions.
type ValueTag struct {
	Num    uint64
	Match  func(s string) bool
	Encode func(s string) (cborval.Value, error)
	Decode func(payload cborval.Value) (string, error)
}

const (
	sigTextLen = 86
	sigLen     = 64
	cidTextLen = 59
	cidLen     = 36
	didKeyLen  = 35
	atPrefix   = "at://"
	didPrefix  = "did:key:z"
)

// ValueTags holds the four leaf-value tags in tag-number order.
var ValueTags = []ValueTag{
	{
		Num: 6,
		Match: func(s string) bool {
			return len(s) == sigTextLen
		},
		Encode: func(s string) (cborval.Value, error) {
			raw, err := base64.RawURLEncoding.DecodeString(s)
			if err != nil || len(raw) != sigLen {
				return cborval.Value{}, fmt.Errorf("%w: signature %q is not 64 bytes of base64url", errs.ErrTagPayloadInvalid, s)
			}
			return cborval.Bytes(raw), nil
		},
		Decode: func(payload cborval.Value) (string, error) {
			if payload.Kind != cborval.KindBytes || len(payload.Bytes) != sigLen {
				return "", fmt.Errorf("%w: tag 6 payload must be 64 bytes", errs.ErrTagPayloadInvalid)
			}
			return base64.RawURLEncoding.EncodeToString(payload.Bytes), nil
		},
	},
	{
		Num: 7,
		Match: func(s string) bool {
			return len(s) == cidTextLen && strings.HasPrefix(s, "b")
		},
		Encode: func(s string) (cborval.Value, error) {
			enc, raw, err := multibase.Decode(s)
			if err != nil || enc != multibase.Base32 || len(raw) != cidLen {
				return cborval.Value{}, fmt.Errorf("%w: CID %q is not a 36-byte base32lower multibase CID", errs.ErrTagPayloadInvalid, s)
			}
			return cborval.Bytes(raw), nil
		},
		Decode: func(payload cborval.Value) (string, error) {
			if payload.Kind != cborval.KindBytes || len(payload.Bytes) != cidLen {
				return "", fmt.Errorf("%w: tag 7 payload must be 36 bytes", errs.ErrTagPayloadInvalid)
			}
			s, err := multibase.Encode(multibase.Base32, payload.Bytes)
			if err != nil {
				return "", fmt.Errorf("%w: %v", errs.ErrTagPayloadInvalid, err)
			}
			return s, nil
		},
	},
	{
		Num: 8,
		Match: func(s string) bool {
			return strings.HasPrefix(s, didPrefix)
		},
		Encode: func(s string) (cborval.Value, error) {
			raw, err := base58.Decode(s[len(didPrefix):])
			if err != nil || len(raw) != didKeyLen {
				return cborval.Value{}, fmt.Errorf("%w: did:key %q is not a 35-byte base58btc key", errs.ErrTagPayloadInvalid, s)
			}
			return cborval.Bytes(raw), nil
		},
		Decode: func(payload cborval.Value) (string, error) {
			if payload.Kind != cborval.KindBytes || len(payload.Bytes) != didKeyLen {
				return "", fmt.Errorf("%w: tag 8 payload must be 35 bytes", errs.ErrTagPayloadInvalid)
			}
			return didPrefix + base58.Encode(payload.Bytes), nil
		},
	},
	{
		Num: 9,
		Match: func(s string) bool {
			return strings.HasPrefix(s, atPrefix)
		},
		Encode: func(s string) (cborval.Value, error) {
			return cborval.Text(s[len(atPrefix):]), nil
		},
		Decode: func(payload cborval.Value) (string, error) {
			if payload.Kind != cborval.KindText {
				return "", fmt.Errorf("%w: tag 9 payload must be a text string", errs.ErrTagPayloadInvalid)
			}
			return atPrefix + payload.Text, nil
		},
	},
}

func valueTagByNum(n uint64) (ValueTag, bool) {
	for _, vt := range ValueTags {
		if vt.Num == n {
			return vt, true
		}
	}
	return ValueTag{}, false
}
