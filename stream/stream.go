// Package stream frames the outer compressed-stream array and orchestrates
// index, tagcodec, and diffapply in both directions (§4.4).
package stream

import (
	"fmt"
	"io"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/diffapply"
	"github.com/edmundedgar/plccompress/internal/errs"
	"github.com/edmundedgar/plccompress/internal/logging"
	"github.com/edmundedgar/plccompress/tagcodec"
)

// Encode writes [TagCodec.compress(full), d1', d2', ...] to w, where each
// dk' is the caller-supplied edit script with TagCodec applied to every
// embedded value (§4.4 "Encode").
func Encode(w io.Writer, full cborval.Value, scripts []diffapply.EditScript) error {
	elems := make([]cborval.Value, 0, len(scripts)+1)
	elems = append(elems, tagcodec.Compress(full))
	for _, s := range scripts {
		elems = append(elems, compressScript(s).ToValue())
	}

	data, err := cborval.Encode(cborval.Value{Kind: cborval.KindArray, Arr: elems})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func compressScript(es diffapply.EditScript) diffapply.EditScript {
	out := diffapply.EditScript{
		Deletes: append([]uint64(nil), es.Deletes...),
	}
	out.Updates = compressIndexedValues(es.Updates)
	out.Inserts = compressIndexedValues(es.Inserts)
	out.Prepends = compressIndexedValues(es.Prepends)
	return out
}

func compressIndexedValues(ivs []diffapply.IndexedValue) []diffapply.IndexedValue {
	if ivs == nil {
		return nil
	}
	out := make([]diffapply.IndexedValue, len(ivs))
	for i, iv := range ivs {
		out[i] = diffapply.IndexedValue{Index: iv.Index, Value: tagcodec.Compress(iv.Value)}
	}
	return out
}

// Decode reads a compressed stream and yields every document in order
// (§4.4 "Decode"). A failure anywhere in the chain is wrapped in a
// errs.ChainError naming the failing document's position; no partial
// documents are returned for the failing element.
func Decode(r io.Reader) ([]cborval.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeChain(data)
}

// DecodeChain is Decode over an in-memory byte slice.
func DecodeChain(data []byte) ([]cborval.Value, error) {
	log := logging.L()

	outer, err := cborval.Decode(data)
	if err != nil {
		return nil, errs.Chain(0, err)
	}
	if outer.Kind != cborval.KindArray || len(outer.Arr) == 0 {
		return nil, errs.Chain(0, fmt.Errorf("%w: outer stream must be a non-empty array", errs.ErrMalformedCBOR))
	}

	docs := make([]cborval.Value, 0, len(outer.Arr))

	prev, err := tagcodec.Decompress(outer.Arr[0])
	if err != nil {
		return nil, errs.Chain(0, err)
	}
	docs = append(docs, prev)
	log.Debug().Int("doc", 0).Msg("decoded full document")

	for i := 1; i < len(outer.Arr); i++ {
		es, err := diffapply.ParseEditScript(outer.Arr[i])
		if err != nil {
			return nil, errs.Chain(i, err)
		}
		next, err := diffapply.Apply(prev, es)
		if err != nil {
			return nil, errs.Chain(i, err)
		}
		docs = append(docs, next)
		log.Debug().Int("doc", i).Msg("applied diff")
		prev = next
	}

	return docs, nil
}
