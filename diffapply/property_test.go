package diffapply

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/edmundedgar/plccompress/cborval"
)

func genDoc(t *rapid.T, depth int) cborval.Value {
	if depth <= 0 {
		return cborval.Text(rapid.StringN(0, 8, -1).Draw(t, "leaf"))
	}
	if rapid.Bool().Draw(t, "isMap") {
		n := rapid.IntRange(0, 3).Draw(t, "mapLen")
		pairs := make([]cborval.Pair, n)
		for i := range pairs {
			pairs[i] = cborval.Pair{
				Key: cborval.Text(rapid.StringN(1, 6, -1).Draw(t, "key")),
				Val: genDoc(t, depth-1),
			}
		}
		return cborval.Map(pairs...)
	}
	n := rapid.IntRange(0, 3).Draw(t, "arrLen")
	arr := make([]cborval.Value, n)
	for i := range arr {
		arr[i] = genDoc(t, depth-1)
	}
	return cborval.Array(arr...)
}

// TestPropertyEmptyEditScriptIsIdentity checks invariant S1: applying an
// edit script with all four classes empty always returns a document
// structurally equal to prev, for any shape of prev.
func TestPropertyEmptyEditScriptIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prev := genDoc(t, 3)
		out, err := Apply(prev, EditScript{})
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if !cborval.Equal(prev, out) {
			t.Fatalf("empty edit script changed the document: %+v != %+v", prev, out)
		}
	})
}

// TestPropertyApplyNeverMutatesInput checks invariant 4 across arbitrary
// documents: prev must read back identical after Apply runs, even though
// Apply never touches it (it builds a fresh tree), by comparing a
// pre-Apply clone against prev post-Apply.
func TestPropertyApplyNeverMutatesInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prev := genDoc(t, 3)
		before := prev.Clone()
		_, err := Apply(prev, EditScript{})
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if !cborval.Equal(before, prev) {
			t.Fatalf("Apply mutated its input")
		}
	})
}
