package stream

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/edmundedgar/plccompress/cborval"
)

// DecodeMany decodes several independent compressed streams concurrently.
// Streams share no state (§5: "Multiple independent streams MAY be
// decoded in parallel; there is no cross-stream contention"), so this
// fans them out across a bounded worker pool instead of a barrier-style
// decode-then-join. Unlike Decode, a single chain's failure does not
// abort the others: every chain's result (or nil on failure) is returned
// in input order, alongside the combined multierror naming which chains
// failed.
func DecodeMany(streams [][]byte) ([][]cborval.Value, error) {
	results := make([][]cborval.Value, len(streams))
	errsByIdx := make([]error, len(streams))

	var g errgroup.Group
	g.SetLimit(maxConcurrentChains(len(streams)))

	for i, data := range streams {
		i, data := i, data
		g.Go(func() error {
			docs, err := DecodeChain(data)
			if err != nil {
				errsByIdx[i] = err
				return nil // don't cancel sibling chains
			}
			results[i] = docs
			return nil
		})
	}
	_ = g.Wait() // workers never themselves return a non-nil error

	var merr *multierror.Error
	for i, err := range errsByIdx {
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("stream %d: %w", i, err))
		}
	}
	if merr != nil {
		return results, merr.ErrorOrNil()
	}
	return results, nil
}

func maxConcurrentChains(n int) int {
	const cap = 16
	if n < cap {
		if n == 0 {
			return 1
		}
		return n
	}
	return cap
}
