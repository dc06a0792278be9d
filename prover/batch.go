package prover

import (
	"context"
	"fmt"
	"runtime"

	"github.com/vocdoni/davinci-voteproof/types"
	"golang.org/x/sync/errgroup"
)

// VerifyBatch verifies independent vote proofs concurrently with up to
// workers goroutines (runtime.NumCPU if workers is not positive). The
// result holds the validity of each proof in order. The first error, or
// the context cancellation, aborts the batch.
func (v *Verifier) VerifyBatch(ctx context.Context, proofs []*types.VoteProof, workers int) ([]bool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]bool, len(proofs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, vp := range proofs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := v.VerifyVote(vp)
			if err != nil {
				return fmt.Errorf("vote proof %d: %w", i, err)
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
