package handle

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/eager/internal/tensor"
)

// ResolveAll resolves every handle concurrently and returns the tensors in
// the same order. On the first failure no further resolutions are started,
// the tensors already obtained are released, and that failure is returned.
//
// ctx only gates starting new resolutions; a Resolve in progress is not
// interrupted.
func ResolveAll(ctx context.Context, handles []TensorHandle) ([]*tensor.RawTensor, error) {
	out := make([]*tensor.RawTensor, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, h := range handles {
		i, h := i, h
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := h.Resolve()
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, t := range out {
			if t != nil {
				t.Release()
			}
		}
		return nil, err
	}
	return out, nil
}
