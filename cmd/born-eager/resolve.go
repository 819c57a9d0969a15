package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/eager/internal/handle"
	"github.com/born-ml/eager/internal/tensor"
)

var (
	flagRepeat        int
	flagProducerDelay time.Duration
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve every handle and count the transfers",
	Long: `Resolve creates the same handles as inspect, completes the pending
handle after --producer-delay, and resolves all of them --repeat times.

Without mirroring every round fetches non-local data again. With
--mirroring=all only the first round transfers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), cmd.OutOrStdout(), newCluster(settings, logger), flagRepeat, flagProducerDelay)
	},
}

func init() {
	resolveCmd.Flags().IntVar(&flagRepeat, "repeat", 1, "number of resolve rounds")
	resolveCmd.Flags().DurationVar(&flagProducerDelay, "producer-delay", 50*time.Millisecond, "time before the pending handle's producer finishes")
}

func runResolve(ctx context.Context, w io.Writer, c *cluster, repeat int, delay time.Duration) error {
	if repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
	}
	work, err := c.populate()
	if err != nil {
		return err
	}
	defer work.Release()

	producer := work.Producer
	produced := make(chan error, 1)
	go func() {
		time.Sleep(delay)
		produced <- c.completePending(producer)
	}()

	handles := make([]handle.TensorHandle, len(work.Handles))
	for i, nh := range work.Handles {
		handles[i] = nh.Handle
	}

	var rounds, values [][]string
	var resolveErr error
	for r := 1; r <= repeat; r++ {
		before := c.fetches.Load()
		ts, err := handle.ResolveAll(ctx, handles)
		if err != nil {
			resolveErr = fmt.Errorf("round %d: %w", r, err)
			break
		}
		if r == 1 {
			values = describeValues(work, ts)
		}
		for _, t := range ts {
			t.Release()
		}
		rounds = append(rounds, []string{strconv.Itoa(r), strconv.Itoa(len(ts)), strconv.FormatInt(c.fetches.Load()-before, 10)})
	}

	// The producer must be done before the workload is released.
	if err := <-produced; err != nil && resolveErr == nil {
		resolveErr = fmt.Errorf("producer: %w", err)
	}
	if resolveErr != nil {
		return resolveErr
	}

	table := newTable(w, "NAME", "DTYPE", "DEVICE", "VALUES")
	table.AppendBulk(values)
	table.Render()
	fmt.Fprintln(w)

	table = newTable(w, "ROUND", "RESOLVED", "TRANSFERS")
	table.AppendBulk(rounds)
	table.Render()

	fmt.Fprintf(w, "\nmirroring=%s: %d transfers in %d rounds\n", c.ctx.MirroringPolicy(), c.fetches.Load(), repeat)
	return nil
}

// describeValues renders the resolved tensors, which are all on the local
// device, as float32.
func describeValues(work *workload, ts []*tensor.RawTensor) [][]string {
	rows := make([][]string, len(ts))
	for i, t := range ts {
		vals, err := t.ToFloat32()
		text := fmt.Sprint(vals)
		if err != nil {
			text = err.Error()
		}
		rows[i] = []string{work.Handles[i].Name, t.DType().String(), t.Device().String(), text}
	}
	return rows
}
