// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package handle_test

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/eager/eager"
	"github.com/born-ml/eager/handle"
	"github.com/born-ml/eager/status"
	"github.com/born-ml/eager/tensor"
)

func Example() {
	ctx := eager.NewContext(
		eager.WithLocalDevice(tensor.LocalCPU()),
		eager.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	raw, _ := tensor.FromFloat32(tensor.Shape{2, 2}, ctx.LocalDevice(), []float32{1, 2, 3, 4})
	eh, _ := eager.NewLocalHandle(ctx, raw, tensor.DeviceName{})

	h := handle.Wrap(eh)
	defer h.Release()

	n, _ := h.NumElements()
	_, err := h.Dim(5)
	fmt.Println(h.DataType(), n, status.CodeOf(err))

	t, _ := h.Resolve()
	defer t.Release()
	fmt.Println(t.AsFloat32())
	// Output:
	// float32 4 OUT_OF_RANGE
	// [1 2 3 4]
}

func ExampleHandleFromInterface() {
	ctx := eager.NewContext(eager.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	eh := eager.NewPendingHandle(ctx, tensor.Float16, ctx.LocalDevice())

	h := handle.Wrap(eh)
	defer h.Release()

	fmt.Println(handle.HandleFromInterface(h) == eh, handle.HandleFromInterface(h).IsReady())
	// Output: true false
}
