package handle

import (
	"fmt"

	"github.com/born-ml/eager/internal/eager"
)

// AsAdapter returns h as an *Adapter if that is its dynamic type.
func AsAdapter(h TensorHandle) (*Adapter, bool) {
	a, ok := h.(*Adapter)
	return a, ok && a != nil
}

// HandleFromInterface returns the eager handle behind h, for runtime code
// that needs eager-specific behavior.
//
// h must have been created by Wrap. Any other implementation is a programming
// error and HandleFromInterface panics naming the type it got.
func HandleFromInterface(h TensorHandle) *eager.TensorHandle {
	a, ok := AsAdapter(h)
	if !ok {
		panic(fmt.Sprintf("handle: HandleFromInterface called with %T, want *handle.Adapter", h))
	}
	return a.handle
}
