// Package eager implements the eager runtime's tensor handles: reference
// counted management objects for tensors that may be local, remote, or still
// being produced.
//
// A Context describes the process the handles live in: which device counts as
// local, whether implicit copies are mirrored, and the transfer protocol used
// to bring non-local data to the local device.
package eager

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/born-ml/eager/internal/envconfig"
	"github.com/born-ml/eager/internal/tensor"
)

// MirroringPolicy controls whether data copied to the local device during
// Resolve is kept on the handle.
type MirroringPolicy int

// Mirroring policies.
const (
	// MirroringNone discards implicit copies unless the handle opted in with
	// EnableImplicitMirroring.
	MirroringNone MirroringPolicy = iota
	// MirroringAll keeps a mirror of every implicit copy.
	MirroringAll
)

// String returns the policy name accepted by ParseMirroringPolicy.
func (p MirroringPolicy) String() string {
	switch p {
	case MirroringNone:
		return "none"
	case MirroringAll:
		return "all"
	default:
		return fmt.Sprintf("MirroringPolicy(%d)", int(p))
	}
}

// ParseMirroringPolicy parses "none" or "all".
func ParseMirroringPolicy(s string) (MirroringPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return MirroringNone, nil
	case "all":
		return MirroringAll, nil
	default:
		return MirroringNone, fmt.Errorf("unknown mirroring policy %q (want none or all)", s)
	}
}

// Context is shared by every handle created in it.
type Context struct {
	localDevice tensor.DeviceName
	policy      MirroringPolicy
	transfer    Transfer
	logger      *slog.Logger

	live    atomic.Int64       // handles with a non-zero refcount
	flights singleflight.Group // concurrent mirror fills, keyed by handle and device
}

// Option configures a Context.
type Option func(*Context)

// WithLocalDevice sets the device whose data Resolve returns without a transfer.
func WithLocalDevice(d tensor.DeviceName) Option {
	return func(c *Context) { c.localDevice = d }
}

// WithMirroringPolicy sets the context-wide mirroring policy.
func WithMirroringPolicy(p MirroringPolicy) Option {
	return func(c *Context) { c.policy = p }
}

// WithTransfer sets the protocol used to fetch non-local data.
func WithTransfer(t Transfer) Option {
	return func(c *Context) { c.transfer = t }
}

// WithLogger sets the logger used for handle lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// NewContext creates a context. Defaults come from the BORN_* environment
// variables; the default transfer is an empty Loopback.
func NewContext(opts ...Option) *Context {
	c := &Context{
		localDevice: envconfig.LocalDevice(),
		policy:      MirroringNone,
		logger:      slog.Default(),
	}
	if envconfig.MirrorTensors() {
		c.policy = MirroringAll
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transfer == nil {
		c.transfer = NewLoopback()
	}
	return c
}

// LocalDevice returns the device treated as local.
func (c *Context) LocalDevice() tensor.DeviceName {
	return c.localDevice
}

// MirroringPolicy returns the context-wide mirroring policy.
func (c *Context) MirroringPolicy() MirroringPolicy {
	return c.policy
}

// Transfer returns the transfer protocol.
func (c *Context) Transfer() Transfer {
	return c.transfer
}

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// LiveHandles returns the number of handles that have not been fully released.
func (c *Context) LiveHandles() int64 {
	return c.live.Load()
}
