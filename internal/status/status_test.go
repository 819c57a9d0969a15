package status

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOKIsNil(t *testing.T) {
	assert.NoError(t, New(OK, "ignored"))
	assert.Equal(t, OK, CodeOf(nil))
	assert.Empty(t, Message(nil))
	assert.Nil(t, FromError(nil))
}

func TestErrorf(t *testing.T) {
	err := Errorf(OutOfRange, "dimension %d out of range [0, %d)", 3, 2)
	require.Error(t, err)

	assert.Equal(t, OutOfRange, CodeOf(err))
	assert.Equal(t, "dimension 3 out of range [0, 2)", Message(err))
	assert.Equal(t, "OUT_OF_RANGE: dimension 3 out of range [0, 2)", err.Error())
}

func TestFromErrorKeepsCodeThroughAnnotations(t *testing.T) {
	base := New(Unavailable, "worker 3 unreachable")

	wrapped := pkgerrors.WithMessagef(base, "fetching handle %s", "h1")
	se := FromError(wrapped)
	require.NotNil(t, se)
	assert.Equal(t, Unavailable, se.Code)
	assert.Equal(t, "fetching handle h1: worker 3 unreachable", se.Message)
	assert.ErrorIs(t, se, base)

	stdWrapped := fmt.Errorf("resolve: %w", base)
	assert.Equal(t, Unavailable, CodeOf(stdWrapped))
}

func TestFromErrorPlainErrorIsUnknown(t *testing.T) {
	plain := errors.New("disk on fire")
	se := FromError(plain)

	assert.Equal(t, Unknown, se.Code)
	assert.Equal(t, "disk on fire", se.Message)
	assert.ErrorIs(t, se, plain)
}

func TestFromErrorReturnsSameStatus(t *testing.T) {
	err := New(Internal, "boom")
	assert.Same(t, err, FromError(err))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, Internal, "ignored"))

	cause := errors.New("connection reset")
	err := Wrap(cause, Unavailable, "copy to /job:localhost/replica:0/task:0/device:CPU:0")
	assert.Equal(t, Unavailable, CodeOf(err))
	assert.Contains(t, Message(err), "connection reset")
	assert.ErrorIs(t, err, cause)
}

func TestIsMatchesCode(t *testing.T) {
	err := New(FailedPrecondition, "handle released")

	assert.ErrorIs(t, err, &Error{Code: FailedPrecondition})
	assert.NotErrorIs(t, err, &Error{Code: InvalidArgument})
	assert.NotErrorIs(t, err, &Error{Code: FailedPrecondition, Message: "other"})
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "UNAVAILABLE", Unavailable.String())
	assert.Equal(t, "CODE(99)", Code(99).String())
}
