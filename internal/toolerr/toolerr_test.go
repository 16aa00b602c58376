package toolerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", New(NotFound, "vault %s", "CABC"), NotFound},
		{"wrapped by fmt", fmt.Errorf("context: %w", New(MalformedArgument, "bad")), MalformedArgument},
		{"plain error", errors.New("boom"), Internal},
		{"nil", nil, Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(UpstreamUnavailable, cause, "swap api")

	assert.Equal(t, "swap api: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Kind: UpstreamUnavailable})
	assert.NotErrorIs(t, err, &Error{Kind: NotFound})

	assert.Equal(t, "Not found", (&Error{Kind: NotFound}).Error())
	assert.Equal(t, "boom", (&Error{Kind: Internal, Err: errors.New("boom")}).Error())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "UnknownOperation", UnknownOperation.String())
	assert.Equal(t, "Unknown operation", UnknownOperation.Description())
	assert.Equal(t, "Kind(42)", Kind(42).String())
	assert.Equal(t, "Internal error", Kind(42).Description())
}
