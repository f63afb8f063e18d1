package Logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsBothModes(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l := New(debug)
		require.NotNil(t, l)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWithReturnsChild(t *testing.T) {
	l := NewNop()
	child := l.With("request_id", "abc")
	assert.NotSame(t, l, child)
	child.Infow("noop")
}
