package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStubEmbedDeterministic(t *testing.T) {
	stub := NewStub(384, zap.NewNop())

	a, err := stub.Embed(context.Background(), "same text")
	require.NoError(t, err)
	b, err := stub.Embed(context.Background(), "same text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 384)
}

func TestStubEmbedDistinguishesTexts(t *testing.T) {
	stub := NewStub(64, zap.NewNop())

	a, err := stub.Embed(context.Background(), "first")
	require.NoError(t, err)
	b, err := stub.Embed(context.Background(), "second")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStubEmbedUnitLength(t *testing.T) {
	stub := NewStub(128, zap.NewNop())

	v, err := stub.Embed(context.Background(), "normalize me")
	require.NoError(t, err)

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}
