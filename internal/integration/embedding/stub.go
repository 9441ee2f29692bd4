package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Stub is the deterministic offline embedder. Vectors depend only on
// the input text, so two processes embedding the same chunk agree
// byte-for-byte, and tests never need a live model.
type Stub struct {
	dimension int
	logger    *zap.Logger
}

func NewStub(dimension int, logger *zap.Logger) *Stub {
	return &Stub{dimension: dimension, logger: logger}
}

func (s *Stub) Dimension() int {
	return s.dimension
}

// Embed derives a unit-length vector from the SHA-256 of the text.
func (s *Stub) Embed(ctx context.Context, text string) ([]float64, error) {
	ctxzap.Debug(ctx, "[STUB] embedding text", zap.Int("text_length", len(text)))

	seed := sha256.Sum256([]byte(text))
	vector := make([]float64, s.dimension)

	var norm float64
	state := seed
	for i := 0; i < s.dimension; i++ {
		if i%4 == 0 && i > 0 {
			state = sha256.Sum256(state[:])
		}
		bits := binary.BigEndian.Uint64(state[(i%4)*8 : (i%4)*8+8])
		// Map to [-1, 1)
		v := float64(int64(bits)) / float64(math.MaxInt64)
		vector[i] = v
		norm += v * v
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector, nil
}
