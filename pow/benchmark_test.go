package pow

import (
	"context"
	"testing"
)

// BenchmarkSolve measures a full low-difficulty search.
func BenchmarkSolve(b *testing.B) {
	engine := NewEngine(Config{NonceTrials: 1, MaxIterations: DefaultMaxIterations})
	payload := make([]byte, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Vary the timestamp so each iteration searches a fresh space.
		_, err := engine.Solve(context.Background(), payload, testDestination, uint64(i), 3600000)
		if err != nil {
			b.Fatalf("Solve failed: %v", err)
		}
	}
}

// BenchmarkVerify measures the per-message acceptance check.
func BenchmarkVerify(b *testing.B) {
	engine := NewEngine(Config{NonceTrials: 1, MaxIterations: DefaultMaxIterations})
	payload := make([]byte, 1024)

	nonce, err := engine.Solve(context.Background(), payload, testDestination, 1700000000000, 3600000)
	if err != nil {
		b.Fatalf("Solve failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Verify(nonce, payload, testDestination, 1700000000000, 3600000); err != nil {
			b.Fatalf("Verify failed: %v", err)
		}
	}
}
