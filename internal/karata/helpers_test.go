package karata

import (
	"io"
	"math/rand"

	"github.com/decred/slog"
)

func newTestLogger() slog.Logger {
	backend := slog.NewBackend(io.Discard)
	log := backend.Logger("TEST")
	log.SetLevel(slog.LevelError)
	return log
}

func newTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
