// Package gen builds the dataset entities. Every generator is a pure
// function of its random stream and inputs: no store access, no wall
// clock. The engine owns persistence and stream derivation, so a fixed
// seed replays the same dataset field for field.
package gen

import (
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func earlierOf(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
