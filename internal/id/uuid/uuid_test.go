// Package uuid includes tests for the batch ID generator.
package uuid

import (
	"testing"

	goUUID "github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewBatchID(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()
	first := gen.NewBatchID()
	second := gen.NewBatchID()

	require.NotEqual(t, goUUID.Nil, first)
	require.NotEqual(t, first, second)
	require.Equal(t, goUUID.Version(7), first.Version())
}

func TestNewBatchIDsSortByTime(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()
	prev := gen.NewBatchID()
	for i := 0; i < 10; i++ {
		next := gen.NewBatchID()
		require.LessOrEqual(t, prev.String(), next.String())
		prev = next
	}
}
