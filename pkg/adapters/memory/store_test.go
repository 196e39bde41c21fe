package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tracer/pkg/adapters/memory"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	sess := domain.NewSession("s1", "bubble-sort", []any{3, 1, 2})
	require.NoError(t, store.Save(ctx, "s1", sess))
	sess.State.LastStep = 10

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, -1, loaded.State.LastStep, "later mutation of the saved session is not visible")
	assert.Equal(t, []any{3.0, 1.0, 2.0}, loaded.State.Data, "payload comes back as decoded JSON")
}
