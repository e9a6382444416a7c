package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = FromContext(WithIdentity(context.Background(), Identity{IsAdmin: true}))
	assert.ErrorIs(t, err, ErrMissingIdentity)

	ctx := WithIdentity(context.Background(), Identity{StaffID: "s-1", Role: "kitchen"})
	id, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s-1", id.StaffID)
	assert.False(t, id.IsAdmin)
}
