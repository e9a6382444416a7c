package fixtures

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStaff(t *testing.T) {
	roles := map[staff.Role]bool{}
	admins := 0
	for _, m := range DefaultStaff {
		assert.True(t, validator.IsValidUUID(m.ID), m.ID)
		assert.True(t, m.Role.IsValid())
		roles[m.Role] = true
		if m.IsAdmin {
			admins++
		}
	}
	assert.Len(t, roles, len(staff.RoleValues))
	assert.Equal(t, 1, admins)
}

func TestSeedStaff_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStaffRepository()

	n, err := SeedStaff(ctx, repo, DefaultStaff)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultStaff), n)

	n, err = SeedStaff(ctx, repo, DefaultStaff)
	require.NoError(t, err)
	assert.Zero(t, n)

	kitchen, err := repo.ListActiveByRole(ctx, staff.RoleKitchen)
	require.NoError(t, err)
	assert.Len(t, kitchen, 2)
}
