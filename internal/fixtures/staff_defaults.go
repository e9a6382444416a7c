package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
)

// ==========================================
// DEFAULT STAFF
// ==========================================

// DefaultStaff is a small roster covering every role, used to seed
// development databases. IDs are fixed so that gateway headers can be
// scripted against them.
var DefaultStaff = []staff.Staff{
	{ID: "0190f3b4-0000-7000-8000-000000000001", FullName: "Admin", Role: staff.RoleFloor, IsAdmin: true, IsActive: true},
	{ID: "0190f3b4-0000-7000-8000-000000000002", FullName: "Ana Kitchen", Role: staff.RoleKitchen, IsActive: true},
	{ID: "0190f3b4-0000-7000-8000-000000000003", FullName: "Budi Kitchen", Role: staff.RoleKitchen, IsActive: true},
	{ID: "0190f3b4-0000-7000-8000-000000000004", FullName: "Citra Floor", Role: staff.RoleFloor, IsActive: true},
	{ID: "0190f3b4-0000-7000-8000-000000000005", FullName: "Dewi Floor", Role: staff.RoleFloor, IsActive: true},
	{ID: "0190f3b4-0000-7000-8000-000000000006", FullName: "Eko Cashier", Role: staff.RoleCashier, IsActive: true},
}

// SeedStaff creates every member that does not exist yet and returns how many
// were created.
func SeedStaff(ctx context.Context, repo staff.Repository, members []staff.Staff) (int, error) {
	created := 0
	for _, m := range members {
		_, err := repo.GetByID(ctx, m.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, staff.ErrStaffNotFound) {
			return created, fmt.Errorf("failed to look up staff %s: %w", m.ID, err)
		}

		if _, err := repo.Create(ctx, m); err != nil {
			return created, fmt.Errorf("failed to seed staff %s: %w", m.FullName, err)
		}
		created++
	}
	return created, nil
}
