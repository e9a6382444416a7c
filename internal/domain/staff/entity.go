package staff

import "time"

type Role string

const (
	RoleKitchen Role = "kitchen"
	RoleFloor   Role = "floor"
	RoleCashier Role = "cashier"
)

var RoleValues = []string{
	string(RoleKitchen),
	string(RoleFloor),
	string(RoleCashier),
}

func (r Role) IsValid() bool {
	switch r {
	case RoleKitchen, RoleFloor, RoleCashier:
		return true
	}
	return false
}

type Staff struct {
	ID        string
	FullName  string
	Role      Role
	IsAdmin   bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
