package users

type Role string

const (
	// RoleOrganiser creates and manages exhibitions and decides on stall applications.
	RoleOrganiser Role = "ORGANISER"
	// RoleBrand applies for and books stalls.
	RoleBrand Role = "BRAND"
	// RoleManager is the platform-level administrative role.
	RoleManager Role = "MANAGER"
	// RoleShopper browses published exhibitions.
	RoleShopper Role = "SHOPPER"
)

func (r Role) String() string {
	return string(r)
}
