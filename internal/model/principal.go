package model

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleMainUser     Role = "mainUser"
	RoleFreightAgent Role = "freightAgent"
	RoleCoordinator  Role = "coordinator"
)

// Principal is the verified caller of a protected endpoint.
type Principal struct {
	UserID   string
	Username string
	Role     Role
	Agent    string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsMainUser() bool {
	return p.Role == RoleMainUser
}

func (p Principal) IsFreightAgent() bool {
	return p.Role == RoleFreightAgent
}

func (p Principal) IsCoordinator() bool {
	return p.Role == RoleCoordinator
}

// CanManageOrders covers order creation, status transitions and quote selection.
func (p Principal) CanManageOrders() bool {
	return p.IsAdmin() || p.IsMainUser()
}

// IsAgentSide covers the roles that submit quotes.
func (p Principal) IsAgentSide() bool {
	return p.IsFreightAgent() || p.IsCoordinator()
}
