package session

import "github.com/nurpe/freight-desk/internal/model"

// Views maps front-end view names to the roles allowed to open them.
var Views = map[string][]string{
	"admin-dashboard": {string(model.RoleAdmin)},
	"main-dashboard":  {string(model.RoleAdmin), string(model.RoleMainUser)},
	"agent-dashboard": {string(model.RoleFreightAgent), string(model.RoleCoordinator)},
	"order-create":    {string(model.RoleAdmin), string(model.RoleMainUser)},
	"order-detail":    {string(model.RoleAdmin), string(model.RoleMainUser), string(model.RoleFreightAgent), string(model.RoleCoordinator)},
	"quote-submit":    {string(model.RoleFreightAgent), string(model.RoleCoordinator)},
	"quote-compare":   {string(model.RoleAdmin), string(model.RoleMainUser)},
	"statistics":      {string(model.RoleAdmin), string(model.RoleMainUser)},
}

// ViewRoles returns the allowed roles of a view.
func ViewRoles(view string) ([]string, bool) {
	roles, ok := Views[view]
	return roles, ok
}
