package value_objects

import "fmt"

// Module is a functional area of the system that permissions are scoped to.
// The set is closed so that typos in module names fail at construction time
// instead of silently denying at check time.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleInventory  Module = "inventory"
	ModuleProduction Module = "production"
	ModuleContracts  Module = "contracts"
	ModuleCampaigns  Module = "campaigns"
	ModuleReports    Module = "reports"
	ModuleUsers      Module = "users"
	ModuleSettings   Module = "settings"
)

var validModules = map[Module]bool{
	ModuleDashboard:  true,
	ModuleInventory:  true,
	ModuleProduction: true,
	ModuleContracts:  true,
	ModuleCampaigns:  true,
	ModuleReports:    true,
	ModuleUsers:      true,
	ModuleSettings:   true,
}

func NewModule(module string) (Module, error) {
	if module == "" {
		return "", fmt.Errorf("module cannot be empty")
	}

	m := Module(module)
	if !validModules[m] {
		return "", fmt.Errorf("invalid module: %s", module)
	}

	return m, nil
}

// AllModules returns every known module in a stable order.
func AllModules() []Module {
	return []Module{
		ModuleDashboard,
		ModuleInventory,
		ModuleProduction,
		ModuleContracts,
		ModuleCampaigns,
		ModuleReports,
		ModuleUsers,
		ModuleSettings,
	}
}

func (m Module) String() string {
	return string(m)
}

func (m Module) Equals(other Module) bool {
	return m == other
}
