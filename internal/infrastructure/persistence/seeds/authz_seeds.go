// Package seeds populates the reference data the authorization engine
// depends on: the permission catalog, the system roles, and the grants that
// give each system role its baseline surface. Seeding is idempotent so it
// can run on every migrate.
package seeds

import (
	"fmt"

	"gorm.io/gorm"

	"sentra/internal/domain/authz"
	vo "sentra/internal/domain/authz/value_objects"
	"sentra/internal/infrastructure/persistence/models"
	"sentra/internal/shared/logger"
)

type systemRole struct {
	name           string
	slug           string
	description    string
	hierarchyLevel int
}

var systemRoles = []systemRole{
	{"Administrator", authz.RoleSlugAdmin, "Full access to every module", 0},
	{"Manager", authz.RoleSlugManager, "Branch management and approvals", 2},
	{"Employee", authz.RoleSlugEmployee, "Day-to-day operations", 4},
	{"Viewer", authz.RoleSlugViewer, "Read-only access", 6},
}

// defaultPermissions marks the catalog rows auto-granted to newly created
// roles: viewing the dashboard is the baseline everyone starts with.
var defaultPermissions = map[string]bool{
	authz.PermissionCode(vo.ModuleDashboard, vo.ActionView): true,
}

// baseline grants per system role; admin needs none since the engine
// bypasses grant lookup for administrators.
var systemGrants = map[string][]string{
	authz.RoleSlugManager: {
		"dashboard:view",
		"inventory:view", "inventory:create", "inventory:edit", "inventory:approve", "inventory:export",
		"production:view", "production:create", "production:edit", "production:approve",
		"contracts:view", "contracts:create", "contracts:edit", "contracts:approve",
		"campaigns:view", "campaigns:create", "campaigns:edit", "campaigns:approve",
		"reports:view", "reports:export",
		"users:view",
	},
	authz.RoleSlugEmployee: {
		"dashboard:view",
		"inventory:view", "inventory:create", "inventory:edit",
		"production:view", "production:create",
		"contracts:view",
		"campaigns:view",
	},
	authz.RoleSlugViewer: {
		"dashboard:view",
		"inventory:view",
		"production:view",
		"contracts:view",
		"campaigns:view",
		"reports:view",
	},
}

// SeedAuthz creates the permission catalog, system roles and their baseline
// grants. Existing rows are left untouched.
func SeedAuthz(db *gorm.DB, log logger.Interface) error {
	if err := seedCatalog(db); err != nil {
		return fmt.Errorf("failed to seed permission catalog: %w", err)
	}
	if err := seedRoles(db); err != nil {
		return fmt.Errorf("failed to seed system roles: %w", err)
	}
	if err := seedGrants(db); err != nil {
		return fmt.Errorf("failed to seed system role grants: %w", err)
	}

	log.Info("authorization reference data seeded")
	return nil
}

func seedCatalog(db *gorm.DB) error {
	for _, module := range vo.AllModules() {
		for _, action := range vo.AllActions() {
			code := authz.PermissionCode(module, action)
			row := models.PermissionModel{
				Module:      module.String(),
				Action:      action.String(),
				DisplayName: displayName(module, action),
				IsDefault:   defaultPermissions[code],
			}
			err := db.Where("module = ? AND action = ?", row.Module, row.Action).
				FirstOrCreate(&models.PermissionModel{}, row).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func seedRoles(db *gorm.DB) error {
	for _, r := range systemRoles {
		row := models.RoleModel{
			Name:           r.name,
			Slug:           r.slug,
			Description:    r.description,
			HierarchyLevel: r.hierarchyLevel,
			IsSystem:       true,
		}
		err := db.Where("slug = ?", r.slug).
			FirstOrCreate(&models.RoleModel{}, row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func seedGrants(db *gorm.DB) error {
	for slug, codes := range systemGrants {
		var role models.RoleModel
		if err := db.Where("slug = ?", slug).First(&role).Error; err != nil {
			return fmt.Errorf("system role %q not found: %w", slug, err)
		}

		for _, code := range codes {
			module, action, ok := splitCode(code)
			if !ok {
				return fmt.Errorf("malformed permission code %q", code)
			}

			var perm models.PermissionModel
			if err := db.Where("module = ? AND action = ?", module, action).First(&perm).Error; err != nil {
				return fmt.Errorf("catalog entry %q not found: %w", code, err)
			}

			link := models.RolePermissionModel{RoleID: role.ID, PermissionID: perm.ID}
			err := db.Where("role_id = ? AND permission_id = ?", role.ID, perm.ID).
				FirstOrCreate(&models.RolePermissionModel{}, link).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func splitCode(code string) (module, action string, ok bool) {
	for i := 0; i < len(code); i++ {
		if code[i] == ':' {
			return code[:i], code[i+1:], i > 0 && i < len(code)-1
		}
	}
	return "", "", false
}

func displayName(module vo.Module, action vo.Action) string {
	names := map[vo.Action]string{
		vo.ActionView:    "View",
		vo.ActionCreate:  "Create",
		vo.ActionEdit:    "Edit",
		vo.ActionDelete:  "Delete",
		vo.ActionApprove: "Approve",
		vo.ActionExport:  "Export",
	}
	return names[action] + " " + module.String()
}
