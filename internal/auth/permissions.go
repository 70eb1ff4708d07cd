package auth

// Permission represents a named capability in the system.
type Permission string

// Permission constants.
const (
	PermBedControl Permission = "bed:control"
	PermBedView    Permission = "bed:view"

	PermPresetCreate Permission = "preset:create"
	PermPresetDelete Permission = "preset:delete"
	PermPresetView   Permission = "preset:view"

	PermSleepView    Permission = "sleep:view"
	PermSleepHistory Permission = "sleep:history"
	PermSleepExport  Permission = "sleep:export"

	PermAdminView  Permission = "admin:view"
	PermUserManage Permission = "user:manage"
	PermUserView   Permission = "user:view"
	PermUserEdit   Permission = "user:edit"

	PermSettingsView   Permission = "settings:view"
	PermSettingsManage Permission = "settings:manage"
)

// rolePermissions maps each role to its granted permissions.
// This is the single source of truth for the authorisation model.
//
// Grants are monotone up the hierarchy by construction: everything a
// viewer can do, a caregiver can do; everything a caregiver can do, an
// admin can do. The table is written out explicitly rather than derived.
var rolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermBedView,
		PermPresetView,
		PermSleepView,
		PermSettingsView,
	},
	RoleCaregiver: {
		PermBedControl,
		PermBedView,
		PermPresetCreate,
		PermPresetDelete,
		PermPresetView,
		PermSleepView,
		PermSleepHistory,
		PermSettingsView,
	},
	RoleAdmin: {
		PermBedControl,
		PermBedView,
		PermPresetCreate,
		PermPresetDelete,
		PermPresetView,
		PermSleepView,
		PermSleepHistory,
		PermSleepExport,
		PermAdminView,
		PermUserManage,
		PermUserView,
		PermUserEdit,
		PermSettingsView,
		PermSettingsManage,
	},
}

// Can returns true if the user holds the specified permission.
// A nil or inactive user holds no permissions.
func Can(user *User, perm Permission) bool {
	if user == nil || !user.IsActive {
		return false
	}
	for _, p := range rolePermissions[user.Role] {
		if p == perm {
			return true
		}
	}
	return false
}

// CanAny returns true if the user holds at least one of the permissions.
func CanAny(user *User, perms []Permission) bool {
	for _, perm := range perms {
		if Can(user, perm) {
			return true
		}
	}
	return false
}

// CanAll returns true if the user holds every one of the permissions.
func CanAll(user *User, perms []Permission) bool {
	for _, perm := range perms {
		if !Can(user, perm) {
			return false
		}
	}
	return true
}

// HasRoleOrHigher returns true if the user's role ranks at or above
// requiredRole in the hierarchy. A nil or inactive user never qualifies.
func HasRoleOrHigher(user *User, requiredRole Role) bool {
	if user == nil || !user.IsActive {
		return false
	}
	return roleRank[user.Role] >= roleRank[requiredRole]
}

// PermissionsForRole returns all permissions granted to a role.
// Returns nil for unknown roles.
func PermissionsForRole(role Role) []Permission {
	perms := rolePermissions[role]
	if perms == nil {
		return nil
	}
	result := make([]Permission, len(perms))
	copy(result, perms)
	return result
}

// deniedMessages maps permissions to user-facing denial messages.
var deniedMessages = map[Permission]string{
	PermBedControl:     "you do not have permission to operate the bed",
	PermPresetCreate:   "you do not have permission to create custom presets",
	PermPresetDelete:   "you do not have permission to delete custom presets",
	PermSleepHistory:   "you do not have permission to view sleep history",
	PermAdminView:      "you do not have permission to view the admin area",
	PermUserManage:     "you do not have permission to manage users",
	PermSettingsManage: "you do not have permission to change settings",
}

// DeniedMessage returns a user-facing message for a permission denial.
func DeniedMessage(perm Permission) string {
	if msg, ok := deniedMessages[perm]; ok {
		return msg
	}
	return "you do not have permission to perform this action"
}
