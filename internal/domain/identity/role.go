package identity

import (
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Role represents a user's role within an agency
type Role string

const (
	RoleOwner        Role = "OWNER"        // Full control, billing, member management
	RoleManager      Role = "MANAGER"      // Manages clients, campaigns, publishing
	RoleCollaborator Role = "COLLABORATOR" // Creates and edits content
)

// Permission strings follow the "resource:action" convention
const (
	PermAgencyRead     = "agency:read"
	PermAgencyWrite    = "agency:write"
	PermUsersRead      = "users:read"
	PermUsersWrite     = "users:write"
	PermInvitesWrite   = "invitations:write"
	PermClientsRead    = "clients:read"
	PermClientsWrite   = "clients:write"
	PermCampaignsRead  = "campaigns:read"
	PermCampaignsWrite = "campaigns:write"
	PermPostsRead      = "posts:read"
	PermPostsWrite     = "posts:write"
	PermPostsPublish   = "posts:publish"
	PermSocialRead     = "social:read"
	PermSocialWrite    = "social:write"
	PermGenerateRead   = "generation:read"
	PermGenerateWrite  = "generation:write"
	PermBillingRead    = "billing:read"
	PermBillingManage  = "billing:manage"
	PermAuditRead      = "audit:read"
	PermAPIKeysManage  = "apikeys:manage"
)

var collaboratorPermissions = []string{
	PermAgencyRead,
	PermClientsRead,
	PermCampaignsRead, PermCampaignsWrite,
	PermPostsRead, PermPostsWrite,
	PermSocialRead,
	PermGenerateRead, PermGenerateWrite,
}

var managerPermissions = append(append([]string{}, collaboratorPermissions...),
	PermUsersRead,
	PermClientsWrite,
	PermPostsPublish,
	PermSocialWrite,
	PermBillingRead,
	PermAuditRead,
)

var ownerPermissions = append(append([]string{}, managerPermissions...),
	PermAgencyWrite,
	PermUsersWrite,
	PermInvitesWrite,
	PermBillingManage,
	PermAPIKeysManage,
)

var rolePermissions = map[Role][]string{
	RoleOwner:        ownerPermissions,
	RoleManager:      managerPermissions,
	RoleCollaborator: collaboratorPermissions,
}

// PermissionsForRole returns the permission strings granted to a role
func PermissionsForRole(role Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// RoleHasPermission checks whether a role grants a permission
func RoleHasPermission(role Role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidateRole validates a role value
func ValidateRole(role Role) error {
	switch role {
	case RoleOwner, RoleManager, RoleCollaborator:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Invalid role")
	}
}
