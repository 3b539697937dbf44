package counsel

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/imci/internal/store"
)

// Role is who is using the tool. It only changes how advice is worded,
// never the classification.
type Role string

const (
	RoleCaregiver    Role = "caregiver"
	RoleHealthWorker Role = "healthWorker"
	RoleAdmin        Role = "admin"
)

// AllRoles returns the roles in menu order.
func AllRoles() []Role {
	return []Role{RoleCaregiver, RoleHealthWorker, RoleAdmin}
}

// ParseRole accepts the canonical ids plus kebab and snake case spellings.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "caregiver", "parent":
		return RoleCaregiver, nil
	case "healthworker", "chw":
		return RoleHealthWorker, nil
	case "admin", "administrator":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q (want caregiver, healthWorker or admin)", s)
}

// Name is the display name.
func (r Role) Name() string {
	switch r {
	case RoleCaregiver:
		return "Caregiver/Parent"
	case RoleHealthWorker:
		return "Health Worker"
	case RoleAdmin:
		return "Administrator"
	}
	return string(r)
}

// Description is a one-line summary shown in role menus.
func (r Role) Description() string {
	switch r {
	case RoleCaregiver:
		return "Symptom checker with plain-language home care advice"
	case RoleHealthWorker:
		return "Clinical decision support with treatment references"
	case RoleAdmin:
		return "Protocol management and request log oversight"
	}
	return ""
}

// Clinical reports whether the role should see clinical wording and
// dosing references.
func (r Role) Clinical() bool {
	return r == RoleHealthWorker || r == RoleAdmin
}

// LoadRole returns the saved role, or RoleCaregiver when none is saved.
func LoadRole(ctx context.Context, settings store.SettingsRepo) (Role, error) {
	v, ok, err := settings.Get(ctx, store.KeyRole)
	if err != nil || !ok {
		return RoleCaregiver, err
	}
	return ParseRole(v)
}

// SaveRole persists r as the active role.
func SaveRole(ctx context.Context, settings store.SettingsRepo, r Role) error {
	if _, err := ParseRole(string(r)); err != nil {
		return err
	}
	return settings.Set(ctx, store.KeyRole, string(r))
}
