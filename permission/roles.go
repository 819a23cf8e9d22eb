package permission

import (
	"errors"
	"fmt"
	"sync"
)

// ExpandRoles unions the permission lists of the named roles. Role order and
// within-role order are preserved; duplicates keep their first occurrence.
// Unknown role names contribute nothing and are not an error.
func ExpandRoles(roleNames []string, roleTable map[string][]string) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, role := range roleNames {
		for _, pattern := range roleTable[role] {
			if _, dup := seen[pattern]; dup {
				continue
			}
			seen[pattern] = struct{}{}
			out = append(out, pattern)
		}
	}

	return out
}

// MergePermissions combines role-expanded and explicitly granted patterns
// into the final held list: expansion result first, explicit patterns
// appended, duplicates dropped keeping the first occurrence. The result is
// deterministic for identical inputs.
func MergePermissions(roleNames, explicit []string, roleTable map[string][]string) []string {
	out := ExpandRoles(roleNames, roleTable)

	seen := make(map[string]struct{}, len(out))
	for _, pattern := range out {
		seen[pattern] = struct{}{}
	}

	for _, pattern := range explicit {
		if _, dup := seen[pattern]; dup {
			continue
		}
		seen[pattern] = struct{}{}
		out = append(out, pattern)
	}

	return out
}

// RoleTable maps role names to permission pattern lists. Roles are
// registered during initialization and the table is frozen before it is
// shared; after Freeze every method is read-only and safe for concurrent
// use without contention on the write path.
type RoleTable struct {
	mu     sync.RWMutex
	roles  map[string][]string
	frozen bool
}

// NewRoleTable returns an empty, unfrozen role table.
func NewRoleTable() *RoleTable {
	return &RoleTable{roles: make(map[string][]string)}
}

// Register adds a role with its permission patterns. Every pattern must
// pass ValidateFormat. Re-registering a role name replaces its list.
func (t *RoleTable) Register(role string, patterns []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return errors.New("role table frozen")
	}
	if role == "" {
		return errors.New("role name cannot be empty")
	}

	for _, pattern := range patterns {
		if !ValidateFormat(pattern) {
			return fmt.Errorf("role %q: invalid permission pattern %q", role, pattern)
		}
	}

	t.roles[role] = append([]string(nil), patterns...)
	return nil
}

// Freeze makes the table immutable. Freezing twice is a no-op.
func (t *RoleTable) Freeze() {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
}

// Permissions returns the pattern list for one role and whether it exists.
func (t *RoleTable) Permissions(role string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	patterns, ok := t.roles[role]
	if !ok {
		return nil, false
	}
	return append([]string(nil), patterns...), true
}

// Expand unions the permission lists of the named roles, like ExpandRoles.
func (t *RoleTable) Expand(roleNames []string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return ExpandRoles(roleNames, t.roles)
}

// Merge combines role expansion with explicit patterns, like MergePermissions.
func (t *RoleTable) Merge(roleNames, explicit []string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return MergePermissions(roleNames, explicit, t.roles)
}
