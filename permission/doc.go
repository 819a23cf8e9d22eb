// Package permission implements goSeal's capability matching and role
// expansion. Capabilities are "resource:action" strings; a held pattern may
// be an exact capability, "resource:*" to grant every action on a resource,
// or "*" to grant everything. No other wildcard position is recognized.
//
// Matching and merging are pure functions over string slices — no I/O, no
// failure modes. RoleTable adds a small registration surface on top: roles
// are registered with format-checked permission lists during initialization,
// then frozen before the table is shared with an Engine.
//
// # What this package must NOT do
//
//   - Import goSeal or any sibling package.
//   - Consult stores or the network; expansion happens once at issuance and
//     checks afterwards run purely on the lists carried in the claims.
package permission
