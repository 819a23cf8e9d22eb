package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/MrEthical07/goSeal/permission"
)

// Claims is the structured payload of a token. Subject and Expiry are
// required; everything else is optional. Custom holds claim names outside
// the known set and is flattened into the same JSON object on the wire.
//
// After issuance Permissions holds the merged result of role expansion plus
// any explicitly granted patterns, so permission checks never consult the
// role table again.
type Claims struct {
	Subject     string
	Expiry      int64 // unix seconds
	IssuedAt    int64 // unix seconds, 0 when absent
	Issuer      string
	Audience    []string
	NotBefore   int64 // unix seconds, 0 when absent
	TokenID     string
	Roles       []string
	Permissions []string
	Custom      map[string]any
}

// Fixed wire keys for the known fields. Custom claims under these names are
// dropped at encode time so the known fields always win.
const (
	keySubject     = "sub"
	keyExpiry      = "exp"
	keyIssuedAt    = "iat"
	keyIssuer      = "iss"
	keyAudience    = "aud"
	keyNotBefore   = "nbf"
	keyTokenID     = "jti"
	keyRoles       = "roles"
	keyPermissions = "permissions"
)

var knownClaimKeys = map[string]struct{}{
	keySubject:     {},
	keyExpiry:      {},
	keyIssuedAt:    {},
	keyIssuer:      {},
	keyAudience:    {},
	keyNotBefore:   {},
	keyTokenID:     {},
	keyRoles:       {},
	keyPermissions: {},
}

// MarshalJSON flattens known fields and custom claims into one object.
// Zero-valued optional fields are omitted entirely.
func (c Claims) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(knownClaimKeys)+len(c.Custom))

	for name, value := range c.Custom {
		if _, known := knownClaimKeys[name]; known {
			continue
		}
		body[name] = value
	}

	if c.Subject != "" {
		body[keySubject] = c.Subject
	}
	if c.Expiry != 0 {
		body[keyExpiry] = c.Expiry
	}
	if c.IssuedAt != 0 {
		body[keyIssuedAt] = c.IssuedAt
	}
	if c.Issuer != "" {
		body[keyIssuer] = c.Issuer
	}
	if len(c.Audience) > 0 {
		body[keyAudience] = c.Audience
	}
	if c.NotBefore != 0 {
		body[keyNotBefore] = c.NotBefore
	}
	if c.TokenID != "" {
		body[keyTokenID] = c.TokenID
	}
	if len(c.Roles) > 0 {
		body[keyRoles] = c.Roles
	}
	if len(c.Permissions) > 0 {
		body[keyPermissions] = c.Permissions
	}

	return json.Marshal(body)
}

// UnmarshalJSON splits a flat claims object by the known-key set. Fields
// absent from the wire stay zero; everything unknown lands in Custom.
// Numbers are decoded as json.Number so large integer claims survive.
func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var err error
	if c.Subject, err = takeString(raw, keySubject); err != nil {
		return err
	}
	if c.Expiry, err = takeInt64(raw, keyExpiry); err != nil {
		return err
	}
	if c.IssuedAt, err = takeInt64(raw, keyIssuedAt); err != nil {
		return err
	}
	if c.Issuer, err = takeString(raw, keyIssuer); err != nil {
		return err
	}
	if c.Audience, err = takeStrings(raw, keyAudience); err != nil {
		return err
	}
	if c.NotBefore, err = takeInt64(raw, keyNotBefore); err != nil {
		return err
	}
	if c.TokenID, err = takeString(raw, keyTokenID); err != nil {
		return err
	}
	if c.Roles, err = takeStrings(raw, keyRoles); err != nil {
		return err
	}
	if c.Permissions, err = takeStrings(raw, keyPermissions); err != nil {
		return err
	}

	if len(raw) > 0 {
		c.Custom = raw
	} else {
		c.Custom = nil
	}

	return nil
}

func takeString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", nil
	}
	delete(raw, key)

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("claim %q is not a string", key)
	}
	return s, nil
}

func takeInt64(raw map[string]any, key string) (int64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, nil
	}
	delete(raw, key)

	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("claim %q is not a number", key)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("claim %q is not an integer: %w", key, err)
	}
	return i, nil
}

func takeStrings(raw map[string]any, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	delete(raw, key)

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("claim %q is not a string array", key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("claim %q contains a non-string element", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// Clone returns a copy whose slices and Custom map are independent of the
// receiver. Values inside Custom are shared.
func (c *Claims) Clone() *Claims {
	if c == nil {
		return nil
	}

	out := *c
	out.Audience = slices.Clone(c.Audience)
	out.Roles = slices.Clone(c.Roles)
	out.Permissions = slices.Clone(c.Permissions)
	out.Custom = maps.Clone(c.Custom)
	return &out
}

// HasRole reports whether the named role was attached at issuance.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasPermission reports whether any held pattern grants the capability.
func (c *Claims) HasPermission(capability string) bool {
	return permission.Granted(c.Permissions, capability)
}

// HasAnyPermission reports whether at least one requested capability is granted.
func (c *Claims) HasAnyPermission(capabilities ...string) bool {
	return permission.HasAny(c.Permissions, capabilities)
}

// HasAllPermissions reports whether every requested capability is granted.
func (c *Claims) HasAllPermissions(capabilities ...string) bool {
	return permission.HasAll(c.Permissions, capabilities)
}
