package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RoleSet is a set of role IDs. The order of the IDs carries no meaning, duplicates and empty
// IDs are never stored.
type RoleSet []string

// NewRoleSet creates a role set from the given IDs, dropping blanks and duplicates.
func NewRoleSet(ids ...string) RoleSet {
	set := make(RoleSet, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || set.Contains(id) {
			continue
		}
		set = append(set, id)
	}
	return set
}

// ParseRoleSet resolves a raw role field into a role set. The raw value may be a single ID, a
// JSON list (["1","2"]), a bracketed list ([1, 2]) or a comma separated list (1,2). A value that
// can not be parsed as a list is treated as a single ID.
func ParseRoleSet(raw string) RoleSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoleSet{}
	}

	body := raw
	switch {
	case strings.HasPrefix(raw, "["):
		if !strings.HasSuffix(raw, "]") {
			return RoleSet{raw}
		}
		body = raw[1 : len(raw)-1]
	case !strings.Contains(raw, ","):
		return RoleSet{raw}
	}

	ids := make([]string, 0)
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		if part == "" {
			continue
		}
		if !isIdentity(part) {
			return RoleSet{raw}
		}
		ids = append(ids, part)
	}

	return NewRoleSet(ids...)
}

func isIdentity(s string) bool {
	return !strings.ContainsAny(s, " \t\r\n[]\"',")
}

// Contains reports whether the set contains id.
func (r RoleSet) Contains(id string) bool {
	for _, v := range r {
		if v == id {
			return true
		}
	}
	return false
}

// Intersects reports whether any of ids is in the set.
func (r RoleSet) Intersects(ids []string) bool {
	for _, id := range ids {
		if r.Contains(id) {
			return true
		}
	}
	return false
}

// Add returns the set with id added. The bool is false when id was already present.
func (r RoleSet) Add(id string) (RoleSet, bool) {
	id = strings.TrimSpace(id)
	if id == "" || r.Contains(id) {
		return r, false
	}
	return append(r, id), true
}

// String encodes the set as a JSON list.
func (r RoleSet) String() string {
	if r == nil {
		r = RoleSet{}
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// UnmarshalBSONValue decodes both the array form and legacy rows where the roles were stored as a
// single (possibly list encoded) string.
func (r *RoleSet) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*r = RoleSet{}
	case bson.TypeString:
		*r = ParseRoleSet(raw.StringValue())
	case bson.TypeArray:
		values, err := raw.Array().Values()
		if err != nil {
			return fmt.Errorf("error reading role array: %w", err)
		}

		ids := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.StringValueOK(); ok {
				ids = append(ids, s)
			}
		}
		*r = NewRoleSet(ids...)
	default:
		return fmt.Errorf("invalid role set, bson type %s not supported", t)
	}
	return nil
}

// Value implements the driver.Valuer interface.
func (r RoleSet) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements the sql.Scanner interface.
func (r *RoleSet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = RoleSet{}
	case string:
		*r = ParseRoleSet(v)
	case []byte:
		*r = ParseRoleSet(string(v))
	default:
		return fmt.Errorf("invalid scan, type %T not supported for %T", src, r)
	}
	return nil
}
