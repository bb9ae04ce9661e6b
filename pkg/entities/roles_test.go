package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseRoleSet(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RoleSet
	}{
		{name: "empty", raw: "", want: RoleSet{}},
		{name: "whitespace", raw: "   ", want: RoleSet{}},
		{name: "single", raw: "111", want: RoleSet{"111"}},
		{name: "json list", raw: `["111","222"]`, want: RoleSet{"111", "222"}},
		{name: "bracket list", raw: "[111, 222, 333]", want: RoleSet{"111", "222", "333"}},
		{name: "comma list", raw: "111,222", want: RoleSet{"111", "222"}},
		{name: "duplicates", raw: `["111","111","222"]`, want: RoleSet{"111", "222"}},
		{name: "empty list", raw: "[]", want: RoleSet{}},
		{name: "unterminated", raw: `["111","222"`, want: RoleSet{`["111","222"`}},
		{name: "spaces inside element", raw: "[111 222]", want: RoleSet{"[111 222]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseRoleSet(tt.raw))
		})
	}
}

func TestParseRoleSet_Idempotent(t *testing.T) {
	for _, raw := range []string{"111", `["111","222"]`, "[1, 2]", "a,b,c", "[]"} {
		first := ParseRoleSet(raw)
		require.Equal(t, first, ParseRoleSet(first.String()), raw)
	}
}

func TestRoleSet_Membership(t *testing.T) {
	set := NewRoleSet("a", " ", "b", "a")
	require.Equal(t, RoleSet{"a", "b"}, set)
	require.True(t, set.Contains("a"))
	require.False(t, set.Contains("c"))
	require.True(t, set.Intersects([]string{"x", "b"}))
	require.False(t, set.Intersects(nil))

	set, added := set.Add("c")
	require.True(t, added)
	require.Len(t, set, 3)

	_, added = set.Add("a")
	require.False(t, added)
}

func TestRoleSet_UnmarshalBSONValue(t *testing.T) {
	type doc struct {
		RoleIDs RoleSet `bson:"role_ids"`
	}

	tests := []struct {
		name string
		in   bson.M
		want RoleSet
	}{
		{name: "array", in: bson.M{"role_ids": bson.A{"1", "2"}}, want: RoleSet{"1", "2"}},
		{name: "legacy scalar", in: bson.M{"role_ids": "1"}, want: RoleSet{"1"}},
		{name: "legacy encoded list", in: bson.M{"role_ids": `["1","2"]`}, want: RoleSet{"1", "2"}},
		{name: "null", in: bson.M{"role_ids": nil}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := bson.Marshal(tt.in)
			require.NoError(t, err)

			got := new(doc)
			require.NoError(t, bson.Unmarshal(b, got))
			if tt.want == nil {
				require.Empty(t, got.RoleIDs)
				return
			}
			require.Equal(t, tt.want, got.RoleIDs)
		})
	}
}

func TestRoleSet_SQL(t *testing.T) {
	v, err := RoleSet{"1", "2"}.Value()
	require.NoError(t, err)
	require.Equal(t, `["1","2"]`, v)

	got := new(RoleSet)
	require.NoError(t, got.Scan([]byte(`["1","2"]`)))
	require.Equal(t, RoleSet{"1", "2"}, *got)

	require.NoError(t, got.Scan("legacy"))
	require.Equal(t, RoleSet{"legacy"}, *got)

	require.Error(t, got.Scan(42))
}
