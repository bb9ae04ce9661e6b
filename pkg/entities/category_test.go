package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		err      error
	}{
		{
			name:     "valid",
			category: Category{Name: "Soporte", RoleIDs: RoleSet{"r"}},
		},
		{
			name:     "no name",
			category: Category{Name: "  ", RoleIDs: RoleSet{"r"}},
			err:      ErrCategoryNameRequired,
		},
		{
			name:     "long name",
			category: Category{Name: strings.Repeat("a", MaxCategoryNameLength+1), RoleIDs: RoleSet{"r"}},
			err:      ErrCategoryNameTooLong,
		},
		{
			name:     "long description",
			category: Category{Name: "a", Description: strings.Repeat("a", MaxCategoryDescriptionLength+1), RoleIDs: RoleSet{"r"}},
			err:      ErrCategoryDescriptionTooLong,
		},
		{
			name:     "no roles",
			category: Category{Name: "a"},
			err:      ErrCategoryRolesRequired,
		},
		{
			name:     "too many roles",
			category: Category{Name: "a", RoleIDs: RoleSet{"1", "2", "3", "4"}},
			err:      ErrCategoryTooManyRoles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.category.Validate(), tt.err)
		})
	}
}

func TestCategoryUpdate_Apply(t *testing.T) {
	c := &Category{Name: "Old", Description: "desc", Emoji: "x", RoleIDs: RoleSet{"1"}, TargetContainerID: "c"}

	upd := &CategoryUpdate{}
	require.True(t, upd.IsEmpty())

	name := " New "
	upd.Name = &name
	upd.RoleIDs = RoleSet{"2", "2", "3"}
	require.False(t, upd.IsEmpty())

	upd.Apply(c)
	require.Equal(t, "New", c.Name)
	require.Equal(t, "desc", c.Description)
	require.Equal(t, RoleSet{"2", "3"}, c.RoleIDs)
	require.Equal(t, "c", c.TargetContainerID)
}

func TestTicket_Name(t *testing.T) {
	tk := &Ticket{ID: 12, Category: "Billing & Refunds!"}
	require.Equal(t, "billing-refunds-0012", tk.Name())

	tk = &Ticket{ID: 3, Category: "***"}
	require.Equal(t, "ticket-0003", tk.Name())
}
