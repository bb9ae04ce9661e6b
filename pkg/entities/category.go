package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxCategoryRoles is the maximum number of staff roles a category can have.
	MaxCategoryRoles = 3

	// MaxCategoryNameLength is the maximum length of a category name. Button labels and custom IDs
	// are limited by Discord so names are kept short.
	MaxCategoryNameLength = 45

	// MaxCategoryDescriptionLength is the maximum length of a category description.
	MaxCategoryDescriptionLength = 200
)

var (
	// ErrCategoryNameRequired is returned when a category has no name.
	ErrCategoryNameRequired = errors.New("name is required")

	// ErrCategoryNameTooLong is returned when a category name is too long.
	ErrCategoryNameTooLong = fmt.Errorf("name must be at most %d characters", MaxCategoryNameLength)

	// ErrCategoryDescriptionTooLong is returned when a category description is too long.
	ErrCategoryDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxCategoryDescriptionLength)

	// ErrCategoryRolesRequired is returned when a category has no staff role.
	ErrCategoryRolesRequired = errors.New("at least one staff role is required")

	// ErrCategoryTooManyRoles is returned when a category has more than MaxCategoryRoles roles.
	ErrCategoryTooManyRoles = fmt.Errorf("at most %d staff roles are allowed", MaxCategoryRoles)
)

// Category is a ticket department. Tickets opened in a category are visible to its staff roles
// and are created under the target container.
type Category struct {
	// ID is the unique ID of the category.
	ID string `json:"id" bson:"id"`

	// GuildID is the ID of the guild that owns the category.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// Name is the name of the category. It is unique within a guild.
	Name string `json:"name" bson:"name"`

	// Description is shown on the ticket panel.
	Description string `json:"description" bson:"description"`

	// Emoji is shown on the category button.
	Emoji string `json:"emoji" bson:"emoji"`

	// RoleIDs are the staff roles that handle tickets for the category.
	RoleIDs RoleSet `json:"role_ids" bson:"role_ids"`

	// TargetContainerID is the ID of the channel category new ticket channels are created in.
	TargetContainerID string `json:"target_container_id" bson:"target_container_id"`

	// CreatedAt is the time the category was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Validate checks the category fields.
func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		return ErrCategoryNameRequired
	case utf8.RuneCountInString(name) > MaxCategoryNameLength:
		return ErrCategoryNameTooLong
	case utf8.RuneCountInString(c.Description) > MaxCategoryDescriptionLength:
		return ErrCategoryDescriptionTooLong
	case len(c.RoleIDs) == 0:
		return ErrCategoryRolesRequired
	case len(c.RoleIDs) > MaxCategoryRoles:
		return ErrCategoryTooManyRoles
	}
	return nil
}

// CategoryUpdate is a partial category update. Nil fields are left unchanged.
type CategoryUpdate struct {
	Name              *string
	Description       *string
	Emoji             *string
	RoleIDs           RoleSet
	TargetContainerID *string
}

// IsEmpty reports whether the update changes nothing.
func (u *CategoryUpdate) IsEmpty() bool {
	return u == nil || (u.Name == nil &&
		u.Description == nil &&
		u.Emoji == nil &&
		u.RoleIDs == nil &&
		u.TargetContainerID == nil)
}

// Apply applies the update to c.
func (u *CategoryUpdate) Apply(c *Category) {
	if u == nil {
		return
	}
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Emoji != nil {
		c.Emoji = *u.Emoji
	}
	if u.RoleIDs != nil {
		c.RoleIDs = NewRoleSet(u.RoleIDs...)
	}
	if u.TargetContainerID != nil {
		c.TargetContainerID = *u.TargetContainerID
	}
}
