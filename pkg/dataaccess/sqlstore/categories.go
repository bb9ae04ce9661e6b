package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	tableCategories = "categories"
	tableTickets    = "tickets"
	tableActions    = "ticket_actions"
	tableCounters   = "ticket_counters"
	tableGuilds     = "guilds"
	tableBindings   = "panel_bindings"
)

func (s *Store) CreateCategory(ctx context.Context, category *entities.Category) error {
	defer monitoring.ObserveSql(dalName, "create_category", tableCategories)()

	category.Name = strings.TrimSpace(category.Name)
	category.RoleIDs = entities.NewRoleSet(category.RoleIDs...)
	if err := category.Validate(); err != nil {
		return err
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = s.clock.Now()

	row := &categoryRow{
		ID:                category.ID,
		GuildID:           category.GuildID,
		Name:              category.Name,
		Description:       category.Description,
		Emoji:             category.Emoji,
		RoleIDs:           category.RoleIDs,
		TargetContainerID: category.TargetContainerID,
		CreatedAt:         category.CreatedAt,
	}

	err := s.db.WithContext(ctx).Create(row).Error
	if isDuplicate(err) {
		return dataaccess.ErrDuplicateName
	} else if err != nil {
		return fmt.Errorf("error inserting category: %w", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, guildID, name string, upd *entities.CategoryUpdate) (bool, error) {
	defer monitoring.ObserveSql(dalName, "update_category", tableCategories)()

	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := new(categoryRow)
		err := tx.Where("guild_id = ? AND name = ?", guildID, name).First(row).Error
		if isNotFound(err) {
			return nil
		} else if err != nil {
			return fmt.Errorf("error getting category: %w", err)
		}
		found = true

		if upd.IsEmpty() {
			return nil
		}

		category := row.toEntity()
		upd.Apply(category)
		if err := category.Validate(); err != nil {
			return err
		}

		err = tx.Model(&categoryRow{}).Where("id = ?", row.ID).Updates(map[string]any{
			"name":                category.Name,
			"description":         category.Description,
			"emoji":               category.Emoji,
			"role_ids":            category.RoleIDs,
			"target_container_id": category.TargetContainerID,
		}).Error
		if isDuplicate(err) {
			return dataaccess.ErrDuplicateName
		} else if err != nil {
			return fmt.Errorf("error updating category: %w", err)
		}

		if category.Name == name {
			return nil
		}

		// Tickets reference their category by name.
		err = tx.Model(&ticketRow{}).
			Where("guild_id = ? AND category = ?", guildID, name).
			Update("category", category.Name).Error
		if err != nil {
			return fmt.Errorf("error renaming category on tickets: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *Store) RemoveCategory(ctx context.Context, guildID, name string) (bool, error) {
	defer monitoring.ObserveSql(dalName, "remove_category", tableCategories)()

	res := s.db.WithContext(ctx).Where("guild_id = ? AND name = ?", guildID, name).Delete(&categoryRow{})
	if res.Error != nil {
		return false, fmt.Errorf("error removing category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) AddRoleToCategory(ctx context.Context, guildID, name, roleID string) (bool, error) {
	defer monitoring.ObserveSql(dalName, "add_role_to_category", tableCategories)()

	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := new(categoryRow)
		err := tx.Where("guild_id = ? AND name = ?", guildID, name).First(row).Error
		if isNotFound(err) {
			return nil
		} else if err != nil {
			return fmt.Errorf("error getting category: %w", err)
		}
		found = true

		roles, added := row.RoleIDs.Add(roleID)
		if !added {
			return nil
		}
		if len(roles) > entities.MaxCategoryRoles {
			return dataaccess.ErrRoleLimit
		}

		if err := tx.Model(&categoryRow{}).Where("id = ?", row.ID).Update("role_ids", roles).Error; err != nil {
			return fmt.Errorf("error adding role to category: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *Store) GetCategoryByName(ctx context.Context, guildID, name string) (*entities.Category, error) {
	defer monitoring.ObserveSql(dalName, "get_category_by_name", tableCategories)()

	row := new(categoryRow)
	err := s.db.WithContext(ctx).Where("guild_id = ? AND name = ?", guildID, name).First(row).Error
	if isNotFound(err) {
		return nil, dataaccess.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return row.toEntity(), nil
}

func (s *Store) ListCategories(ctx context.Context, guildID string) ([]*entities.Category, error) {
	defer monitoring.ObserveSql(dalName, "list_categories", tableCategories)()

	rows := make([]*categoryRow, 0)
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	categories := make([]*entities.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.toEntity())
	}
	return categories, nil
}
