package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const categoryDalName = "category_dal"

type categoryDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database

	// clock is the source of creation times.
	clock clock.Clock
}

func (d *categoryDal) CreateCategory(ctx context.Context, category *entities.Category) error {
	defer monitoring.ObserveMongo(categoryDalName, "create_category", mongoDatabase, collectionCategories)()

	category.Name = strings.TrimSpace(category.Name)
	category.RoleIDs = entities.NewRoleSet(category.RoleIDs...)
	if err := category.Validate(); err != nil {
		return err
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = d.clock.Now()

	// The unique (guild_id, name) index rejects duplicates atomically.
	_, err := d.db.Collection(collectionCategories).InsertOne(ctx, category)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	} else if err != nil {
		return fmt.Errorf("error inserting category: %w", err)
	}
	return nil
}

func (d *categoryDal) UpdateCategory(ctx context.Context, guildID, name string, upd *entities.CategoryUpdate) (bool, error) {
	defer monitoring.ObserveMongo(categoryDalName, "update_category", mongoDatabase, collectionCategories)()

	current, err := d.GetCategoryByName(ctx, guildID, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	if upd.IsEmpty() {
		return true, nil
	}

	upd.Apply(current)
	if err := current.Validate(); err != nil {
		return false, err
	}

	res, err := d.db.Collection(collectionCategories).UpdateOne(ctx,
		bson.M{"guild_id": guildID, "name": name},
		bson.M{"$set": bson.M{
			"name":                current.Name,
			"description":         current.Description,
			"emoji":               current.Emoji,
			"role_ids":            current.RoleIDs,
			"target_container_id": current.TargetContainerID,
		}},
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, ErrDuplicateName
	} else if err != nil {
		return false, fmt.Errorf("error updating category: %w", err)
	} else if res.MatchedCount == 0 {
		return false, nil
	}

	if current.Name != name {
		// Tickets reference their category by name.
		_, err := d.db.Collection(collectionTickets).UpdateMany(ctx,
			bson.M{"guild_id": guildID, "category": name},
			bson.M{"$set": bson.M{"category": current.Name}},
		)
		if err != nil {
			d.l.Error("Error renaming category on tickets",
				slog.String(logging.KeyGuild, guildID),
				slog.String(logging.KeyCategory, name),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
	return true, nil
}

func (d *categoryDal) RemoveCategory(ctx context.Context, guildID, name string) (bool, error) {
	defer monitoring.ObserveMongo(categoryDalName, "remove_category", mongoDatabase, collectionCategories)()

	res, err := d.db.Collection(collectionCategories).DeleteOne(ctx, bson.M{"guild_id": guildID, "name": name})
	if err != nil {
		return false, fmt.Errorf("error removing category: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (d *categoryDal) AddRoleToCategory(ctx context.Context, guildID, name, roleID string) (bool, error) {
	defer monitoring.ObserveMongo(categoryDalName, "add_role_to_category", mongoDatabase, collectionCategories)()

	if err := d.upgradeLegacyRoles(ctx, guildID, name); err != nil {
		return false, err
	}

	// Only match categories with room for another role so the limit holds under concurrent adds.
	res, err := d.db.Collection(collectionCategories).UpdateOne(ctx,
		bson.M{
			"guild_id": guildID,
			"name":     name,
			fmt.Sprintf("role_ids.%d", entities.MaxCategoryRoles-1): bson.M{"$exists": false},
		},
		bson.M{"$addToSet": bson.M{"role_ids": roleID}},
	)
	if err != nil {
		return false, fmt.Errorf("error adding role to category: %w", err)
	} else if res.MatchedCount > 0 {
		return true, nil
	}

	category, err := d.GetCategoryByName(ctx, guildID, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	} else if category.RoleIDs.Contains(roleID) {
		return true, nil
	}
	return false, ErrRoleLimit
}

// upgradeLegacyRoles rewrites a role set stored as a string into an array, which $addToSet
// requires.
func (d *categoryDal) upgradeLegacyRoles(ctx context.Context, guildID, name string) error {
	filter := bson.M{"guild_id": guildID, "name": name, "role_ids": bson.M{"$type": "string"}}

	legacy := new(legacyRoles)
	err := d.db.Collection(collectionCategories).FindOne(ctx, filter).Decode(legacy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error getting legacy roles: %w", err)
	}

	match, update := legacy.upgrade()
	filter["role_ids"] = match
	if _, err := d.db.Collection(collectionCategories).UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error upgrading legacy roles: %w", err)
	}

	d.l.Info("Upgraded legacy category roles",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyCategory, name),
	)
	return nil
}

// legacyRoles is a category row whose role set is an encoded string.
type legacyRoles struct {
	RoleIDs string `bson:"role_ids"`
}

// upgrade returns the stored value to match, so a concurrent rewrite is not overwritten, and
// the update storing the resolved set as an array.
func (r *legacyRoles) upgrade() (string, bson.M) {
	roles := entities.ParseRoleSet(r.RoleIDs)
	return r.RoleIDs, bson.M{"$set": bson.M{"role_ids": []string(roles)}}
}

func (d *categoryDal) GetCategoryByName(ctx context.Context, guildID, name string) (*entities.Category, error) {
	defer monitoring.ObserveMongo(categoryDalName, "get_category_by_name", mongoDatabase, collectionCategories)()

	category := new(entities.Category)
	err := d.db.Collection(collectionCategories).FindOne(ctx, bson.M{"guild_id": guildID, "name": name}).Decode(category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return category, nil
}

func (d *categoryDal) ListCategories(ctx context.Context, guildID string) ([]*entities.Category, error) {
	defer monitoring.ObserveMongo(categoryDalName, "list_categories", mongoDatabase, collectionCategories)()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "name", Value: 1}})
	cur, err := d.db.Collection(collectionCategories).Find(ctx, bson.M{"guild_id": guildID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	categories := make([]*entities.Category, 0)
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("error decoding categories: %w", err)
	}
	return categories, nil
}
