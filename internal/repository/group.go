package repository

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Upsert(ctx context.Context, group *models.Group) error
}

type groupRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewGroupRepository creates a new group repository.
// Lookups by slug are cached in rdb when it is not nil.
func NewGroupRepository(db *gorm.DB, rdb *redis.Client) GroupRepository {
	return &groupRepository{db: db, rdb: rdb}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := cache.Aside(ctx, r.rdb, cache.GroupKey(slug), &group, cache.GroupTTL, func() error {
		return r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// Upsert creates the group or refreshes title and description of the group with the same slug.
func (r *groupRepository) Upsert(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
	}).Create(group).Error
	if err != nil {
		return err
	}
	cache.InvalidateGroup(ctx, r.rdb, group.Slug)

	// The returned id is unreliable for the update branch on some drivers.
	var stored models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", group.Slug).First(&stored).Error; err != nil {
		return err
	}
	*group = stored
	return nil
}
