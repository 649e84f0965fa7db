package seed

import (
	"context"
	_ "embed"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed groups.yml
var groupsYAML []byte

// BuiltInGroup is a group every installation starts with.
type BuiltInGroup struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// LoadBuiltInGroups parses the embedded group catalogue.
func LoadBuiltInGroups() ([]BuiltInGroup, error) {
	var doc struct {
		Groups []BuiltInGroup `yaml:"groups"`
	}
	if err := yaml.Unmarshal(groupsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse groups.yml: %w", err)
	}
	for _, g := range doc.Groups {
		if g.Slug == "" || g.Title == "" {
			return nil, fmt.Errorf("groups.yml: group %q needs a title and a slug", g.Slug)
		}
	}
	return doc.Groups, nil
}

// Groups creates the built-in groups or refreshes their title and description.
// Cached copies in rdb, if any, are dropped.
func Groups(ctx context.Context, db *gorm.DB, rdb *redis.Client) ([]*models.Group, error) {
	items, err := LoadBuiltInGroups()
	if err != nil {
		return nil, err
	}

	repo := repository.NewGroupRepository(db, rdb)
	groups := make([]*models.Group, 0, len(items))
	for _, item := range items {
		group := &models.Group{Title: item.Title, Slug: item.Slug, Description: item.Description}
		if err := repo.Upsert(ctx, group); err != nil {
			return nil, fmt.Errorf("seed built-in group %s: %w", item.Slug, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}
