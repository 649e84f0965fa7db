package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix  = "user:%d"
	GroupKeyPrefix = "group:%s"
	PageKeyPrefix  = "page:"
)

const (
	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func InvalidateGroup(ctx context.Context, rdb *redis.Client, slug string) {
	Invalidate(ctx, rdb, GroupKey(slug))
}
