package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	RevokedTokenKeyPrefix = "jwt:revoked:%s"
)

const (
	UserTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenKeyPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
