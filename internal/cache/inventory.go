package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	ResourceKeyPrefix = "resource:%d"
	ModulesKey        = "modules"
	EventsKey         = "calendar:events"
	ChatSessionPrefix = "chat:session:%s"
)

const (
	UserTTL        = 5 * time.Minute
	ResourceTTL    = 10 * time.Minute
	ModulesTTL     = 10 * time.Minute
	EventsTTL      = 5 * time.Minute
	ChatSessionTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ResourceKey(id uint) string {
	return fmt.Sprintf(ResourceKeyPrefix, id)
}

func ChatSessionKey(sessionID string) string {
	return fmt.Sprintf(ChatSessionPrefix, sessionID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateEvents(ctx context.Context) {
	Invalidate(ctx, EventsKey)
}
