package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	DreamKeyPrefix   = "dream:%d"
	InsightKeyPrefix = "dream:%d:insight"
	VocabKeyPrefix   = "vocab:%s"
)

const (
	UserTTL    = 5 * time.Minute
	DreamTTL   = 10 * time.Minute
	InsightTTL = 30 * time.Minute
	VocabTTL   = 15 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DreamKey(dreamID uint) string {
	return fmt.Sprintf(DreamKeyPrefix, dreamID)
}

func InsightKey(dreamID uint) string {
	return fmt.Sprintf(InsightKeyPrefix, dreamID)
}

// VocabKey caches the full vocabulary list for a kind ("emotions" or "themes").
func VocabKey(kind string) string {
	return fmt.Sprintf(VocabKeyPrefix, kind)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateDream(ctx context.Context, dreamID uint) {
	Invalidate(ctx, DreamKey(dreamID))
	Invalidate(ctx, InsightKey(dreamID))
}

func InvalidateVocab(ctx context.Context, kind string) {
	Invalidate(ctx, VocabKey(kind))
}
