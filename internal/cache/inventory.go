package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	CommunityKeyPrefix = "community:%d"
	PostKeyPrefix      = "community:post:%d"
	UnreadCountPrefix  = "notifications:unread:%d"
	CommunityListKey   = "communities:accessible:%d"
	PendingReportsKey  = "reports:pending:count"
)

const (
	UserTTL          = 5 * time.Minute
	CommunityTTL     = 10 * time.Minute
	PostTTL          = 30 * time.Minute
	UnreadCountTTL   = 30 * time.Second
	CommunityListTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CommunityKey(communityID uint) string {
	return fmt.Sprintf(CommunityKeyPrefix, communityID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UnreadCountKey(userID uint) string {
	return fmt.Sprintf(UnreadCountPrefix, userID)
}

func CommunityListKeyFor(userID uint) string {
	return fmt.Sprintf(CommunityListKey, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCommunity(ctx context.Context, communityID uint) {
	Invalidate(ctx, CommunityKey(communityID))
}

func InvalidateUnreadCount(ctx context.Context, userID uint) {
	Invalidate(ctx, UnreadCountKey(userID))
}
