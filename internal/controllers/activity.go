package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// ActivityUser is the owner of an activity entry
type ActivityUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ActivityView is one feed entry
type ActivityView struct {
	ItemID      uint           `json:"itemId"`
	User        ActivityUser   `json:"user"`
	ActionType  string         `json:"actionType"`
	Status      models.Status  `json:"status"`
	Content     models.Content `json:"content"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	TimeAgo     string         `json:"timeAgo"`
	SharedCount *int           `json:"sharedCount,omitempty"`
}

// ActivityController builds activity feeds
type ActivityController struct {
	db       *models.Database
	resolver *Resolver
	logger   *logrus.Logger
	now      func() time.Time
}

// NewActivityController creates a new activity controller
func NewActivityController(db *models.Database, resolver *Resolver, logger *logrus.Logger) *ActivityController {
	return &ActivityController{
		db:       db,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Activity pages through the caller's and their network's activity, or only
// targetUserID's when it is non-zero
func (c *ActivityController) Activity(ctx context.Context, identity models.Identity, targetUserID uint, page, pageSize int) ([]ActivityView, error) {
	page, pageSize = pageBounds(page, pageSize)

	userID, scope := identity.UserID, models.ScopeSelfAndNetwork
	if targetUserID != 0 {
		if _, err := c.db.GetUser(ctx, targetUserID); err != nil {
			return nil, err
		}
		userID, scope = targetUserID, models.ScopeSelf
	}

	entries, err := c.db.RecentActivity(ctx, userID, scope, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	return c.views(ctx, "activity", entries), nil
}

// NetworkActivity pages through the activity of the caller's network only,
// with how many items each member shares with the caller
func (c *ActivityController) NetworkActivity(ctx context.Context, identity models.Identity, page, pageSize int) ([]ActivityView, error) {
	page, pageSize = pageBounds(page, pageSize)

	entries, err := c.db.RecentActivity(ctx, identity.UserID, models.ScopeNetwork, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load network activity: %w", err)
	}
	views := c.views(ctx, "network_activity", entries)

	shared := map[uint]int{}
	for i := range views {
		uid := views[i].User.ID
		n, ok := shared[uid]
		if !ok {
			n, err = c.db.SharedCount(ctx, identity.UserID, uid)
			if err != nil {
				c.logger.WithError(err).WithField("user_id", uid).Warn("Failed to count shared items")
				n = 0
			}
			shared[uid] = n
		}
		views[i].SharedCount = &n
	}
	return views, nil
}

func (c *ActivityController) views(ctx context.Context, operation string, entries []models.ActivityEntry) []ActivityView {
	refs := make([]ItemRef, len(entries))
	for i, e := range entries {
		refs[i] = ItemRef{ExternalID: e.ExternalID, Category: e.Category}
	}
	contents := c.resolver.Resolve(ctx, operation, refs)

	now := c.now()
	out := make([]ActivityView, len(entries))
	for i, e := range entries {
		avatar := e.AvatarID
		if avatar == "" {
			avatar = models.PlaceholderAvatar
		}
		out[i] = ActivityView{
			ItemID: e.ItemID,
			User: ActivityUser{
				ID:       e.UserID,
				Name:     e.Name,
				Username: e.Username,
				Avatar:   avatar,
			},
			ActionType: e.Status.ActionType(),
			Status:     e.Status,
			Content:    contents[i],
			UpdatedAt:  e.UpdatedAt,
			TimeAgo:    humanize.RelTime(e.UpdatedAt, now, "ago", "from now"),
		}
	}
	return out
}
