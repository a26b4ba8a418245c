package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/sirupsen/logrus"
)

// LastActivity is the most recent item a user touched
type LastActivity struct {
	ExternalID string          `json:"id"`
	Category   models.Category `json:"category"`
	Title      string          `json:"title"`
	ActionType string          `json:"actionType"`
}

// ConnectionView is a user listed among followers or following
type ConnectionView struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Username     string        `json:"username"`
	Avatar       string        `json:"avatar"`
	TotalItems   int           `json:"totalItems"`
	SharedCount  int           `json:"sharedCount"`
	LastActivity *LastActivity `json:"lastActivity"`
}

// SocialController handles relationships between users
type SocialController struct {
	db       *models.Database
	resolver *Resolver
	logger   *logrus.Logger
}

// NewSocialController creates a new social controller
func NewSocialController(db *models.Database, resolver *Resolver, logger *logrus.Logger) *SocialController {
	return &SocialController{
		db:       db,
		resolver: resolver,
		logger:   logger,
	}
}

// ToggleFollow follows target or stops following it. Only valid for the
// directed relationship model.
func (c *SocialController) ToggleFollow(ctx context.Context, identity models.Identity, target uint) (bool, error) {
	if c.db.Graph().Mode() != models.GraphFollow {
		return false, fmt.Errorf("%w: following is disabled, use friend requests", models.ErrValidation)
	}
	following, err := c.db.ToggleConnection(ctx, identity.UserID, target)
	if err != nil {
		return false, err
	}
	c.logger.WithFields(logrus.Fields{
		"user_id":   identity.UserID,
		"target_id": target,
		"following": following,
	}).Info("Follow toggled")
	return following, nil
}

// AddFriend relates the caller and target both ways. Only valid for the
// symmetric relationship model.
func (c *SocialController) AddFriend(ctx context.Context, identity models.Identity, target uint) error {
	if c.db.Graph().Mode() != models.GraphFriends {
		return fmt.Errorf("%w: friendships are disabled, use follow", models.ErrValidation)
	}
	if err := c.db.Connect(ctx, identity.UserID, target); err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{
		"user_id":   identity.UserID,
		"target_id": target,
	}).Info("Friend added")
	return nil
}

// RemoveConnection drops the edge from the caller to target in either model
func (c *SocialController) RemoveConnection(ctx context.Context, identity models.Identity, target uint) error {
	removed, err := c.db.Disconnect(ctx, identity.UserID, target)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("connection to %d: %w", target, models.ErrNotFound)
	}
	return nil
}

// SharedCount counts the items the caller and other both hold
func (c *SocialController) SharedCount(ctx context.Context, identity models.Identity, other uint) (int, error) {
	if _, err := c.db.GetUser(ctx, other); err != nil {
		return 0, err
	}
	return c.db.SharedCount(ctx, identity.UserID, other)
}

// Followers lists users whose network contains userID
func (c *SocialController) Followers(ctx context.Context, identity models.Identity, userID uint, page, pageSize int) ([]ConnectionView, error) {
	page, pageSize = pageBounds(page, pageSize)
	if _, err := c.db.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := c.db.Followers(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return c.connections(ctx, identity, users)
}

// Following lists the users in userID's network
func (c *SocialController) Following(ctx context.Context, identity models.Identity, userID uint, page, pageSize int) ([]ConnectionView, error) {
	page, pageSize = pageBounds(page, pageSize)
	if _, err := c.db.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := c.db.Following(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return c.connections(ctx, identity, users)
}

func (c *SocialController) connections(ctx context.Context, identity models.Identity, users []models.User) ([]ConnectionView, error) {
	views := make([]ConnectionView, len(users))
	var refs []ItemRef
	var refOwners []int

	for i, u := range users {
		views[i] = ConnectionView{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Avatar:   u.AvatarID,
		}

		total, err := c.db.CountItems(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count items: %w", err)
		}
		views[i].TotalItems = total

		shared, err := c.db.SharedCount(ctx, identity.UserID, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count shared items: %w", err)
		}
		views[i].SharedCount = shared

		last, err := c.db.LastActivity(ctx, u.ID)
		switch {
		case err == nil:
			views[i].LastActivity = &LastActivity{
				ExternalID: last.ExternalID,
				Category:   last.Category,
				ActionType: last.Status.ActionType(),
			}
			refs = append(refs, ItemRef{ExternalID: last.ExternalID, Category: last.Category})
			refOwners = append(refOwners, i)
		case !errors.Is(err, models.ErrNotFound):
			return nil, fmt.Errorf("failed to load last activity: %w", err)
		}
	}

	for j, content := range c.resolver.Resolve(ctx, "connections", refs) {
		views[refOwners[j]].LastActivity.Title = content.Title
	}
	return views, nil
}
