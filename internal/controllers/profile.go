package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	userSearchLimit      = 10
	userSearchCandidates = 50
)

// PublicUser is what any member may see of another member
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func newPublicUser(u models.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.AvatarID,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileView is a user with totals as seen by the caller. Email is only
// set on the caller's own profile.
type ProfileView struct {
	PublicUser
	Email      string `json:"email,omitempty"`
	TotalItems int    `json:"totalItems"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	IsMine     bool   `json:"isMine"`
	IsFollowed bool   `json:"isFollowing"`
}

// UserMatch is a user search hit
type UserMatch struct {
	PublicUser
	IsFollowed bool `json:"isFollowing"`
}

// ProfileController handles user profiles and user search
type ProfileController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewProfileController creates a new profile controller
func NewProfileController(db *models.Database, logger *logrus.Logger) *ProfileController {
	return &ProfileController{db: db, logger: logger}
}

// Profile returns userID's profile; zero means the caller
func (c *ProfileController) Profile(ctx context.Context, identity models.Identity, userID uint) (*ProfileView, error) {
	if userID == 0 {
		userID = identity.UserID
	}
	user, err := c.db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Username == "" {
		user.Username = models.DefaultUsername(user.Name)
	}
	if user.AvatarID == "" {
		user.AvatarID = models.PlaceholderAvatar
	}

	view := &ProfileView{PublicUser: newPublicUser(*user), IsMine: userID == identity.UserID}
	if view.IsMine {
		view.Email = user.Email
	}
	if view.TotalItems, err = c.db.CountItems(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	if view.Followers, err = c.db.CountFollowers(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if view.Following, err = c.db.CountFollowing(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	if !view.IsMine {
		if view.IsFollowed, err = c.db.IsConnected(ctx, identity.UserID, userID); err != nil {
			return nil, fmt.Errorf("failed to check connection: %w", err)
		}
	}
	return view, nil
}

// UpdateProfile changes the caller's name and bio
func (c *ProfileController) UpdateProfile(ctx context.Context, identity models.Identity, update models.ProfileUpdate) (*models.User, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", models.ErrValidation)
	}
	user, err := c.db.UpdateProfile(ctx, identity.UserID, update)
	if err != nil {
		return nil, err
	}
	c.logger.WithField("user_id", identity.UserID).Info("Profile updated")
	return user, nil
}

// UpdateAvatar changes the caller's avatar
func (c *ProfileController) UpdateAvatar(ctx context.Context, identity models.Identity, avatar string) (*models.User, error) {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return nil, fmt.Errorf("%w: avatar is required", models.ErrValidation)
	}
	return c.db.UpdateProfile(ctx, identity.UserID, models.ProfileUpdate{AvatarID: &avatar})
}

// SearchUsers finds other users by name or username, best matches first
func (c *ProfileController) SearchUsers(ctx context.Context, identity models.Identity, query string) ([]UserMatch, error) {
	query = strings.TrimSpace(query)
	matches := []UserMatch{}
	if query == "" {
		return matches, nil
	}

	candidates, err := c.db.SearchUsers(ctx, query, identity.UserID, userSearchCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	ranked := utils.RankByRelevance(query, candidates, func(u models.User) []string {
		return []string{u.Name, u.Username}
	})
	if len(ranked) > userSearchLimit {
		ranked = ranked[:userSearchLimit]
	}

	for _, u := range ranked {
		followed, err := c.db.IsConnected(ctx, identity.UserID, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check connection: %w", err)
		}
		matches = append(matches, UserMatch{PublicUser: newPublicUser(u), IsFollowed: followed})
	}
	return matches, nil
}
