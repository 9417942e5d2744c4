package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"yourrest-api/media"
	"yourrest-api/models"
	"yourrest-api/repository"
)

// ProfileUpdate carries the submitted fields; a nil field keeps the stored value.
type ProfileUpdate struct {
	DisplayName *string
	Address     *string
	Picture     *Image
}

type ProfileService struct {
	users  repository.UserRepository
	media  media.Uploader
	preset string
}

func NewProfileService(users repository.UserRepository, uploader media.Uploader, preset string) *ProfileService {
	return &ProfileService{users: users, media: uploader, preset: preset}
}

// Get returns the caller's record, or an empty placeholder when none exists.
func (s *ProfileService) Get(ctx context.Context, caller *Claims) (*models.User, bool, error) {
	user, err := s.users.Get(ctx, caller.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.User{ID: caller.UserID, Email: caller.Email, Role: caller.Role}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return user, true, nil
}

// Save writes name, address and picture in one update, and only when one of
// them differs from the stored record. A failed picture upload writes nothing.
func (s *ProfileService) Save(ctx context.Context, caller *Claims, upd ProfileUpdate) (*models.User, bool, error) {
	user, err := s.users.Get(ctx, caller.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch profile: %w", err)
	}

	fields := models.ProfileFields{
		DisplayName: submitted(upd.DisplayName, user.DisplayName),
		Address:     submitted(upd.Address, user.Address),
		ProfilePic:  user.ProfilePic,
	}
	if fields.DisplayName == user.DisplayName && fields.Address == user.Address && upd.Picture == nil {
		return user, false, nil
	}

	if upd.Picture != nil {
		url, err := s.media.Upload(ctx, upd.Picture.File, upd.Picture.Filename, s.preset)
		if err != nil {
			log.WithError(err).WithField("user_id", caller.UserID).Error("uploading profile picture")
			return nil, false, fmt.Errorf("failed to upload picture: %w", err)
		}
		fields.ProfilePic = url
	}

	if err := s.users.UpdateProfile(ctx, caller.UserID, fields); err != nil {
		return nil, false, fmt.Errorf("failed to save profile: %w", err)
	}
	user.DisplayName, user.Address, user.ProfilePic = fields.DisplayName, fields.Address, fields.ProfilePic
	return user, true, nil
}

func submitted(value *string, stored string) string {
	if value == nil {
		return stored
	}
	return strings.TrimSpace(*value)
}
