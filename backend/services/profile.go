package services

import (
	"context"
	"errors"
	"strings"

	"learnpath/backend/models"
	"learnpath/backend/store"
	"learnpath/backend/utils"
)

type ProfileRequest struct {
	FullName      string `json:"fullName" validate:"required,min=2,max=100"`
	Username      string `json:"username" validate:"required,min=3,max=30,username"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	Country       string `json:"country" validate:"max=100"`
	ProfileImage  string `json:"profileImage"`
	LearningStyle string `json:"learningStyle" validate:"omitempty,oneof=visual reading hands-on mixed"`
	Level         string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type ProfileService struct {
	store store.Store
}

func NewProfileService(s store.Store) *ProfileService {
	return &ProfileService{store: s}
}

// Update overwrites the editable profile fields of userID. The username must not
// belong to another user.
func (s *ProfileService) Update(ctx context.Context, userID string, req ProfileRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.NewNotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	if other, err := s.store.FindUserByUsername(ctx, req.Username); err == nil && other.ID != user.ID {
		return nil, usernameTaken()
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user.FullName = req.FullName
	user.Username = req.Username
	user.Phone = strings.TrimSpace(req.Phone)
	user.Country = strings.TrimSpace(req.Country)
	user.ProfileImage = req.ProfileImage
	user.Preferences = models.Preferences{LearningStyle: req.LearningStyle, Level: req.Level}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, usernameTaken()
		}
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) ByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.NewNotFound("User not found")
	}
	return user, err
}
