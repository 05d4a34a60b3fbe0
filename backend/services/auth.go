package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"learnpath/backend/models"
	"learnpath/backend/store"
	"learnpath/backend/utils"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Country  string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

var errInvalidCredentials = utils.NewUnauthorized("Invalid email or password")

type AuthService struct {
	store  store.Store
	secret string
	ttl    time.Duration
	log    *utils.Logger
}

func NewAuthService(s store.Store, secret string, ttl time.Duration, log *utils.Logger) *AuthService {
	return &AuthService{store: s, secret: secret, ttl: ttl, log: log.With("service", "AuthService")}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, utils.NewConflict("Email is already registered",
			utils.FieldError{Field: "email", Message: "This email is already in use"})
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, utils.NewValidationError("Validation failed",
			utils.FieldError{Field: "password", Message: "password cannot exceed 72 bytes"})
	}
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Username:     req.Username,
		Phone:        strings.TrimSpace(req.Phone),
		Country:      strings.TrimSpace(req.Country),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, utils.NewConflict("Email or username is already in use")
		}
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.store.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	return s.issue(user)
}

// Me loads the user a token was issued to.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.NewNotFound("User not found")
	}
	return user, err
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateJWTToken(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func usernameTaken() *utils.AppError {
	return utils.NewConflict("Username is already taken",
		utils.FieldError{Field: "username", Message: "This username is already in use"})
}
