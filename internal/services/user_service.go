package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"gamehub/internal/auth"
	"gamehub/internal/domain"
	"gamehub/pkg/logger"
	"gamehub/pkg/utils"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{2,32}$`)

var ErrInvalidUsername = errors.New("invalid username")

type UserService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	log    logger.Logger
}

func NewUserService(users domain.UserRepository, tokens *auth.TokenManager, log logger.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// NormalizeUsername lowercases and trims a username and validates the
// allowed alphabet.
func NormalizeUsername(username string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(normalized) {
		return "", ErrInvalidUsername
	}
	return normalized, nil
}

func (s *UserService) Register(ctx context.Context, email, username, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &domain.User{
		ID:           utils.GenerateID("user"),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login accepts either the email or the username as the login.
func (s *UserService) Login(ctx context.Context, login, password string) (*domain.User, string, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	user, err := s.users.GetUserByEmail(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.users.GetUserByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *UserService) UpdateUsername(ctx context.Context, userID, username string) (*domain.User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err == nil && existing.ID != userID {
		return nil, domain.ErrUsernameTaken
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if err := s.users.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}

	return s.users.GetUser(ctx, userID)
}
