package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/pkg/jwt"
	"github.com/pawtrails/pawtrails-api/internal/pkg/password"
)

// Service handles admin authentication
type Service struct {
	repo       *Repository
	jwtService *jwt.Service
}

func NewService(repo *Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwtService: jwtService}
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password collapse into the same error so logins cannot be probed.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("admin logged in")
	return &LoginResponse{AccessToken: token, User: user}, nil
}
