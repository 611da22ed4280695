package auth

import (
	"log/slog"
	"strconv"

	userDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/user"
)

type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	record, err := s.repo.GetByEmail(dto.Email)
	if err != nil || record == nil {
		s.logger.Warn("login failed: unknown email", "email", dto.Email)
		return AuthTokens{}, ErrInvalidCredentials
	}

	if !record.IsActive {
		s.logger.Warn("login rejected: inactive account", "user_id", record.ID)
		return AuthTokens{}, ErrUserInactive
	}

	if err := VerifyPassword(record.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed: bad password", "user_id", record.ID)
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(record)
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	record, err := s.repo.GetByID(userID)
	if err != nil || record == nil {
		return AuthTokens{}, ErrInvalidToken
	}
	if !record.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	return s.issueTokens(record)
}

func (s *Service) issueTokens(record *userDatamodel.User) (AuthTokens, error) {
	id := strconv.FormatInt(record.ID, 10)

	access, err := s.tokens.GenerateAccessToken(id, record.Email, record.Role)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(id, record.Email, record.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.Info("tokens issued", "user_id", record.ID, "role", record.Role)
	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	record, err := s.repo.GetByID(userID)
	if err != nil || record == nil {
		return nil, ErrInvalidToken
	}
	if !record.IsActive {
		return nil, ErrUserInactive
	}

	return &User{
		ID:          record.ID,
		Email:       record.Email,
		Name:        record.Name,
		Role:        record.Role,
		EmployeeID:  record.EmployeeID,
		Permissions: record.Permissions,
	}, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}
