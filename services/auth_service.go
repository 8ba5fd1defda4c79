//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"dm-chat/auth"
	"dm-chat/domain"
	"dm-chat/errors"
	"dm-chat/repositories"
	"log/slog"
)

type IAuthService interface {
	Login(ctx context.Context, cmd domain.LoginCommand) (Session, error)
	Register(ctx context.Context, cmd domain.RegisterCommand) (Session, error)
}

type Token string

func (t Token) String() string {
	return string(t)
}

// Session is what a successful register or login hands back: the user without
// its credential, and a signed bearer token.
type Session struct {
	User  domain.User
	Token Token
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenIssuer
	log            *slog.Logger
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{userRepository: repo, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, cmd domain.RegisterCommand) (Session, error) {
	// 1. Validate business rules before any expensive cryptographic operation
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Password: cmd.Password,
	}); err != nil {
		return Session{}, err
	}

	// 2. Hash here so the repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return Session{}, s.internal("register", err)
	}

	// 3. Persist, ErrUserAlreadyExists propagates when the email is taken
	user, err := s.userRepository.CreateUser(ctx, repositories.NewUser{
		Name:           cmd.Name,
		Email:          cmd.Email,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		return Session{}, s.internal("register", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return Session{}, s.internal("register", errors.ErrTokenGeneration)
	}
	s.log.Info("User registered", "user_id", user.ID)
	return Session{User: user, Token: Token(token)}, nil
}

func (s *AuthService) Login(ctx context.Context, cmd domain.LoginCommand) (Session, error) {
	if err := auth.Validate(cmd); err != nil {
		return Session{}, err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, cmd.Email)
	switch {
	case errors.Is(err, errors.ErrUserNotFound):
		// Same answer as a wrong password, no account enumeration
		return Session{}, errors.ErrInvalidCredentials
	case err != nil:
		return Session{}, s.internal("login", err)
	}

	match, err := auth.ComparePassword(cmd.Password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return Session{}, s.internal("login", errors.ErrTokenGeneration)
	}
	return Session{User: user.User, Token: Token(token)}, nil
}

func (s *AuthService) internal(op string, err error) error {
	if errors.KindOf(err) != errors.KindInternal {
		return err
	}
	s.log.Error("Authentication operation failed", "op", op, "error", err)
	return errors.Internal(err)
}
