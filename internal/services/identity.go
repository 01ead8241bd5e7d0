package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
	"github.com/harentsoaR/contacts-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,bcryptlen"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// IdentityService registers users and exchanges credentials for tokens.
type IdentityService struct {
	users      storage.UserStore
	tokens     *utils.JWTManager
	bcryptCost int
}

func NewIdentityService(users storage.UserStore, tokens *utils.JWTManager, bcryptCost int) *IdentityService {
	return &IdentityService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	_, err := s.users.GetUserByUsername(ctx, in.Username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := utils.HashPassword(in.Password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return &ValidationError{Message: fmt.Sprintf("%q must be at most %d bytes long", "password", maxPasswordBytes)}
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	log.Printf("Register: user %s created with id %s", user.Username, user.ID)
	return nil
}

// Login returns a signed token. Unknown users and wrong passwords both
// yield ErrInvalidCredentials.
func (s *IdentityService) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := validateStruct(in); err != nil {
		return "", err
	}

	user, err := s.users.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the identity embedded in a bearer token.
func (s *IdentityService) VerifyToken(token string) (*utils.Claims, error) {
	return s.tokens.ValidateJWT(token)
}
