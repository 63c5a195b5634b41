package service

import (
	"context"
	"errors"
	"os"
	"time"

	"pulse-chat-be/internal/dto"
	"pulse-chat-be/internal/model"
	"pulse-chat-be/internal/repository/contract"
	"pulse-chat-be/internal/repository/memory"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredential covers malformed, expired, and unresolvable
// credentials alike; callers never learn which.
var ErrInvalidCredential = errors.New("invalid credential")

const tokenTTL = 24 * time.Hour

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Verify resolves a bearer credential to an Identity. Used by the
	// websocket authenticate handshake and the REST middleware layer.
	Verify(ctx context.Context, credential string) (*dto.Identity, error)
}

type authService struct {
	users      contract.UserRepository
	identities *memory.IdentityCache
	validate   *validator.Validate
}

func NewAuthService(users contract.UserRepository, identities *memory.IdentityCache) IAuthService {
	return &authService{
		users:      users,
		identities: identities,
		validate:   validator.New(),
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &model.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	expiresAt := time.Now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User: dto.Identity{
			Id:       user.Id,
			FullName: user.FullName,
			Email:    user.Email,
		},
	}, nil
}

func (s *authService) Verify(ctx context.Context, credential string) (*dto.Identity, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredential
	}
	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidCredential
	}

	if identity, found := s.identities.Get(userIdStr); found {
		return identity, nil
	}

	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.users.FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	identity := &dto.Identity{
		Id:       user.Id,
		FullName: user.FullName,
		Email:    user.Email,
	}
	s.identities.Save(userIdStr, identity)

	return identity, nil
}
