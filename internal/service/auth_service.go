package service

import (
	"context"
	"strings"
	"time"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/serverutils"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const AccessTokenTTL = 24 * time.Hour

const msgInvalidCredentials = "Invalid credentials."

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory) IAuthService {
	return &authService{
		uowFactory: uowFactory,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := userRepo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered.")
	}
	existing, err = userRepo.FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Username already taken.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	// User and profile are created together.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().SaveProfile(ctx, &entity.UserProfile{UserId: user.Id}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		return nil, apperror.Validation("username or email is required.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByLogin{Identifier: identifier})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	return issueToken(user)
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found.")
	}
	return &dto.UserResponse{Id: user.Id, Username: user.Username, Email: user.Email}, nil
}

func issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := serverutils.GenerateToken(user.Id, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			Id:       user.Id,
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}
