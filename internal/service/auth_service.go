package service

import (
	"errors"

	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"
	"coffee-pos/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// Default cashier created by Seed.
const (
	DefaultCashierName     = "Default Cashier"
	DefaultCashierEmail    = "cashier@coffee.com"
	DefaultCashierPassword = "123456"
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	Seed() (*SeedResponse, error)
	Me(userID uint) (*model.UserResponse, error)
	SetPassword(email, newPassword string) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SeedResponse struct {
	Message string             `json:"message"`
	User    model.UserResponse `json:"user"`
	Login   Credentials        `json:"login"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Seed creates the default cashier. Calling it again only reports the
// existing account.
func (s *authService) Seed() (*SeedResponse, error) {
	login := Credentials{Email: DefaultCashierEmail, Password: DefaultCashierPassword}

	existing, err := s.userRepo.FindByEmail(DefaultCashierEmail)
	if err == nil {
		return &SeedResponse{Message: "Cashier already exists", User: existing.ToResponse(), Login: login}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		FullName: DefaultCashierName,
		Email:    DefaultCashierEmail,
		IsActive: true,
	}
	user.CreatedBy = "system"
	user.UpdatedBy = "system"
	if err := user.SetPassword(DefaultCashierPassword); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return &SeedResponse{Message: "Cashier seeded", User: user.ToResponse(), Login: login}, nil
}

func (s *authService) Me(userID uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) SetPassword(email, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.UpdatePassword(user.ID, user.PasswordHash)
}
