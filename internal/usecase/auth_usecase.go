package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"agrimarket/internal/config"
	"agrimarket/internal/domain/model"
	repo "agrimarket/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = time.Hour

// OTPはモック。固定値が合えば検証済みにする。
const mockOTP = "123456"

type AuthUsecase struct {
	users     repo.UserRepository
	jwtSecret []byte
}

func NewAuthUsecase(users repo.UserRepository, cfg config.Config) *AuthUsecase {
	return &AuthUsecase{users: users, jwtSecret: []byte(cfg.JWTSecret)}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RegisterOutput struct {
	UserID string `json:"user_id"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if in.Name == "" || email == "" || len(in.Password) < 8 {
		return RegisterOutput{}, ErrValidation
	}

	role := model.Role(strings.ToUpper(in.Role))
	if role != model.RoleFarmer && role != model.RoleBuyer {
		return RegisterOutput{}, ErrValidation
	}

	//登録済みチェック
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return RegisterOutput{}, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return RegisterOutput{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegisterOutput{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return RegisterOutput{}, err
	}

	return RegisterOutput{UserID: user.ID}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, ErrValidation
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, ErrUnauthorized
	}
	if err != nil {
		return LoginOutput{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return LoginOutput{}, ErrUnauthorized
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"role":     string(user.Role),
		"verified": user.IsVerified,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.jwtSecret)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{
		Token:     signed,
		UserID:    user.ID,
		Role:      string(user.Role),
		ExpiresIn: int(accessTokenTTL.Seconds()),
	}, nil
}

// VerifyOTP は固定OTPのモック検証。合えばverifiedを立てる。
func (u *AuthUsecase) VerifyOTP(ctx context.Context, userID string, otp string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if otp != mockOTP {
		return ErrValidation
	}

	err := u.users.SetVerified(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
