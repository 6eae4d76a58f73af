package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// AuthUsecase は会員登録とログインです。
// カート側はここが発行したトークンのsub（userID）だけに依存する。
type AuthUsecase struct {
	userRepo   repo.UserRepository
	jwtSecret  []byte
	bcryptCost int
}

func NewAuthUsecase(userRepo repo.UserRepository, jwtSecret string, bcryptCost int) *AuthUsecase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginOutput struct {
	User  model.User  `json:"user"`
	Token TokenOutput `json:"token"`
}

// Register は会員登録。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	//重複チェックと保存で同じ値を使うため、最初に正規化する
	email := strings.TrimSpace(in.Email)

	// emailの形式チェック
	if !isValidEmailFormat(email) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}

	// passwordの長さチェック（最小12文字）
	if len(in.Password) < 12 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	// よくある弱いパスワードの拒否
	if isWeakPassword(in.Password) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "weak password")
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return model.User{}, NewHTTPError(http.StatusConflict, "email already exists")
	}

	// パスワードをハッシュ化（平文は保存しない）
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return *user, nil
}

// Login はメール＋パスワードを確認してアクセストークンを発行する。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	//存在しないユーザーも間違いパスワードも同じ401にする
	if errors.Is(err, repo.ErrUserNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := u.issueAccessToken(user)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	safeUser := *user
	safeUser.PasswordHash = ""

	return LoginOutput{User: safeUser, Token: token}, nil
}

// HS256のアクセストークンを発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (TokenOutput, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.jwtSecret)
	if err != nil {
		return TokenOutput{}, err
	}

	return TokenOutput{
		AccessToken: signed,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
	}, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}

// よくある弱いパスワードの拒否リスト
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwerty":       {},
		"qwertyuiop":   {},
		"letmein":      {},
		"admin":        {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}
