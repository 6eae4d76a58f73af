package repository

import (
	"context"
	"errors"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束。
// FindByID / FindByEmail は見つからない時 ErrUserNotFound を返す。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
