// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

// パスワード上限はbcryptの入力上限に合わせてバイト数で制限する。
const (
	maxNameLen       = 100
	minPasswordLen   = 6
	maxPasswordBytes = 72
)

// UpdateProfileInput はプロフィール更新の入力。
// nilのフィールドは更新しない。
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// Service はユーザー管理のサービス層。
// 現在ユーザーの取得、プロフィール更新、退会処理を提供する。
type Service struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// GetCurrent は認証済みユーザーの情報を返す。
func (s *Service) GetCurrent(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("ユーザー")
	}
	return user, nil
}

// UpdateProfile は指定されたフィールドのみを更新する。
// パスワードが指定された場合は再ハッシュし、平文は保存しない。
func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	var rules []validation.Rule
	if input.Name != nil {
		rules = append(rules, validation.Rule{
			Field: "名前", Value: *input.Name, Required: true, MaxLen: maxNameLen,
		})
	}
	if input.Password != nil {
		rules = append(rules, validation.Rule{
			Field: "パスワード", Value: *input.Password, Required: true, MinLen: minPasswordLen, MaxBytes: maxPasswordBytes,
		})
	}
	if err := validation.Validate(rules); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("ユーザー")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	slog.Info("user profile updated", slog.String("user_id", userID))
	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 所有する連絡先とその住所はCASCADE削除される。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewNotFoundError("ユーザー")
	}

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("user withdrawn", slog.String("user_id", userID))
	return nil
}
