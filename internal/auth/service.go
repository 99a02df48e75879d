// Package auth は認証情報の検証とセッション管理を提供する。
// セッションはユーザー行の単一トークン列として表現し、
// ログインによる上書きとログアウトによるクリアのみで変化する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

// フィールド長の制約。パスワード上限はbcryptの入力上限に合わせて
// 文字数ではなくバイト数で制限する。
const (
	maxUsernameLen   = 100
	maxNameLen       = 100
	minPasswordLen   = 6
	maxPasswordBytes = 72
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BcryptCost int // パスワードハッシュのコスト係数
	TokenBytes int // セッショントークンの乱数バイト長
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.TokenBytes == 0 {
		config.TokenBytes = 32
	}
	return &Service{
		userRepo: userRepo,
		config:   config,
	}
}

// Register は新規ユーザーを登録する。
// 入力検証の失敗はValidationError、ユーザー名の重複はConflictErrorを返す。
// 成功時はパスワードの一方向ハッシュのみを保存し、作成したユーザーを返す。
func (s *Service) Register(ctx context.Context, username, password, name string) (*model.User, error) {
	if err := validation.Validate([]validation.Rule{
		{Field: "ユーザー名", Value: username, Required: true, MaxLen: maxUsernameLen},
		{Field: "パスワード", Value: password, Required: true, MinLen: minPasswordLen, MaxBytes: maxPasswordBytes},
		{Field: "名前", Value: name, Required: true, MaxLen: maxNameLen},
	}); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 一意性はDBの制約に委ね、違反はConflictErrorとして表面化させる。
	// 事前の存在チェックでは同時登録の競合を防げない。
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewConflictError("ユーザー名は既に登録されています。")
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login は認証情報を検証し、新しいセッショントークンを発行する。
// ユーザー名不存在とパスワード不一致は外部から区別できないよう、
// いずれも同一のUnauthorizedErrorを返す。
// 発行したトークンは既存のトークンを上書きし、以前のセッションを無効化する。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if err := validation.Validate([]validation.Rule{
		{Field: "ユーザー名", Value: username, Required: true, MaxLen: maxUsernameLen},
		{Field: "パスワード", Value: password, Required: true, MaxBytes: maxPasswordBytes},
	}); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, "", model.NewUnauthorizedError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewUnauthorizedError()
	}

	token, err := generateToken(s.config.TokenBytes)
	if err != nil {
		return nil, "", fmt.Errorf("トークンの生成に失敗しました: %w", err)
	}

	if err := s.userRepo.UpdateToken(ctx, user.ID, &token); err != nil {
		return nil, "", fmt.Errorf("トークンの保存に失敗しました: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// Logout は指定ユーザーのセッショントークンをクリアする。
// 無効なトークンでの呼び出しは認証ミドルウェアが事前に拒否する。
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("セッションのクリアに失敗しました: %w", err)
	}

	slog.Info("user logged out", slog.String("user_id", userID))
	return nil
}

// ResolveByToken は保存されたトークンが完全一致するユーザーを返す。
// 一致しない場合・トークンが空の場合はnilを返す。
func (s *Service) ResolveByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := s.userRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("トークンの解決に失敗しました: %w", err)
	}
	return user, nil
}

// generateToken は暗号的に安全な推測不能トークンを生成する。
func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
