// Package contact は連絡先管理のドメインロジックを提供する。
// すべての操作は認証済みユーザーのIDをスコープキーとして実行され、
// 他ユーザー所有の連絡先は不存在として扱われる。
package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

const (
	maxFirstNameLen = 100
	maxLastNameLen  = 100
	maxEmailLen     = 200
)

// Input は連絡先のCreate/Update共通の入力。
type Input struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// SearchQuery は連絡先検索の入力。
// フィルタは空文字列の場合に制約を課さない。Pageが1未満の場合は1として扱う。
type SearchQuery struct {
	Name  string
	Email string
	Phone string
	Page  int
}

// SearchResult は検索結果とページング情報。
type SearchResult struct {
	Contacts   []*model.Contact
	Page       int
	TotalPage  int
	TotalItems int
}

// ServiceConfig は連絡先サービスの設定。
type ServiceConfig struct {
	PhoneMaxLen int // 電話番号の最大文字数。超過は切り詰めず検証エラー
	PageSize    int // 検索の1ページあたり件数（固定）
}

// Service は連絡先管理のサービス層。
type Service struct {
	contactRepo repository.ContactRepository
	config      ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(contactRepo repository.ContactRepository, config ServiceConfig) *Service {
	if config.PhoneMaxLen == 0 {
		config.PhoneMaxLen = 20
	}
	if config.PageSize == 0 {
		config.PageSize = 10
	}
	return &Service{
		contactRepo: contactRepo,
		config:      config,
	}
}

// validateInput はCreate/Updateで共通の入力検証を行う。
func (s *Service) validateInput(input Input) error {
	return validation.Validate([]validation.Rule{
		{Field: "名", Value: input.FirstName, Required: true, MaxLen: maxFirstNameLen},
		{Field: "姓", Value: input.LastName, MaxLen: maxLastNameLen},
		{Field: "メールアドレス", Value: input.Email, MaxLen: maxEmailLen, Format: validation.FormatEmail},
		{Field: "電話番号", Value: input.Phone, MaxLen: s.config.PhoneMaxLen},
	})
}

// Create は認証済みユーザーの連絡先を作成する。
// 所有者IDはクライアント入力ではなく認証済みアイデンティティから設定する。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.Contact, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	contact := &model.Contact{
		ID:        uuid.New().String(),
		UserID:    userID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("連絡先の作成に失敗しました: %w", err)
	}

	return contact, nil
}

// Get は連絡先を所有者スコープで取得する。
// 不存在・所有者不一致のいずれもNotFoundErrorを返す。
func (s *Service) Get(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByIDAndOwner(ctx, contactID, userID)
	if err != nil {
		return nil, fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	if contact == nil {
		return nil, model.NewNotFoundError("連絡先")
	}
	return contact, nil
}

// Update は連絡先を更新する。
// 入力検証はストアに触れる前に行い、失敗時は一切の状態変更を行わない。
func (s *Service) Update(ctx context.Context, userID, contactID string, input Input) (*model.Contact, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.FindByIDAndOwner(ctx, contactID, userID)
	if err != nil {
		return nil, fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	if contact == nil {
		return nil, model.NewNotFoundError("連絡先")
	}

	contact.FirstName = input.FirstName
	contact.LastName = input.LastName
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.UpdatedAt = time.Now()

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("連絡先の更新に失敗しました: %w", err)
	}

	return contact, nil
}

// Delete は連絡先を削除する。紐づく住所はCASCADE削除される。
func (s *Service) Delete(ctx context.Context, userID, contactID string) error {
	contact, err := s.contactRepo.FindByIDAndOwner(ctx, contactID, userID)
	if err != nil {
		return fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	if contact == nil {
		return model.NewNotFoundError("連絡先")
	}

	if err := s.contactRepo.DeleteByIDAndOwner(ctx, contactID, userID); err != nil {
		return fmt.Errorf("連絡先の削除に失敗しました: %w", err)
	}

	return nil
}

// Search は認証済みユーザーの連絡先を絞り込み、ページング付きで返す。
// フィルタはANDで結合し、未指定のフィルタは制約を課さない。
// total_pageは件数0でも最低1とし、最終ページを超えるページ指定は空リストを返す。
func (s *Service) Search(ctx context.Context, userID string, query SearchQuery) (*SearchResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := s.config.PageSize

	filter := repository.ContactFilter{
		Name:  query.Name,
		Email: query.Email,
		Phone: query.Phone,
	}

	contacts, total, err := s.contactRepo.Search(ctx, userID, filter, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("連絡先の検索に失敗しました: %w", err)
	}

	totalPage := (total + size - 1) / size
	if totalPage < 1 {
		totalPage = 1
	}

	return &SearchResult{
		Contacts:   contacts,
		Page:       page,
		TotalPage:  totalPage,
		TotalItems: total,
	}, nil
}
