// Package address は連絡先に紐づく住所管理のドメインロジックを提供する。
// すべての操作は親の連絡先が呼び出しユーザーの所有下で解決できることを前提とし、
// 連絡先が他ユーザー所有の場合は住所自体の有効性にかかわらずNotFoundErrorを返す。
package address

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
	maxStreetLen     = 255
	maxCityLen       = 100
	maxProvinceLen   = 100
	maxCountryLen    = 100
	maxPostalCodeLen = 10
)

// Input は住所のCreate/Update共通の入力。
type Input struct {
	Street     string
	City       string
	Province   string
	Country    string
	PostalCode string
}

// Service は住所管理のサービス層。
type Service struct {
	contactRepo repository.ContactRepository
	addressRepo repository.AddressRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(contactRepo repository.ContactRepository, addressRepo repository.AddressRepository) *Service {
	return &Service{
		contactRepo: contactRepo,
		addressRepo: addressRepo,
	}
}

// validateInput はCreate/Updateで共通の入力検証を行う。
func validateInput(input Input) error {
	return validation.Validate([]validation.Rule{
		{Field: "番地", Value: input.Street, MaxLen: maxStreetLen},
		{Field: "市区町村", Value: input.City, MaxLen: maxCityLen},
		{Field: "都道府県", Value: input.Province, MaxLen: maxProvinceLen},
		{Field: "国", Value: input.Country, Required: true, MaxLen: maxCountryLen},
		{Field: "郵便番号", Value: input.PostalCode, Required: true, MaxLen: maxPostalCodeLen},
	})
}

// resolveContact は親連絡先を所有者スコープで解決する。
// 不存在・所有者不一致のいずれもNotFoundErrorを返す。
func (s *Service) resolveContact(ctx context.Context, userID, contactID string) error {
	contact, err := s.contactRepo.FindByIDAndOwner(ctx, contactID, userID)
	if err != nil {
		return fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	if contact == nil {
		return model.NewNotFoundError("連絡先")
	}
	return nil
}

// Create は連絡先の配下に住所を作成する。
// 親連絡先の解決が入力検証に先行し、所有権の不一致はNotFoundErrorになる。
func (s *Service) Create(ctx context.Context, userID, contactID string, input Input) (*model.Address, error) {
	if err := s.resolveContact(ctx, userID, contactID); err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	address := &model.Address{
		ID:         uuid.New().String(),
		ContactID:  contactID,
		Street:     input.Street,
		City:       input.City,
		Province:   input.Province,
		Country:    input.Country,
		PostalCode: input.PostalCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("住所の作成に失敗しました: %w", err)
	}

	return address, nil
}

// Get は住所を取得する。
// 親連絡先・住所いずれかが呼び出しユーザーのスコープで解決できない場合はNotFoundErrorを返す。
func (s *Service) Get(ctx context.Context, userID, contactID, addressID string) (*model.Address, error) {
	if err := s.resolveContact(ctx, userID, contactID); err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByIDAndContact(ctx, addressID, contactID)
	if err != nil {
		return nil, fmt.Errorf("住所の取得に失敗しました: %w", err)
	}
	if address == nil {
		return nil, model.NewNotFoundError("住所")
	}
	return address, nil
}

// List は連絡先に紐づく住所一覧を返す。
func (s *Service) List(ctx context.Context, userID, contactID string) ([]*model.Address, error) {
	if err := s.resolveContact(ctx, userID, contactID); err != nil {
		return nil, err
	}

	addresses, err := s.addressRepo.ListByContact(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("住所一覧の取得に失敗しました: %w", err)
	}
	return addresses, nil
}

// Update は住所を更新する。
// 親連絡先の解決 → 入力検証 → 住所の解決の順で評価する。
func (s *Service) Update(ctx context.Context, userID, contactID, addressID string, input Input) (*model.Address, error) {
	if err := s.resolveContact(ctx, userID, contactID); err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByIDAndContact(ctx, addressID, contactID)
	if err != nil {
		return nil, fmt.Errorf("住所の取得に失敗しました: %w", err)
	}
	if address == nil {
		return nil, model.NewNotFoundError("住所")
	}

	address.Street = input.Street
	address.City = input.City
	address.Province = input.Province
	address.Country = input.Country
	address.PostalCode = input.PostalCode
	address.UpdatedAt = time.Now()

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("住所の更新に失敗しました: %w", err)
	}

	return address, nil
}

// Delete は住所を削除する。
func (s *Service) Delete(ctx context.Context, userID, contactID, addressID string) error {
	if err := s.resolveContact(ctx, userID, contactID); err != nil {
		return err
	}

	address, err := s.addressRepo.FindByIDAndContact(ctx, addressID, contactID)
	if err != nil {
		return fmt.Errorf("住所の取得に失敗しました: %w", err)
	}
	if address == nil {
		return model.NewNotFoundError("住所")
	}

	if err := s.addressRepo.DeleteByIDAndContact(ctx, addressID, contactID); err != nil {
		return fmt.Errorf("住所の削除に失敗しました: %w", err)
	}

	return nil
}
