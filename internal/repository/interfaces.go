// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/renrakucho/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// ユーザー名の一意性制約違反の場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByToken は保存されたトークンが完全一致するユーザーを検索する。
	// 見つからない場合はnilを返す。トークンがNULLの行は一致しない。
	FindByToken(ctx context.Context, token string) (*model.User, error)

	// UpdateProfile は表示名とパスワードハッシュを更新する。
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdateToken はトークン列を更新する。nilを渡すとセッションをクリアする。
	UpdateToken(ctx context.Context, id string, token *string) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有する連絡先とその住所はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// ContactFilter は連絡先検索の絞り込み条件。
// 各フィールドは空文字列の場合に制約を課さない。
// 値が指定された場合は大文字小文字を区別しない部分一致で評価する。
type ContactFilter struct {
	Name  string // first_nameまたはlast_nameへの一致
	Email string
	Phone string
}

// ContactRepository は連絡先データの永続化インターフェース。
// 読み書きはすべて所有者IDとの複合述語で解決し、
// 他ユーザー所有の行は不存在と区別できない。
type ContactRepository interface {
	// Create は連絡先を作成する。
	Create(ctx context.Context, contact *model.Contact) error

	// FindByIDAndOwner はIDと所有者IDの複合条件で連絡先を取得する。
	// 不存在・所有者不一致のいずれもnilを返す。
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Contact, error)

	// Update は連絡先を所有者スコープ付きで更新する。
	Update(ctx context.Context, contact *model.Contact) error

	// DeleteByIDAndOwner はIDと所有者IDの複合条件で連絡先を削除する。
	// 住所はCASCADE削除される。
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error

	// Search は所有者の連絡先をフィルタ条件で絞り込み、
	// 指定ページ分の行と絞り込み後の総件数を返す。
	Search(ctx context.Context, ownerID string, filter ContactFilter, limit, offset int) ([]*model.Contact, int, error)
}

// AddressRepository は住所データの永続化インターフェース。
// 親連絡先の所有権検証はサービス層がContactRepositoryを通じて行い、
// 本インターフェースは連絡先IDスコープでの解決のみを提供する。
type AddressRepository interface {
	// Create は住所を作成する。
	Create(ctx context.Context, address *model.Address) error

	// FindByIDAndContact はIDと連絡先IDの複合条件で住所を取得する。
	// 不存在・連絡先不一致のいずれもnilを返す。
	FindByIDAndContact(ctx context.Context, id, contactID string) (*model.Address, error)

	// ListByContact は連絡先に紐づく住所一覧を返す。
	ListByContact(ctx context.Context, contactID string) ([]*model.Address, error)

	// Update は住所を連絡先スコープ付きで更新する。
	Update(ctx context.Context, address *model.Address) error

	// DeleteByIDAndContact はIDと連絡先IDの複合条件で住所を削除する。
	DeleteByIDAndContact(ctx context.Context, id, contactID string) error
}
