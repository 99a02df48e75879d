package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/renrakucho/internal/model"
)

// PostgresAddressRepo はPostgreSQLを使用した住所リポジトリ。
// 解決はIDと連絡先IDの複合述語で行う。親連絡先の所有権検証は
// サービス層が先行して行う前提。
type PostgresAddressRepo struct {
	db *sql.DB
}

// NewPostgresAddressRepo はPostgresAddressRepoを生成する。
func NewPostgresAddressRepo(db *sql.DB) *PostgresAddressRepo {
	return &PostgresAddressRepo{db: db}
}

// Create は住所を作成する。
func (r *PostgresAddressRepo) Create(ctx context.Context, address *model.Address) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO addresses (id, contact_id, street, city, province, country, postal_code, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)`,
		address.ID, address.ContactID, address.Street, address.City, address.Province,
		address.Country, address.PostalCode, address.CreatedAt, address.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

// FindByIDAndContact はIDと連絡先IDの複合条件で住所を取得する。
// 不存在・連絡先不一致のいずれもnilを返す。
func (r *PostgresAddressRepo) FindByIDAndContact(ctx context.Context, id, contactID string) (*model.Address, error) {
	address := &model.Address{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, contact_id, COALESCE(street, ''), COALESCE(city, ''), COALESCE(province, ''),
		        country, postal_code, created_at, updated_at
		 FROM addresses
		 WHERE id = $1 AND contact_id = $2`,
		id, contactID,
	).Scan(
		&address.ID, &address.ContactID, &address.Street, &address.City, &address.Province,
		&address.Country, &address.PostalCode, &address.CreatedAt, &address.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	return address, nil
}

// ListByContact は連絡先に紐づく住所一覧を作成順で返す。
func (r *PostgresAddressRepo) ListByContact(ctx context.Context, contactID string) ([]*model.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contact_id, COALESCE(street, ''), COALESCE(city, ''), COALESCE(province, ''),
		        country, postal_code, created_at, updated_at
		 FROM addresses
		 WHERE contact_id = $1
		 ORDER BY created_at, id`,
		contactID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*model.Address{}
	for rows.Next() {
		address := &model.Address{}
		if err := rows.Scan(
			&address.ID, &address.ContactID, &address.Street, &address.City, &address.Province,
			&address.Country, &address.PostalCode, &address.CreatedAt, &address.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}

	return addresses, nil
}

// Update は住所を連絡先スコープ付きで更新する。
func (r *PostgresAddressRepo) Update(ctx context.Context, address *model.Address) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE addresses
		 SET street = NULLIF($1, ''), city = NULLIF($2, ''), province = NULLIF($3, ''),
		     country = $4, postal_code = $5, updated_at = $6
		 WHERE id = $7 AND contact_id = $8`,
		address.Street, address.City, address.Province, address.Country,
		address.PostalCode, address.UpdatedAt, address.ID, address.ContactID,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("address not found: %s", address.ID)
	}
	return nil
}

// DeleteByIDAndContact はIDと連絡先IDの複合条件で住所を削除する。
func (r *PostgresAddressRepo) DeleteByIDAndContact(ctx context.Context, id, contactID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND contact_id = $2`,
		id, contactID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("address not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ AddressRepository = (*PostgresAddressRepo)(nil)
