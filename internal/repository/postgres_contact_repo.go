package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/renrakucho/internal/model"
)

// PostgresContactRepo はPostgreSQLを使用した連絡先リポジトリ。
// すべての解決はIDと所有者IDの単一複合述語で行い、
// 所有者不一致と不存在を区別できないようにする。
type PostgresContactRepo struct {
	db *sql.DB
}

// NewPostgresContactRepo はPostgresContactRepoを生成する。
func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

// Create は連絡先を作成する。
func (r *PostgresContactRepo) Create(ctx context.Context, contact *model.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, user_id, first_name, last_name, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
		contact.ID, contact.UserID, contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// FindByIDAndOwner はIDと所有者IDの複合条件で連絡先を取得する。
// 不存在・所有者不一致のいずれもnilを返す。
func (r *PostgresContactRepo) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Contact, error) {
	contact := &model.Contact{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, first_name, COALESCE(last_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		        created_at, updated_at
		 FROM contacts
		 WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(
		&contact.ID, &contact.UserID, &contact.FirstName, &contact.LastName,
		&contact.Email, &contact.Phone, &contact.CreatedAt, &contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return contact, nil
}

// Update は連絡先を所有者スコープ付きで更新する。
func (r *PostgresContactRepo) Update(ctx context.Context, contact *model.Contact) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contacts
		 SET first_name = $1, last_name = NULLIF($2, ''), email = NULLIF($3, ''),
		     phone = NULLIF($4, ''), updated_at = $5
		 WHERE id = $6 AND user_id = $7`,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone,
		contact.UpdatedAt, contact.ID, contact.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("contact not found: %s", contact.ID)
	}
	return nil
}

// DeleteByIDAndOwner はIDと所有者IDの複合条件で連絡先を削除する。
// 住所はCASCADE削除される。
func (r *PostgresContactRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("contact not found: %s", id)
	}
	return nil
}

// searchPredicate は所有者と絞り込み条件の共通WHERE句。
// 空文字列のフィルタは制約を課さない。一致は大文字小文字を区別しない部分一致。
// nameフィルタはfirst_nameとlast_nameのいずれかへの一致で評価する。
const searchPredicate = `
	 WHERE user_id = $1
	   AND ($2 = '' OR first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%')
	   AND ($3 = '' OR email ILIKE '%' || $3 || '%')
	   AND ($4 = '' OR phone ILIKE '%' || $4 || '%')`

// Search は所有者の連絡先をフィルタ条件で絞り込み、
// 指定ページ分の行と絞り込み後の総件数を返す。
// 並び順はcreated_at、idの昇順で呼び出し間で決定的。
func (r *PostgresContactRepo) Search(ctx context.Context, ownerID string, filter ContactFilter, limit, offset int) ([]*model.Contact, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM contacts`+searchPredicate,
		ownerID, filter.Name, filter.Email, filter.Phone,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, first_name, COALESCE(last_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		        created_at, updated_at
		 FROM contacts`+searchPredicate+`
		 ORDER BY created_at, id
		 LIMIT $5 OFFSET $6`,
		ownerID, filter.Name, filter.Email, filter.Phone, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		contact := &model.Contact{}
		if err := rows.Scan(
			&contact.ID, &contact.UserID, &contact.FirstName, &contact.LastName,
			&contact.Email, &contact.Phone, &contact.CreatedAt, &contact.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, total, nil
}

// compile-time interface check
var _ ContactRepository = (*PostgresContactRepo)(nil)
