package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate は一意性制約違反を表すリポジトリエラー。
// サービス層はerrors.Isで判定しConflictErrorに変換する。
var ErrDuplicate = errors.New("duplicate key value")

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation はエラーがPostgreSQLの一意性制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
