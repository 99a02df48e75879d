// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Tokenは有効なセッションが存在する場合のみ非nilになる（1ユーザー1セッション）。
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Token        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
