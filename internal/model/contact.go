// Package model はドメインモデルを定義する。
package model

import "time"

// Contact はユーザーが所有する連絡先を表す。
// UserIDは作成時に認証済みユーザーから設定され、以後変更されない。
type Contact struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
