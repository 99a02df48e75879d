// Package model はドメインモデルを定義する。
package model

import "time"

// Address は連絡先に紐づく住所を表す。
// ContactIDは作成時に設定され、以後変更されない。
// 親の連絡先が削除されると住所もCASCADE削除される。
type Address struct {
	ID         string
	ContactID  string
	Street     string
	City       string
	Province   string
	Country    string
	PostalCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
