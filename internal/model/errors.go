// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// ErrorKind はAPIエラーの分類を表す。
// クライアントが機械的に判別できる安定した識別子として使用する。
type ErrorKind string

// 定義済みエラー種別
const (
	// KindValidation は入力値の不備（ストアに触れる前に検出される）。
	KindValidation ErrorKind = "VALIDATION"
	// KindConflict は一意性制約違反（ユーザー名の重複など）。
	KindConflict ErrorKind = "CONFLICT"
	// KindUnauthorized は認証情報の欠落・不一致。
	// セッション不存在とパスワード不一致は意図的に区別しない。
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	// KindNotFound はリソース不存在。他ユーザー所有のリソースへのアクセスも
	// 存在探索を防ぐため意図的に同じ種別として扱う。
	KindNotFound ErrorKind = "NOT_FOUND"
)

// APIError は統一エラーフォーマットを表す。
// 機械可読な種別と人間可読なメッセージリストを持つ。
type APIError struct {
	Kind     ErrorKind
	Messages []string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, strings.Join(e.Messages, "; "))
}

// NewValidationError は入力値検証エラーを生成する。
// 検出されたすべての違反メッセージを保持する。
func NewValidationError(messages ...string) *APIError {
	return &APIError{
		Kind:     KindValidation,
		Messages: messages,
	}
}

// NewConflictError は一意性制約違反エラーを生成する。
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:     KindConflict,
		Messages: []string{message},
	}
}

// NewUnauthorizedError は認証エラーを生成する。
// どの認証情報が誤っていたかを外部に漏らさないよう、メッセージは固定。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Kind:     KindUnauthorized,
		Messages: []string{"認証情報が正しくありません。"},
	}
}

// NewNotFoundError はリソース不存在エラーを生成する。
// resourceには「連絡先」「住所」などのリソース名を指定する。
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:     KindNotFound,
		Messages: []string{fmt.Sprintf("%sが見つかりません。", resource)},
	}
}
