// Package validation はフィールド制約の共通検証を提供する。
// User/Contact/Addressの全Create/Updateパスが同一のルール定義で検証を行い、
// エンティティごとの検証ロジックの乖離を防ぐ。
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/renrakucho/internal/model"
)

// Format はフィールド値の書式制約を表す。
type Format int

const (
	// FormatNone は書式制約なし。
	FormatNone Format = iota
	// FormatEmail はメールアドレス書式（値が空でない場合のみ検証）。
	FormatEmail
)

// Rule は1フィールドに対する制約を表す。
type Rule struct {
	Field    string // メッセージに使用するフィールド名
	Value    string
	Required bool // 前後空白を除去した結果が空なら違反
	MinLen   int  // 0なら制約なし（文字数）
	MaxLen   int  // 0なら制約なし（文字数）。超過は切り詰めず違反とする
	// MaxBytes は0なら制約なし（バイト数）。bcryptの72バイト上限のように
	// 文字数ではなくエンコード後の長さで制限される値に使用する。
	MaxBytes int
	Format   Format
}

// Validate はすべてのルールを評価し、違反があればValidationErrorを返す。
// 違反メッセージは最初の1件で打ち切らず、全件を収集する。
// 違反がなければnilを返す。
func Validate(rules []Rule) error {
	var messages []string

	for _, r := range rules {
		trimmed := strings.TrimSpace(r.Value)

		if r.Required && trimmed == "" {
			messages = append(messages, fmt.Sprintf("%sは必須です。", r.Field))
			continue
		}

		// 任意フィールドが未指定の場合、以降の制約は評価しない
		if trimmed == "" {
			continue
		}

		length := utf8.RuneCountInString(r.Value)
		if r.MinLen > 0 && length < r.MinLen {
			messages = append(messages, fmt.Sprintf("%sは%d文字以上で指定してください。", r.Field, r.MinLen))
		}
		if r.MaxLen > 0 && length > r.MaxLen {
			messages = append(messages, fmt.Sprintf("%sは%d文字以内で指定してください。", r.Field, r.MaxLen))
		}
		if r.MaxBytes > 0 && len(r.Value) > r.MaxBytes {
			messages = append(messages, fmt.Sprintf("%sは%dバイト以内で指定してください。", r.Field, r.MaxBytes))
		}

		if r.Format == FormatEmail {
			if _, err := mail.ParseAddress(r.Value); err != nil {
				messages = append(messages, fmt.Sprintf("%sの形式が正しくありません。", r.Field))
			}
		}
	}

	if len(messages) > 0 {
		return model.NewValidationError(messages...)
	}
	return nil
}
