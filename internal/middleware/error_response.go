package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/renrakucho/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// codeはエラー種別、errorsは人間可読なメッセージの配列。
type ErrorResponseBody struct {
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:   string(apiErr.Kind),
		Errors: apiErr.Messages,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:   "INTERNAL_ERROR",
		Errors: []string{"内部エラーが発生しました。しばらく待ってから再度お試しください。"},
	})
}
