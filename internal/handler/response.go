// Package handler はHTTP APIのハンドラー層を提供する。
// リクエストのデコードとレスポンスのエンコードのみを担当し、
// ビジネスロジックはサービス層に委譲する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
)

// dataResponse は成功レスポンスの統一エンベロープ。
type dataResponse struct {
	Data   any             `json:"data"`
	Paging *pagingResponse `json:"paging,omitempty"`
}

// pagingResponse は一覧レスポンスのページング情報。
type pagingResponse struct {
	Page       int `json:"page"`
	TotalPage  int `json:"total_page"`
	TotalItems int `json:"total_items"`
}

// apiErrorResponse はエラーレスポンスの統一エンベロープ。
type apiErrorResponse struct {
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

// writeData は成功レスポンスを書き込む。
func writeData(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// writeDataWithPaging はページング情報付きの一覧レスポンスを書き込む。
func writeDataWithPaging(w http.ResponseWriter, data any, paging pagingResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data, Paging: &paging})
}

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:   string(apiErr.Kind),
		Errors: apiErr.Messages,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Kind:     "INTERNAL_ERROR",
		Messages: []string{"内部エラーが発生しました。しばらく待ってから再度お試しください。"},
	})
}

// mapAPIErrorToHTTPStatus はエラー種別からHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSONBody はリクエストボディをJSONとしてデコードする。
// 解析失敗はValidationErrorとして400を返す。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの形式が正しくありません。"))
		return false
	}
	return true
}

// requireUserID はコンテキストから認証済みユーザーIDを取り出す。
// 取得できない場合は401を書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return "", false
	}
	return userID, true
}
