package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/renrakucho/internal/address"
	"github.com/hitoshi/renrakucho/internal/model"
)

// AddressServiceInterface は住所ハンドラーが必要とするサービスインターフェース。
type AddressServiceInterface interface {
	Create(ctx context.Context, userID, contactID string, input address.Input) (*model.Address, error)
	Get(ctx context.Context, userID, contactID, addressID string) (*model.Address, error)
	List(ctx context.Context, userID, contactID string) ([]*model.Address, error)
	Update(ctx context.Context, userID, contactID, addressID string, input address.Input) (*model.Address, error)
	Delete(ctx context.Context, userID, contactID, addressID string) error
}

// AddressHandler は住所管理のHTTPハンドラー。
type AddressHandler struct {
	service AddressServiceInterface
}

// NewAddressHandler はAddressHandlerを生成する。
func NewAddressHandler(service AddressServiceInterface) *AddressHandler {
	return &AddressHandler{
		service: service,
	}
}

// addressRequest は住所のCreate/Updateリクエストのボディ。
type addressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// addressResponse は住所のAPIレスポンス。
type addressResponse struct {
	ID         string    `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Province   string    `json:"province"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// toAddressResponse はドメインのAddressをレスポンス型に変換する。
func toAddressResponse(a *model.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		Country:    a.Country,
		PostalCode: a.PostalCode,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// toAddressInput はリクエストボディをサービス入力に変換する。
func toAddressInput(req addressRequest) address.Input {
	return address.Input{
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
}

// Create は連絡先の配下に住所を作成する。
// POST /api/contacts/{id}/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	a, err := h.service.Create(r.Context(), userID, chi.URLParam(r, "id"), toAddressInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, toAddressResponse(a))
}

// Get は住所を取得する。
// GET /api/contacts/{id}/addresses/{addressId}
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	a, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "addressId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toAddressResponse(a))
}

// List は連絡先に紐づく住所一覧を返す。
// GET /api/contacts/{id}/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	addresses, err := h.service.List(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]addressResponse, len(addresses))
	for i, a := range addresses {
		results[i] = toAddressResponse(a)
	}

	writeData(w, http.StatusOK, results)
}

// Update は住所を更新する。
// PUT /api/contacts/{id}/addresses/{addressId}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	a, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "addressId"), toAddressInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toAddressResponse(a))
}

// Delete は住所を削除する。
// DELETE /api/contacts/{id}/addresses/{addressId}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "addressId")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}
