package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/renrakucho/internal/contact"
	"github.com/hitoshi/renrakucho/internal/model"
)

// ContactServiceInterface は連絡先ハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Create(ctx context.Context, userID string, input contact.Input) (*model.Contact, error)
	Get(ctx context.Context, userID, contactID string) (*model.Contact, error)
	Update(ctx context.Context, userID, contactID string, input contact.Input) (*model.Contact, error)
	Delete(ctx context.Context, userID, contactID string) error
	Search(ctx context.Context, userID string, query contact.SearchQuery) (*contact.SearchResult, error)
}

// ContactHandler は連絡先管理のHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{
		service: service,
	}
}

// contactRequest は連絡先のCreate/Updateリクエストのボディ。
type contactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// contactResponse は連絡先のAPIレスポンス。
type contactResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toContactResponse はドメインのContactをレスポンス型に変換する。
func toContactResponse(c *model.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create は連絡先を作成する。
// POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), userID, contact.Input{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, toContactResponse(c))
}

// Get は連絡先を取得する。
// GET /api/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toContactResponse(c))
}

// Update は連絡先を更新する。
// PUT /api/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	c, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), contact.Input{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toContactResponse(c))
}

// Delete は連絡先を削除する。
// DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}

// Search は連絡先をフィルタ条件で検索し、ページング付きで返す。
// GET /api/contacts?name=&email=&phone=&page=
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.service.Search(r.Context(), userID, contact.SearchQuery{
		Name:  q.Get("name"),
		Email: q.Get("email"),
		Phone: q.Get("phone"),
		Page:  page,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	contacts := make([]contactResponse, len(result.Contacts))
	for i, c := range result.Contacts {
		contacts[i] = toContactResponse(c)
	}

	writeDataWithPaging(w, contacts, pagingResponse{
		Page:       result.Page,
		TotalPage:  result.TotalPage,
		TotalItems: result.TotalItems,
	})
}
