package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/user"
)

// AuthServiceInterface はユーザーハンドラーが必要とする認証サービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録する。ユーザー名重複はConflictErrorを返す。
	Register(ctx context.Context, username, password, name string) (*model.User, error)
	// Login は認証情報を検証し、新しいセッショントークンを発行する。
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	// Logout はユーザーのセッショントークンをクリアする。
	Logout(ctx context.Context, userID string) error
}

// UserServiceInterface はユーザーハンドラーが必要とするユーザーサービスインターフェース。
type UserServiceInterface interface {
	GetCurrent(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, input user.UpdateProfileInput) (*model.User, error)
	Withdraw(ctx context.Context, userID string) error
}

// AuthMetrics は認証イベントのメトリクス記録インターフェース。
type AuthMetrics interface {
	RecordLogin(success bool)
	RecordRegistration()
}

// UserHandler はユーザー管理と認証のHTTPハンドラー。
type UserHandler struct {
	authService AuthServiceInterface
	userService UserServiceInterface
	metrics     AuthMetrics // nilの場合は記録しない
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(authService AuthServiceInterface, userService UserServiceInterface, metrics AuthMetrics) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		metrics:     metrics,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
// nilのフィールドは更新しない。
type updateProfileRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token,omitempty"`
}

// Register は新規ユーザーを登録する。
// POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	u, err := h.authService.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}

	writeData(w, http.StatusCreated, userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	})
}

// Login は認証情報を検証し、セッショントークンを発行する。
// POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	u, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordLogin(false)
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLogin(true)
	}

	writeData(w, http.StatusOK, userResponse{
		Username: u.Username,
		Name:     u.Name,
		Token:    token,
	})
}

// GetCurrent は認証済みユーザーの情報を返す。
// GET /api/users/current
func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	u, err := h.userService.GetCurrent(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, userResponse{
		Username: u.Username,
		Name:     u.Name,
	})
}

// UpdateProfile は認証済みユーザーのプロフィールを部分更新する。
// PATCH /api/users/current
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateProfile(r.Context(), userID, user.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, userResponse{
		Username: u.Username,
		Name:     u.Name,
	})
}

// Logout は認証済みユーザーのセッショントークンをクリアする。
// DELETE /api/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}

// Withdraw はユーザーの退会処理を実行する。
// 所有する連絡先と住所はCASCADE削除される。
// DELETE /api/users/current
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}
