package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// LoginWithKakao は認可コードを交換してユーザーをUPSERTする。
	LoginWithKakao(ctx context.Context, code, redirectURI string) (*auth.RegistrationResult, error)
	// Register は解決済みアイデンティティをUPSERTする。
	Register(ctx context.Context, identity *model.ResolvedIdentity) (*auth.RegistrationResult, error)
}

// AuthHandler はOAuthログインとユーザー登録のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

// kakaoLoginRequest はKakaoログインリクエストのボディ。
type kakaoLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

// registerRequest はクライアント側でOAuth完了済みの登録リクエストのボディ。
type registerRequest struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture"`
}

// userResponse はユーザーレコードのワイヤ表現。
type userResponse struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// registrationResponse はログイン・登録の成功レスポンス。
type registrationResponse struct {
	IsNew bool         `json:"isNew"`
	User  userResponse `json:"user"`
}

// KakaoLogin はKakaoの認可コードを受け取りログイン処理を行う。
// 新規登録は201、既存ユーザーのログインは200を返す。
// POST /api/auth/kakao
func (h *AuthHandler) KakaoLogin(w http.ResponseWriter, r *http.Request) {
	var req kakaoLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました。"))
		return
	}

	result, err := h.service.LoginWithKakao(r.Context(), req.Code, req.RedirectURI)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeRegistrationResponse(w, result)
}

// Register はクライアント側でOAuthダンスを完了済みのアイデンティティを登録する。
// POST /api/users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました。"))
		return
	}

	result, err := h.service.Register(r.Context(), &model.ResolvedIdentity{
		ID:       req.ID,
		Provider: req.Provider,
		Name:     req.Name,
		Email:    req.Email,
		Picture:  req.Picture,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeRegistrationResponse(w, result)
}

// writeRegistrationResponse はUPSERT結果を新規なら201、既存なら200で書き込む。
func writeRegistrationResponse(w http.ResponseWriter, result *auth.RegistrationResult) {
	statusCode := http.StatusOK
	if result.IsNew {
		statusCode = http.StatusCreated
	}
	writeJSON(w, statusCode, registrationResponse{
		IsNew: result.IsNew,
		User:  toUserResponse(result.User),
	})
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Provider:  user.Provider,
		Name:      user.Name,
		Email:     user.Email,
		Picture:   user.Picture,
		CreatedAt: model.FormatTimestamp(user.CreatedAt),
		UpdatedAt: model.FormatTimestamp(user.UpdatedAt),
	}
}
