package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

const (
	defaultKakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	defaultKakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"

	// defaultDisplayName はIdPがニックネームを返さなかった場合の表示名。
	defaultDisplayName = "Kakao User"
)

// KakaoOAuthConfig はKakao OAuthプロバイダーの設定。
type KakaoOAuthConfig struct {
	ClientID     string
	ClientSecret string

	// テスト用にオーバーライド可能なURL
	TokenURL    string
	UserInfoURL string

	// IdPへの外部HTTP呼び出しのタイムアウト。ゼロ値の場合は10秒。
	Timeout time.Duration
}

// KakaoOAuthProvider はKakao OAuth 2.0による認証を提供する。
type KakaoOAuthProvider struct {
	config KakaoOAuthConfig
	client *http.Client
}

// NewKakaoOAuthProvider はKakaoOAuthProviderを生成する。
func NewKakaoOAuthProvider(config KakaoOAuthConfig) *KakaoOAuthProvider {
	if config.TokenURL == "" {
		config.TokenURL = defaultKakaoTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultKakaoUserInfoURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &KakaoOAuthProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// kakaoTokenResponse はKakaoのトークンエンドポイントのレスポンス。
type kakaoTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// kakaoErrorResponse はKakaoのエラーレスポンス。
type kakaoErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// kakaoUserInfo はKakaoのユーザー情報エンドポイントのレスポンス。
// ユーザーIDは数値で返されるため文字列化して扱う。
type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// ExchangeCode は認可コードをアクセストークンに交換し、ユーザー情報を取得する。
// IdPがエラーを返した場合はerror_descriptionを含むAPIError（upstream）を返す。
func (p *KakaoOAuthProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (*OAuthUserInfo, error) {
	// 1. 認可コードをアクセストークンに交換
	tokenResp, err := p.exchangeToken(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	// 2. アクセストークンでユーザー情報を取得
	userInfo, err := p.fetchUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, err
	}

	name := userInfo.KakaoAccount.Profile.Nickname
	if name == "" {
		name = defaultDisplayName
	}

	return &OAuthUserInfo{
		ProviderUserID: strconv.FormatInt(userInfo.ID, 10),
		Provider:       "kakao",
		Name:           name,
		Email:          userInfo.KakaoAccount.Email,
		Picture:        userInfo.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}

// exchangeToken は認可コードをアクセストークンに交換する。
func (p *KakaoOAuthProvider) exchangeToken(ctx context.Context, code, redirectURI string) (*kakaoTokenResponse, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {p.config.ClientID},
		"redirect_uri": {redirectURI},
		"code":         {code},
	}
	if p.config.ClientSecret != "" {
		data.Set("client_secret", p.config.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, model.NewOAuthExchangeFailedError(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewOAuthExchangeFailedError(providerErrorDetail(resp.StatusCode, body))
	}

	var tokenResp kakaoTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, model.NewOAuthExchangeFailedError("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchUserInfo はアクセストークンでKakaoのユーザー情報を取得する。
func (p *KakaoOAuthProvider) fetchUserInfo(ctx context.Context, accessToken string) (*kakaoUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, model.NewOAuthExchangeFailedError(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewOAuthExchangeFailedError(providerErrorDetail(resp.StatusCode, body))
	}

	var userInfo kakaoUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	if userInfo.ID == 0 {
		return nil, fmt.Errorf("empty user id in user info response")
	}

	return &userInfo, nil
}

// providerErrorDetail はIdPのエラーレスポンスから呼び出し元に返す説明文を組み立てる。
// error_descriptionが取れる場合はそれを、取れない場合はステータスコードを使う。
func providerErrorDetail(statusCode int, body []byte) string {
	var errResp kakaoErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.ErrorDescription != "" {
		return errResp.ErrorDescription
	}
	return fmt.Sprintf("provider returned status %d", statusCode)
}

// compile-time interface check
var _ OAuthProvider = (*KakaoOAuthProvider)(nil)
