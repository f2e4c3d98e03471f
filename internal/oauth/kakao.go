package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/tazhibayda/oauth-service/internal/domain"
)

const (
	kakaoAuthURL  = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL = "https://kauth.kakao.com/oauth/token"
	kakaoUserURL  = "https://kapi.kakao.com/v2/user/me"
)

// Kakao uses the standard authorization_code form but without a client
// secret, and its profile payload is nested behind per-field user consent:
// any of kakao_account, profile, nickname, thumbnail or email may be absent.
type Kakao struct {
	Conf    *oauth2.Config
	UserURL string
	HTTP    *http.Client
}

func NewKakao(clientID, redirectURL string) *Kakao {
	return &Kakao{
		Conf: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Endpoint:    oauth2.Endpoint{AuthURL: kakaoAuthURL, TokenURL: kakaoTokenURL},
		},
		UserURL: kakaoUserURL,
	}
}

func (k *Kakao) Name() string { return "kakao" }

func (k *Kakao) AuthCodeURL(state string) string {
	return k.Conf.AuthCodeURL(state)
}

func (k *Kakao) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {k.Conf.ClientID},
		"redirect_uri": {k.Conf.RedirectURL},
		"code":         {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.Conf.Endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExchangeError{Provider: k.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	resp, err := httpClient(k.HTTP).Do(req)
	if err != nil {
		return nil, &ExchangeError{Provider: k.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExchangeError{Provider: k.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var tok basicToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, &ExchangeError{Provider: k.Name(), Err: err}
	}
	return &Token{AccessToken: tok.AccessToken}, nil
}

type kakaoProfile struct {
	Nickname          string `json:"nickname"`
	ThumbnailImageURL string `json:"thumbnail_image_url"`
}

type kakaoAccount struct {
	Profile *kakaoProfile `json:"profile"`
	Email   string        `json:"email"`
}

type kakaoUser struct {
	ID           int64         `json:"id"`
	KakaoAccount *kakaoAccount `json:"kakao_account"`
}

func (k *Kakao) FetchProfile(ctx context.Context, tok *Token) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.UserURL, nil)
	if err != nil {
		return nil, &ProfileError{Provider: k.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient(k.HTTP).Do(req)
	if err != nil {
		return nil, &ProfileError{Provider: k.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProfileError{Provider: k.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var ku kakaoUser
	if err := json.NewDecoder(resp.Body).Decode(&ku); err != nil {
		return nil, &ProfileError{Provider: k.Name(), Err: err}
	}

	info := &UserInfo{
		Name:     "Unknown",
		Photo:    domain.DefaultPhoto,
		Provider: domain.ProviderKakao,
	}
	if acc := ku.KakaoAccount; acc != nil {
		info.Email = acc.Email
		if p := acc.Profile; p != nil {
			if p.Nickname != "" {
				info.Name = p.Nickname
			}
			if p.ThumbnailImageURL != "" {
				info.Photo = p.ThumbnailImageURL
			}
		}
	}
	return info, nil
}
