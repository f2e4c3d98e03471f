package config

import (
	"os"
	"strconv"
)

type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	Port            string
	Prod            bool
	ClientOrigin    string
	JWTSecret       string
	TokenMaxAgeMin  int // session lifetime in minutes; cookie Max-Age is this * 60
	RedisAddr       string
	RateLimitPerMin int
	AMQPURL         string
	Google          OAuthClient
	GitHub          OAuthClient
	Kakao           OAuthClient // Kakao issues no client secret for this flow
	Naver           OAuthClient
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		Prod:            getenv("APP_ENV", "dev") == "prod",
		ClientOrigin:    getenv("CLIENT_ORIGIN", "http://localhost:3000"),
		JWTSecret:       getenv("JWT_SECRET", "default_secret_key"),
		TokenMaxAgeMin:  atoi(getenv("TOKEN_MAXAGE", "60")),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "0")),
		AMQPURL:         getenv("AMQP_URL", ""),
		Google: OAuthClient{
			ClientID:     getenv("GOOGLE_OAUTH_CLIENT_ID", ""),
			ClientSecret: getenv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  getenv("GOOGLE_OAUTH_REDIRECT_URL", ""),
		},
		GitHub: OAuthClient{
			ClientID:     getenv("GITHUB_OAUTH_CLIENT_ID", ""),
			ClientSecret: getenv("GITHUB_OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  getenv("GITHUB_OAUTH_REDIRECT_URL", ""),
		},
		Kakao: OAuthClient{
			ClientID:    getenv("KAKAO_OAUTH_CLIENT_ID", ""),
			RedirectURL: getenv("KAKAO_OAUTH_REDIRECT_URL", ""),
		},
		Naver: OAuthClient{
			ClientID:     getenv("NAVER_OAUTH_CLIENT_ID", ""),
			ClientSecret: getenv("NAVER_OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  getenv("NAVER_OAUTH_REDIRECT_URL", ""),
		},
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
