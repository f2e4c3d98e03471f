package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/oauth-service/internal/config"
	"github.com/tazhibayda/oauth-service/internal/domain"
	"github.com/tazhibayda/oauth-service/internal/log"
	"github.com/tazhibayda/oauth-service/internal/metrics"
	"github.com/tazhibayda/oauth-service/internal/oauth"
	"github.com/tazhibayda/oauth-service/internal/queue"
	"github.com/tazhibayda/oauth-service/internal/repo"
	"github.com/tazhibayda/oauth-service/internal/security"
)

type Handler struct {
	Store           *repo.Store
	Providers       *oauth.Registry
	ClientOrigin    string
	JWTSecret       string
	TokenMaxAge     time.Duration // session lifetime; cookie Max-Age
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
}

func NewHandler(store *repo.Store, providers *oauth.Registry, cfg config.Config, rds *repo.Redis, pub queue.Publisher) *Handler {
	return &Handler{
		Store:           store,
		Providers:       providers,
		ClientOrigin:    cfg.ClientOrigin,
		JWTSecret:       cfg.JWTSecret,
		TokenMaxAge:     time.Duration(cfg.TokenMaxAgeMin) * time.Minute,
		Redis:           rds,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Events:          pub,
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int(h.TokenMaxAge.Seconds()), "/", "", false, true)
}

func (h *Handler) reqID(c *gin.Context) string {
	id, _ := c.Get(requestIDKey)
	s, _ := id.(string)
	return s
}

// queryCode binds the inbound callback parameters: the single-use
// authorization code and the opaque state used verbatim as the
// redirect-path suffix.
type queryCode struct {
	Code  string `form:"code"`
	State string `form:"state"`
}

// OAuthCallback godoc
// @Summary OAuth2 callback
// @Tags sessions
// @Param provider path string true "google | github | kakao | naver"
// @Param code query string true "authorization code"
// @Param state query string false "redirect path suffix"
// @Success 302
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/sessions/oauth/{provider} [get]
func (h *Handler) OAuthCallback(c *gin.Context) {
	p, err := h.Providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	var q queryCode
	_ = c.ShouldBindQuery(&q)
	if q.Code == "" {
		c.JSON(http.StatusBadRequest,
			gin.H{"status": "fail", "message": "Authorization code not provided!"})
		return
	}

	ctx := c.Request.Context()

	var tok *oauth.Token
	err = WithSpan(ctx, "oauth.exchange", func(ctx context.Context) error {
		var err error
		tok, err = p.ExchangeCode(ctx, q.Code)
		return err
	})
	if err != nil {
		metrics.OAuthLogins.WithLabelValues(p.Name(), "exchange_error").Inc()
		log.WithDD(ctx, log.L).Warn("token exchange failed",
			zap.String("provider", p.Name()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	var info *oauth.UserInfo
	err = WithSpan(ctx, "oauth.profile", func(ctx context.Context) error {
		var err error
		info, err = p.FetchProfile(ctx, tok)
		return err
	})
	if err != nil {
		metrics.OAuthLogins.WithLabelValues(p.Name(), "profile_error").Inc()
		log.WithDD(ctx, log.L).Warn("profile fetch failed",
			zap.String("provider", p.Name()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	userID := h.Store.FindOrCreate(ctx, *info)

	token, err := security.Issue(h.JWTSecret, userID, h.TokenMaxAge)
	if err != nil {
		metrics.OAuthLogins.WithLabelValues(p.Name(), "internal_error").Inc()
		log.WithDD(ctx, log.L).Error("session token signing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError,
			gin.H{"status": "error", "message": "could not issue session token"})
		return
	}

	metrics.OAuthLogins.WithLabelValues(p.Name(), "success").Inc()
	go h.Events.Publish(context.Background(), queue.Exchange, queue.KeyOAuthLoggedIn,
		queue.OAuthLoggedIn{UserID: userID, Email: info.Email, Provider: info.Provider},
		h.reqID(c))

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, h.ClientOrigin+q.State)
}

// OAuthLogin redirects the browser to the provider's authorization page.
// The state carries the path the client wants to land back on.
func (h *Handler) OAuthLogin(c *gin.Context) {
	p, err := h.Providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	state := c.Query("state")
	if state == "" {
		state = "/"
	}
	c.Redirect(http.StatusFound, p.AuthCodeURL(state))
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register local user
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "invalid email or password"})
		return
	}

	u, err := h.Store.CreateLocal(c.Request.Context(), strings.TrimSpace(in.Name), email, in.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"status": "fail", "message": "Email already exist"})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, queue.KeyUserRegistered,
		queue.UserRegistered{UserID: u.ID, Email: u.Email, Name: u.Name},
		h.reqID(c))

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": u.Filtered()}})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login with a local account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "invalid json"})
		return
	}

	u, ok := h.Store.FindByEmail(in.Email)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid email or password"})
		return
	}
	if u.Provider != domain.ProviderLocal {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "fail",
			"message": fmt.Sprintf("Use %s OAuth2 instead", u.Provider)})
		return
	}
	if u.Password != in.Password {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid email or password"})
		return
	}

	token, err := security.Issue(h.JWTSecret, u.ID, h.TokenMaxAge)
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			gin.H{"status": "error", "message": "could not issue session token"})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, queue.KeyUserLoggedIn,
		queue.UserLoggedIn{UserID: u.ID, Email: u.Email},
		h.reqID(c))

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Me godoc
// @Summary Current user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	id := c.GetString(authUserKey)
	u, ok := h.Store.FindByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "fail", "message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": u.Filtered()}})
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "OK"})
}
