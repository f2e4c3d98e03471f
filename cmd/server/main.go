package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tazhibayda/oauth-service/internal/config"
	api "github.com/tazhibayda/oauth-service/internal/http"
	applog "github.com/tazhibayda/oauth-service/internal/log"
	"github.com/tazhibayda/oauth-service/internal/metrics"
	"github.com/tazhibayda/oauth-service/internal/oauth"
	"github.com/tazhibayda/oauth-service/internal/queue"
	"github.com/tazhibayda/oauth-service/internal/repo"
)

func main() {
	cfg := config.Load()

	logger, err := applog.Init(cfg.Prod)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	metrics.MustRegister()

	store := repo.NewStore()

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
	}

	pub := queue.NewNoop()
	if cfg.AMQPURL != "" {
		p, err := queue.NewRabbit(cfg.AMQPURL, queue.Exchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
		pub = p
	}
	defer pub.Close()

	providers := oauth.NewRegistry(
		oauth.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL),
		oauth.NewGitHub(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.RedirectURL),
		oauth.NewKakao(cfg.Kakao.ClientID, cfg.Kakao.RedirectURL),
		oauth.NewNaver(cfg.Naver.ClientID, cfg.Naver.ClientSecret, cfg.Naver.RedirectURL),
	)

	h := api.NewHandler(store, providers, cfg, rds, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("oauth-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
