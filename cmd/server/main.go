package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hemdhoni222/todo-app/docs"
	"github.com/hemdhoni222/todo-app/internal/config"
	api "github.com/hemdhoni222/todo-app/internal/http"
	"github.com/hemdhoni222/todo-app/internal/log"
	"github.com/hemdhoni222/todo-app/internal/mail"
	"github.com/hemdhoni222/todo-app/internal/metrics"
	"github.com/hemdhoni222/todo-app/internal/notify"
	"github.com/hemdhoni222/todo-app/internal/oauth"
	"github.com/hemdhoni222/todo-app/internal/queue"
	"github.com/hemdhoni222/todo-app/internal/repo"
)

// @title Todo API
// @version 0.1.0
// @description Multi-user task tracker with password and Google sign-in.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	var events queue.Publisher = queue.NewNoop()
	if cfg.RabbitURL != "" {
		events, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
	}
	defer events.Close()

	sender := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	notifier := notify.New(sender, events, cfg.NotifyTimeout)

	google := oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL, cfg.OAuthStateSecret)

	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(store, notifier, google,
		cfg.JWTSecret, cfg.TokenTTL, cfg.OAuthTokenTTL, cfg.ClientURL)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("todo-app listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
