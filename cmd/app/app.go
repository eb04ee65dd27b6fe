package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/topevent/topevent-go/internal/api"
	"github.com/topevent/topevent-go/internal/config"
	"github.com/topevent/topevent-go/internal/logger"
	"github.com/topevent/topevent-go/internal/query"
	"github.com/topevent/topevent-go/internal/repository"
	"github.com/topevent/topevent-go/internal/service"
	"github.com/topevent/topevent-go/internal/session"
	"github.com/topevent/topevent-go/internal/storage"
)

// App wires the client stack together for the command-line surface.
type App struct {
	Events        *service.EventService
	Subscriptions *service.SubscriptionService
	Auth          *service.AuthService
	Sessions      *session.Store
}

func Start() error {
	confPath := os.Getenv("TOPEVENT_CONFIG")
	if confPath == "" {
		confPath = "./cmd/app/config.yml"
	}

	conf, err := config.Load(confPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	st, err := storage.Open(conf.Storage.StateDir)
	if err != nil {
		return fmt.Errorf("failed to open state storage -> %w", err)
	}
	defer st.Close()

	sessions := session.NewStore(st)
	if err = sessions.StartSync(); err != nil {
		zap.L().Warn("session sync unavailable", zap.Error(err))
	}

	httpClient := http.DefaultClient
	if conf.API.Timeout > 0 {
		httpClient = &http.Client{Timeout: time.Duration(conf.API.Timeout) * time.Second}
	}

	client := api.NewClient(conf.API.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithTokenSource(sessions.Token),
		api.WithOnUnauthorized(func() {
			// Central 401 handling: session teardown happens here, once,
			// regardless of which call tripped it.
			if err := sessions.Logout(); err != nil {
				zap.L().Warn("failed to clear session", zap.Error(err))
			}
			sessions.QueueNotice(session.Notice{
				Type:    session.NoticeError,
				Message: "Your session has expired, please log in again.",
			})
		}),
	)

	cache := query.NewCache()

	app := &App{
		Events:        service.NewEventService(repository.NewEventRepository(client), cache),
		Subscriptions: service.NewSubscriptionService(repository.NewSubscriptionRepository(client), cache, sessions),
		Auth:          service.NewAuthService(repository.NewUserRepository(client), sessions, cache),
		Sessions:      sessions,
	}

	err = app.Run(os.Args[1:])

	// A 401 during the command queues a one-shot notice; surface it now
	// that the command's own output is done.
	if notice, ok := sessions.ConsumeNotice(); ok {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", notice.Type, notice.Message)
	}

	return err
}
