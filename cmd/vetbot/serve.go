package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/vetbotio/vetbot/internal/appstore"
	"github.com/vetbotio/vetbot/internal/auditlog"
	"github.com/vetbotio/vetbot/internal/channel"
	slackadapter "github.com/vetbotio/vetbot/internal/channel/adapters/slack"
	"github.com/vetbotio/vetbot/internal/config"
	"github.com/vetbotio/vetbot/internal/handlers"
	"github.com/vetbotio/vetbot/internal/healthcheck"
	channelchecker "github.com/vetbotio/vetbot/internal/healthcheck/checkers/channel"
	"github.com/vetbotio/vetbot/internal/logger"
	"github.com/vetbotio/vetbot/internal/nowsecure"
	"github.com/vetbotio/vetbot/internal/server"
	"github.com/vetbotio/vetbot/internal/version"
	"github.com/vetbotio/vetbot/internal/vetting"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideAuditRecorder,
			provideNowSecureClient,
			provideLookupClient,
			provideResolver,
			provideExtractor,
			provideSlackAdapter,
			provideRegistry,
			provideNotifications,
			provideSubmissions,
			provideChannelManager,
			provideChannelChecker,
			provideServer,
		),
		fx.Invoke(
			startChannelManager,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideAuditRecorder(log *slog.Logger, cfg config.Config) (auditlog.Recorder, error) {
	return auditlog.NewFileRecorder(log, cfg.Audit.Path)
}

func provideNowSecureClient(log *slog.Logger, cfg config.Config) (*nowsecure.Client, error) {
	return nowsecure.NewClient(log, nowsecure.Config{
		APIToken:      cfg.NowSecure.APIToken,
		GroupID:       cfg.NowSecure.GroupID,
		LabBaseURL:    cfg.NowSecure.LabBaseURL,
		ReportBaseURL: cfg.NowSecure.ReportBaseURL,
	}, nil)
}

func provideLookupClient(cfg config.Config) *appstore.LookupClient {
	timeout := time.Duration(cfg.AppStore.LookupTimeoutSeconds) * time.Second
	return appstore.NewLookupClient(cfg.AppStore.LookupBaseURL, timeout)
}

func provideResolver(log *slog.Logger, lookup *appstore.LookupClient) *appstore.Resolver {
	return appstore.NewResolver(log, lookup)
}

func provideExtractor(cfg config.Config) *vetting.Extractor {
	return vetting.NewExtractor(cfg.Slack.PlatformBotName, cfg.Slack.ActionLabel)
}

func provideSlackAdapter(log *slog.Logger, cfg config.Config) (*slackadapter.Adapter, error) {
	return slackadapter.NewAdapter(log, slackadapter.Config{
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		Command:  cfg.Slack.Command,
	})
}

func provideRegistry(adapter *slackadapter.Adapter) (*channel.Registry, error) {
	registry := channel.NewRegistry()
	if err := registry.Register(adapter); err != nil {
		return nil, err
	}
	return registry, nil
}

func provideNotifications(log *slog.Logger, extractor *vetting.Extractor, client *nowsecure.Client, adapter *slackadapter.Adapter) *vetting.Notifications {
	return vetting.NewNotifications(log, extractor, client, adapter)
}

func provideSubmissions(log *slog.Logger, resolver *appstore.Resolver, client *nowsecure.Client, audit auditlog.Recorder) *vetting.Submissions {
	return vetting.NewSubmissions(log, resolver, client, audit)
}

func provideChannelManager(log *slog.Logger, registry *channel.Registry, notifications *vetting.Notifications, submissions *vetting.Submissions) *channel.Manager {
	return channel.NewManager(log, registry, notifications.Handle, submissions.HandleCommand)
}

func provideChannelChecker(log *slog.Logger, manager *channel.Manager) *channelchecker.Checker {
	return channelchecker.NewChecker(log, manager)
}

func provideServer(log *slog.Logger, cfg config.Config, checker *channelchecker.Checker) *server.Server {
	var checkers []healthcheck.Checker
	checkers = append(checkers, checker)
	return server.NewServer(log, cfg.Server.Addr,
		handlers.NewPingHandler(log),
		handlers.NewHealthHandler(log, checkers...),
	)
}

func startChannelManager(lc fx.Lifecycle, manager *channel.Manager) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error { return manager.Start(ctx) },
		OnStop:  func(stopCtx context.Context) error { cancel(); return manager.Shutdown(stopCtx) },
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting vetbot %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
