// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"partypulse/internal/adapter/events"
	"partypulse/internal/adapter/source/facebook"
	"partypulse/internal/adapter/source/instagram"
	"partypulse/internal/adapter/source/news"
	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/adapter/source/trends"
	"partypulse/internal/adapter/source/twitter"
	"partypulse/internal/adapter/source/youtube"
	"partypulse/internal/adapter/storage"
	"partypulse/internal/config"
	"partypulse/internal/domain/event"
	"partypulse/internal/logger"
	"partypulse/internal/server"
	"partypulse/internal/server/handlers"
	"partypulse/internal/service/dashboard"
	"partypulse/internal/service/sentiment"
	"partypulse/internal/service/stats"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.RapidAPI.Key == "" {
		appLog.Warn("RAPIDAPI_KEY is not set, hosted sources will serve fallback data")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Sentiment analyzer is shared by the news adapter and the dashboard
	analyzer := sentiment.NewAnalyzer(sentiment.Config{
		TTL:      cfg.Cache.SentimentTTL,
		Capacity: cfg.Cache.SentimentSize,
	}, appLog)

	// Initialize source adapters
	twitterClient := twitter.NewClient(newTwitterBackend(cfg), twitter.Config{
		YSRCPQuery:  cfg.Twitter.YSRCPQuery,
		TDPQuery:    cfg.Twitter.TDPQuery,
		YSRCPHandle: cfg.Twitter.YSRCPHandle,
		TDPHandle:   cfg.Twitter.TDPHandle,
		TTL:         cfg.Twitter.TTL,
		Capacity:    cfg.Cache.Capacity,
	}, appLog)

	instagramClient := instagram.NewClient(
		newRapidAPI(cfg.RapidAPI, cfg.Instagram.Host, cfg.Instagram.BaseURL, cfg.RapidAPI.Timeout),
		instagram.Config{
			YSRCPHandle: cfg.Instagram.YSRCPHandle,
			TDPHandle:   cfg.Instagram.TDPHandle,
			TTL:         cfg.Instagram.TTL,
			Capacity:    cfg.Cache.Capacity,
		}, appLog)

	facebookClient := facebook.NewClient(
		newRapidAPI(cfg.RapidAPI, cfg.Facebook.Host, cfg.Facebook.BaseURL, cfg.Facebook.Timeout),
		facebook.Config{
			YSRCPPage: cfg.Facebook.YSRCPPage,
			TDPPage:   cfg.Facebook.TDPPage,
			TTL:       cfg.Facebook.TTL,
			Capacity:  cfg.Cache.Capacity,
		}, appLog)

	youtubeClient := youtube.NewClient(
		newRapidAPI(cfg.RapidAPI, cfg.YouTube.Host, cfg.YouTube.BaseURL, cfg.RapidAPI.Timeout),
		youtube.Config{
			YSRCPChannel:   cfg.YouTube.YSRCPChannel,
			TDPChannel:     cfg.YouTube.TDPChannel,
			YSRCPChannelID: cfg.YouTube.YSRCPChannelID,
			TDPChannelID:   cfg.YouTube.TDPChannelID,
			TTL:            cfg.YouTube.TTL,
			Capacity:       cfg.Cache.Capacity,
		}, appLog)

	trendsClient := trends.NewClient(trends.Config{
		Geo:               cfg.Trends.Geo,
		RegionalTimeframe: cfg.Trends.Timeframe,
		MaxAttempts:       cfg.Trends.MaxAttempts,
		BackoffUnit:       cfg.Trends.BackoffUnit,
		TTL:               cfg.Trends.TTL,
	}, appLog, trends.WithBaseURL(cfg.Trends.BaseURL))

	newsClient := news.NewClient(news.Config{
		YSRCPFeed:      cfg.News.YSRCPFeed,
		TDPFeed:        cfg.News.TDPFeed,
		PoliticsFeed:   cfg.News.PoliticsFeed,
		NewsAPIKey:     cfg.News.NewsAPIKey,
		EntriesPerFeed: cfg.News.EntriesPerFeed,
		TTL:            cfg.News.TTL,
	}, appLog, news.WithBaseURL(cfg.News.NewsAPIURL), news.WithScorer(analyzer))

	statSources := stats.Sources{
		Twitter:   twitterClient,
		Instagram: instagramClient,
		Facebook:  facebookClient,
		YouTube:   youtubeClient,
		News:      newsClient,
	}

	// Optional snapshot archive
	var statsOpts []stats.Option
	var history handlers.SnapshotLister
	if cfg.Database.Enabled {
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			appLog.Fatal("Failed to initialize database", logger.Error(err))
		}
		defer db.Close()

		snapshots := storage.NewSnapshotStore(db)
		if err := snapshots.EnsureSchema(ctx); err != nil {
			appLog.Fatal("Failed to prepare snapshot schema", logger.Error(err))
		}
		statsOpts = append(statsOpts, stats.WithRecorder(snapshots))
		history = snapshots
		appLog.Info("Snapshot archive enabled", logger.String("database", cfg.Database.Database))
	}

	// Events go over NATS when configured and stay in process otherwise
	var bus interface {
		event.Publisher
		event.Subscriber
	}
	natsOn := cfg.NATS.URL != ""
	if natsOn {
		natsConn, err := initNATS(cfg.NATS, appLog)
		if err != nil {
			appLog.Fatal("Failed to connect to NATS", logger.Error(err))
		}
		defer natsConn.Close()
		bus = events.NewBus(natsConn, cfg.NATS.EventsSubject, appLog)
	} else {
		bus = events.NewLocal()
	}

	// Initialize services
	aggregator := stats.NewService(statSources, stats.Config{
		TTL:         cfg.Cache.StatsTTL,
		PlatformTTL: cfg.Cache.PlatformTTL,
	}, appLog, statsOpts...)

	dashboardService := dashboard.NewService(
		dashboard.Sources{Sources: statSources, Trends: trendsClient},
		aggregator,
		analyzer,
		appLog,
		dashboard.WithPublisher(bus),
	)

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Dependencies{
		Dashboard: handlers.NewDashboardHandler(dashboardService, aggregator, analyzer, newsClient, trendsClient, history, natsOn, appLog),
		Platforms: handlers.NewPlatformHandler(twitterClient, instagramClient, facebookClient, youtubeClient, appLog),
		Events:    bus,
		WebSocket: handlers.DefaultWebSocketConfig(),
		Log:       appLog,
	})

	// Start HTTP server
	go func() {
		appLog.Info("Starting HTTP server",
			logger.String("host", cfg.Server.Host),
			logger.Int("port", cfg.Server.Port),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("HTTP server error", logger.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	appLog.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP server shutdown error", logger.Error(err))
	}

	appLog.Info("Shutdown complete")
}

// newRapidAPI creates a RapidAPI client for one hosted upstream
func newRapidAPI(cfg config.RapidAPIConfig, host, baseURL string, timeout time.Duration) *rapidapi.Client {
	var opts []rapidapi.Option
	if baseURL != "" {
		opts = append(opts, rapidapi.WithBaseURL(baseURL))
	}
	return rapidapi.NewClient(cfg.Key, host, timeout, opts...)
}

// newTwitterBackend prefers the official API when a bearer token is set
func newTwitterBackend(cfg config.Config) twitter.Backend {
	if cfg.Twitter.BearerToken != "" {
		return twitter.NewV2Backend(cfg.Twitter.BearerToken, cfg.Twitter.V2BaseURL, nil)
	}
	return twitter.NewRapidBackend(newRapidAPI(cfg.RapidAPI, cfg.Twitter.Host, cfg.Twitter.BaseURL, cfg.RapidAPI.Timeout))
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log logger.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", logger.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", logger.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
