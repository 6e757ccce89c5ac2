package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"careerwatch/jobtracker/config"
	"careerwatch/jobtracker/internal/filter"
	"careerwatch/jobtracker/internal/scraper"
	"careerwatch/jobtracker/logger"
	"careerwatch/jobtracker/services/cache"
	"careerwatch/jobtracker/services/notifier"
	"careerwatch/jobtracker/services/publisher"
	"careerwatch/jobtracker/services/runner"
	"careerwatch/jobtracker/services/store"
)

func main() {
	os.Exit(run())
}

// run performs a single tracker pass. The scheduling trigger (cron, systemd
// timer) lives outside this process. Exit status is non-zero only for
// configuration-level failures; a single company's scrape failure is not
// fatal to the run.
func run() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	configPath := os.Getenv("JOBTRACKER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Cannot load configuration")
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("companies", len(cfg.Companies)).
		Int("keywords", len(cfg.SearchKeywords)).
		Msg("Starting job tracker run")

	// Set up context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize services")
		return 1
	}
	defer services.Cleanup()

	// Create scrapers
	scrapers := scraper.CreateScrapers(cfg, services.Fetcher)
	if len(scrapers) == 0 {
		log.Error().Msg("No scrapers were created")
		return 1
	}
	log.Info().Int("scraper_count", len(scrapers)).Msg("Created scrapers")

	r := runner.New(
		ctx,
		scrapers,
		filter.NewKeywordMatcher(cfg.SearchKeywords),
		services.Store,
		services.Notifier,
		services.Publisher,
		runner.Config{
			RequestDelay:           cfg.Scraping.RequestDelay(),
			SendSummary:            cfg.Notifications.SendSummary,
			MaxJobsPerNotification: cfg.Notifications.MaxJobsPerNotification,
		},
	)

	result := r.Run()
	for _, failed := range result.CompaniesFailed {
		log.Warn().Str("company", failed.Company).Err(failed.Err).Msg("Company skipped this run")
	}

	return 0
}

// Services holds all the initialized services
type Services struct {
	Fetcher   *scraper.Fetcher
	Store     store.Store
	Notifier  notifier.Notifier
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Optional cross-run block cache
	var cacheSvc cache.CacheService
	if cfg.Cache.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.Cache.MemcacheAddr)
		logger.Infof("Using memcache block cache at %s", cfg.Cache.MemcacheAddr)
	}

	services.Fetcher = scraper.NewFetcher(scraper.FetchConfig{
		Timeout:       cfg.Scraping.Timeout(),
		RetryAttempts: cfg.Scraping.RetryAttempts,
		RetryDelay:    cfg.Scraping.RetryDelay(),
	}, cacheSvc)

	fileStore, err := store.NewFileStore(cfg.Store.Dir)
	if err != nil {
		return nil, err
	}
	services.Store = fileStore

	if cfg.Notifications.Enabled {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		services.Notifier = tg
		logger.Infof("Telegram notifier initialized")
	} else {
		services.Notifier = notifier.NewLogNotifier()
		logger.Infof("Notifications disabled, logging new postings instead")
	}

	// Optional Redis stream sink
	if cfg.Publisher.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.Publisher.RedisAddr,
			cfg.Publisher.RedisDB,
			cfg.Publisher.Stream,
			cfg.Publisher.StreamMaxLength,
		)
		logger.Infof("Publishing new postings to Redis at %s (stream: %s)",
			cfg.Publisher.RedisAddr, cfg.Publisher.Stream)
	}

	return services, nil
}
