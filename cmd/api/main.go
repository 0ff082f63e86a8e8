package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/coachlink/docs"
	pkgvalidator "github.com/johnquangdev/coachlink/pkg/validator"

	"github.com/johnquangdev/coachlink/internal/adapter/handler"
	"github.com/johnquangdev/coachlink/internal/adapter/repository"
	"github.com/johnquangdev/coachlink/internal/infrastructure/cache"
	"github.com/johnquangdev/coachlink/internal/infrastructure/database"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/auxbot"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	surveyapi "github.com/johnquangdev/coachlink/internal/infrastructure/external/survey"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/transcript"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/twilio"
	httpmw "github.com/johnquangdev/coachlink/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/coachlink/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/coachlink/internal/usecase/ai"
	"github.com/johnquangdev/coachlink/internal/usecase/coaching"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
	"github.com/johnquangdev/coachlink/internal/usecase/scheduler"
	"github.com/johnquangdev/coachlink/internal/usecase/survey"
	"github.com/johnquangdev/coachlink/internal/usecase/user"
	pkgai "github.com/johnquangdev/coachlink/pkg/ai"
	"github.com/johnquangdev/coachlink/pkg/config"
	"github.com/johnquangdev/coachlink/pkg/jwt"
)

// @title           CoachLink API
// @version         1.0
// @description     Meeting lifecycle reconciliation: calendar, transcript, chat and survey webhooks with WhatsApp coaching

// @contact.name   API Support

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("❌ Server exited with error", zap.Error(err))
	}
	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("🔧 Initializing dependencies...")

	// Initialize Database
	logger.Info("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if _, err := database.AutoMigrate(db, database.MigrationsDir, logger); err != nil {
			return err
		}
	} else {
		logger.Info("🔄 Skipping migrations; run scripts/migrate to apply them")
	}

	// Scheduler lock: Redis when enabled so replicas share one cycle
	var locker cache.Locker
	if cfg.Redis.Enabled {
		logger.Info("📦 Connecting to Redis...")
		redisLocker, err := cache.NewRedisLocker(cfg, logger)
		if err != nil {
			return err
		}
		defer redisLocker.Close()
		locker = redisLocker
	} else {
		store := cache.NewMemoryStore()
		defer store.Close()
		locker = cache.NewMemoryLocker(store)
	}

	// Transcript archive
	var archive storage.Archive = storage.NoopArchive{}
	if cfg.Storage.Enabled {
		logger.Info("🗄️  Initializing transcript archive...")
		a, err := storage.NewTranscriptArchive(&cfg.Storage)
		if err != nil {
			return err
		}
		archive = a
	}

	// Lifecycle events
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		logger.Info("📡 Connecting to NATS...", zap.String("url", cfg.NATS.URL))
		p, nc, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			return err
		}
		defer nc.Drain()
		publisher = p
	}

	// Initialize repositories
	logger.Info("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	ledgerRepo := repository.NewSurveyLedgerRepository(db)
	coachingRepo := repository.NewCoachingRepository(db)

	// Initialize outbound collaborators
	logger.Info("🤝 Initializing outbound clients...")
	httpClient := &http.Client{Timeout: 60 * time.Second}
	retry := httpclient.DefaultRetry()
	sender := twilio.NewClient(cfg.Twilio, httpClient, retry)
	crm := hubspot.NewClient(cfg.HubSpot.APIURL, cfg.HubSpot.AccessToken, retry)
	bot := auxbot.NewClient(cfg.AuxBot.BaseURL, httpClient, retry)
	surveys := surveyapi.NewClient(cfg.Survey.APIURL, httpClient, retry)

	logger.Info("🤖 Initializing AI components...")
	groqClient := pkgai.NewGroqClient(&cfg.Groq)
	asmClient := pkgai.NewAssemblyAIClient(&cfg.Assembly)
	coach := aiuse.NewCoach(groqClient, logger)
	fetcher := transcript.NewHTTPFetcher(httpClient, asmClient, logger)

	// Initialize services
	logger.Info("✨ Initializing services...")
	opts := meeting.Options{
		Grace:         cfg.Scheduler.ReminderGrace,
		DefaultLength: cfg.Scheduler.DefaultMeetingLength,
		SurveyWindow:  cfg.Scheduler.SurveyWindow,
		NudgeAfter:    cfg.Scheduler.NudgeAfter,
		BotLookahead:  cfg.Scheduler.BotLookahead,
		BotStale:      cfg.Scheduler.BotStaleAfter,
		BotPollBatch:  cfg.Scheduler.BotPollBatch,
		Location:      cfg.Location(),
	}
	meetingService := meeting.NewMeetingService(meeting.Deps{
		Meetings:    meetingRepo,
		Transcripts: transcriptRepo,
		Messages:    messageRepo,
		Users:       userRepo,
		Clients:     clientRepo,
		Sender:      sender,
		CRM:         crm,
		Bot:         bot,
		Survey:      surveys,
		Fetcher:     fetcher,
		Archive:     archive,
		Publisher:   publisher,
		Coach:       coach,
	}, opts, logger)

	dispatcher := meeting.NewDispatcher(sender, messageRepo, logger)
	surveyService := survey.NewSurveyService(surveys, ledgerRepo, crm, logger)
	coachingService := coaching.NewCoachingService(coachingRepo, userRepo, coach, dispatcher, logger)
	userService := user.NewUserService(userRepo, dispatcher, cfg.App.BotEmail, logger)

	// Initialize Echo instance
	e := newEcho(cfg)

	jwtManager := jwt.NewManager(cfg.JWT.AdminSecret, cfg.JWT.AdminExpiry)
	router := handler.NewRouter(
		cfg,
		handler.NewWebhookHandler(meetingService, surveyService, handler.InboundSignature{
			Enabled:    cfg.Twilio.ValidateSignature,
			AuthToken:  cfg.Twilio.AuthToken,
			WebhookURL: cfg.Twilio.WebhookURL,
		}, logger),
		handler.NewCoachingHandler(coachingService, logger),
		handler.NewRegistrationHandler(userService, cfg.App.Timezone, logger),
		handler.NewAdminHandler(meetingService, logger),
		httpmw.EchoAdminAuth(jwtManager, jwt.ScopeMeetingsRead),
		func(ctx context.Context) error { return database.Ping(ctx, db) },
	)
	router.Setup(e)

	sched := scheduler.NewScheduler(meetingService, surveyService, locker, scheduler.Options{
		Interval:    cfg.Scheduler.Interval,
		ItemTimeout: cfg.Scheduler.ItemTimeout,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	// Start server
	g.Go(func() error {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	if cfg.Scheduler.Enabled {
		if err := sched.Start(gctx); err != nil {
			return err
		}
		logger.Info("⏰ Scheduler started", zap.Duration("interval", cfg.Scheduler.Interval))
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("🛑 Shutting down server...")

		if cfg.Scheduler.Enabled {
			if err := sched.Stop(); err != nil {
				logger.Warn("scheduler stop failed", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	return e
}
