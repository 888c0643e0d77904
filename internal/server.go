package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmorales-dev/estudio-backend/internal/auth"
	"github.com/jmorales-dev/estudio-backend/internal/config"
	"github.com/jmorales-dev/estudio-backend/internal/contact"
	"github.com/jmorales-dev/estudio-backend/internal/content"
	"github.com/jmorales-dev/estudio-backend/internal/db"
	"github.com/jmorales-dev/estudio-backend/internal/media"
	"github.com/jmorales-dev/estudio-backend/internal/middleware"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
)

// Server is the application context: everything the handlers need,
// built once at startup and passed down explicitly
type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	authService *auth.Service
	uploader    media.Uploader
	mailer      contact.Mailer

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	TokenSigningKey         string
	PostgresPassword        string
	RedisPassword           string
	SMTPPassword            string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// redis backs the session revocation set; the service runs fine
	// without it, a logout then just clears the cookie client-side
	var rdb *redis.Client
	var revocations *auth.RevocationStore
	if params.Config.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		revocations = auth.NewRevocationStore(rdb)
	} else {
		log.Warnln("redis host not set, logout will not revoke session tokens")
	}

	authService := auth.NewService(
		&auth.Admin{
			Username:     params.AdminUsername,
			PasswordHash: params.AdminPasswordHash,
		},
		[]byte(params.TokenSigningKey),
		auth.SessionTTL,
		revocations,
	)

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "estudio-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	uploader, err := media.NewS3Uploader(ctx, params.Config.S3Bucket, params.Config.S3Region, tracedHttpClient)
	if err != nil {
		return nil, fmt.Errorf("new s3 uploader: %w", err)
	}

	mailer, err := contact.NewSMTPMailer(contact.SMTPMailerParams{
		Host:     params.Config.SMTPHost,
		Port:     params.Config.SMTPPort,
		Username: params.Config.SMTPUser,
		Password: params.SMTPPassword,
		ToAddr:   params.Config.ContactToAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("new smtp mailer: %w", err)
	}

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,
		authService: authService,
		uploader:    uploader,
		mailer:      mailer,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	authHandler := auth.NewHandler(s.authService, s.metricsManager, s.config.IsProduction())
	authHandler.SetupRoutes(r)

	contentHandler := content.NewHandler(
		content.NewRepo(s.dbPool),
		s.metricsManager,
	)
	contentHandler.SetupRoutes(r)

	mediaHandler := media.NewHandler(s.uploader, s.metricsManager)
	mediaHandler.SetupRoutes(r)

	contactHandler := contact.NewHandler(s.mailer, s.metricsManager)
	contactHandler.SetupRoutes(r)

	// admin and login pages; /admin and /admin.html are protected by the
	// auth middleware and redirect to the login page when not logged in
	r.HandleFunc("/admin", s.serveStaticPage("admin.html")).Methods("GET")
	r.HandleFunc("/admin.html", s.serveStaticPage("admin.html")).Methods("GET")
	r.HandleFunc("/login.html", s.serveStaticPage("login.html")).Methods("GET")

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET").Name("root")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) serveStaticPage(fileName string) http.HandlerFunc {
	pagePath := filepath.Join(s.config.StaticDirPath, fileName)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, pagePath)
	}
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	var closeErr error
	if s.redisClient != nil {
		closeErr = multierr.Append(closeErr, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		closeErr = multierr.Append(closeErr, s.httpServer.Shutdown(ctx))
	}
	if s.metricsHttpServer != nil {
		closeErr = multierr.Append(closeErr, s.metricsHttpServer.Shutdown(ctx))
	}
	if closeErr != nil {
		log.Errorf(" >>> failed to gracefully shutdown: %s", closeErr)
	}

	log.Warnln("server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
