package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/jmorales-dev/estudio-backend/internal"
	"github.com/jmorales-dev/estudio-backend/internal/config"
	"github.com/jmorales-dev/estudio-backend/internal/logging"
	"github.com/jmorales-dev/estudio-backend/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "main-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	// without these there is no admin session at all, so refuse to
	// start instead of running with a guessable default
	adminUsername := os.Getenv("ESTUDIO_ADMIN_USERNAME")
	adminPasswordHash := os.Getenv("ESTUDIO_ADMIN_PASSWORD_HASH")
	if adminUsername == "" || adminPasswordHash == "" {
		log.Fatalf("admin username and password hash not set. use ESTUDIO_ADMIN_USERNAME and ESTUDIO_ADMIN_PASSWORD_HASH")
	}

	tokenSigningKey := os.Getenv("ESTUDIO_TOKEN_SIGNING_KEY")
	if tokenSigningKey == "" {
		log.Fatalf("session token signing key not set. use ESTUDIO_TOKEN_SIGNING_KEY")
	}

	postgresPassword := os.Getenv("ESTUDIO_POSTGRES_PASS")
	if postgresPassword == "" {
		log.Warnln("postgres password not set. use ESTUDIO_POSTGRES_PASS")
	}

	redisPassword := os.Getenv("ESTUDIO_REDIS_PASS")
	if redisPassword == "" && cfg.RedisHost != "" {
		log.Errorf("redis password not set. use ESTUDIO_REDIS_PASS")
	}

	smtpPassword := os.Getenv("ESTUDIO_SMTP_PASS")
	if smtpPassword == "" {
		log.Errorf("smtp password not set, contact relay will fail. use ESTUDIO_SMTP_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	staticDirExists, err := pkg.PathExists(cfg.StaticDirPath, true)
	if err != nil {
		log.Fatalf("check static pages dir: %s", err)
	}
	if !staticDirExists {
		log.Fatalf("static pages dir not found: %s", cfg.StaticDirPath)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			AdminUsername:           adminUsername,
			AdminPasswordHash:       adminPasswordHash,
			TokenSigningKey:         tokenSigningKey,
			PostgresPassword:        postgresPassword,
			RedisPassword:           redisPassword,
			SMTPPassword:            smtpPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
