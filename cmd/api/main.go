package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/harborlabs/account-api/internal/config"
	"github.com/harborlabs/account-api/internal/logging"
	"github.com/harborlabs/account-api/internal/repository/postgres"
	"github.com/harborlabs/account-api/internal/service"
	transporthttp "github.com/harborlabs/account-api/internal/transport/http"
	"github.com/harborlabs/account-api/internal/transport/mail"
	"github.com/harborlabs/account-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash mirror disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("applying migrations: %v", err)
	}

	mailer := mail.NewMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUsername,
		cfg.SMTPPassword,
		cfg.SMTPFrom,
		cfg.ResetOTPTTL,
	)

	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	accounts := service.NewAccountService(
		postgres.NewAccountRepo(db),
		mailer,
		tokens,
		service.AccountServiceConfig{
			VerifyOTPTTL: cfg.VerifyOTPTTL,
			ResetOTPTTL:  cfg.ResetOTPTTL,
		},
	)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterAuth(e, accounts, tokens, cfg.IsProduction())
	transporthttp.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
