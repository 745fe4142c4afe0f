// Package initializer wires configuration into the full dependency
// graph: database, repositories, rate pipeline, mailer and services.
package initializer

import (
	"fmt"
	"log/slog"

	"github.com/fintrackr/fintrackr/infra"
	"github.com/fintrackr/fintrackr/infra/cache"
	infra_mailer "github.com/fintrackr/fintrackr/infra/mailer"
	"github.com/fintrackr/fintrackr/infra/provider"
	ratesrepo "github.com/fintrackr/fintrackr/infra/repository/rates"
	txrepo "github.com/fintrackr/fintrackr/infra/repository/transaction"
	userrepo "github.com/fintrackr/fintrackr/infra/repository/user"
	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/pkg/mailer"
	authsvc "github.com/fintrackr/fintrackr/pkg/service/auth"
	ratessvc "github.com/fintrackr/fintrackr/pkg/service/rates"
	txsvc "github.com/fintrackr/fintrackr/pkg/service/transaction"
	usersvc "github.com/fintrackr/fintrackr/pkg/service/user"
)

// Deps holds the initialized services the HTTP layer consumes.
type Deps struct {
	Logger  *slog.Logger
	AuthSvc *authsvc.Service
	UserSvc *usersvc.Service
	TxSvc   *txsvc.Service
}

// InitializeDependencies builds the whole dependency graph from
// configuration.
func InitializeDependencies(cfg *config.App) (*Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&userrepo.User{}, &txrepo.Transaction{}, &ratesrepo.RateSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	users := userrepo.New(db)
	txs := txrepo.New(db)
	snapshots := ratesrepo.New(db)

	rateClient := provider.NewOpenExchangeRatesClient(cfg.Exchange, logger)
	if !rateClient.HasCredentials() {
		logger.Warn("No exchange rate API key configured; serving snapshots and fallback rates only")
	}
	rates := ratessvc.New(cache.NewRateCache(), snapshots, rateClient, logger)

	var mail mailer.Mailer
	if cfg.Mail.Host != "" {
		mail = infra_mailer.NewSMTPMailer(cfg.Mail, logger)
	} else {
		logger.Warn("No SMTP host configured; outbound email will be logged only")
		mail = infra_mailer.NewLogMailer(logger)
	}

	migrator := usersvc.NewPreferenceMigrator(txs, rates, cfg.Migration.Workers, logger)

	return &Deps{
		Logger:  logger,
		AuthSvc: authsvc.New(users, mail, cfg.Jwt, cfg.ClientURL, logger),
		UserSvc: usersvc.New(users, mail, migrator, cfg.ClientURL, logger),
		TxSvc:   txsvc.New(txs, users, rates, logger),
	}, nil
}
