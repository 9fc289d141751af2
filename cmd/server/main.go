// cmd/server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"morpho-service/internal/chains/ethereum"
	"morpho-service/internal/config"
	"morpho-service/internal/morpho"
	"morpho-service/internal/repository"
	"morpho-service/internal/server"
	"morpho-service/internal/vaults"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	vaultClient := vaults.NewClient(cfg.Morpho.APIURL, logger)

	morphoClient, err := morpho.NewClient(cfg.Morpho.ContractAddress, logger)
	if err != nil {
		logger.Fatal("failed to initialize Morpho client", zap.Error(err))
	}

	// The signing capability is optional: without a key the service still
	// serves vault listings, deposits return 503.
	var sender morpho.TxSender
	if cfg.Ethereum.PrivateKey != "" {
		signer, err := ethereum.NewSigner(
			cfg.Ethereum.RPCURL,
			cfg.Ethereum.PrivateKey,
			cfg.Ethereum.MaxGasPrice,
			logger,
		)
		if err != nil {
			logger.Fatal("failed to initialize signer", zap.Error(err))
		}
		defer signer.Close()
		sender = signer
	} else {
		logger.Warn("No signing key configured, deposit endpoint disabled")
	}

	var journal *repository.DepositRepository
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		journal = repository.NewDepositRepository(pool)
	}

	srv := server.NewHTTPServer(vaultClient, morphoClient, sender, journal, logger, cfg.HTTP.Port)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}
}
