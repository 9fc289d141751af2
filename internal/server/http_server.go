// internal/server/http_server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"morpho-service/internal/domain"
	"morpho-service/internal/metrics"
	"morpho-service/internal/morpho"
	"morpho-service/internal/repository"
	"morpho-service/internal/vaults"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// VaultLister is the vault list query surface
type VaultLister interface {
	FetchVaults(ctx context.Context, first, skip int) ([]domain.VaultRecord, error)
}

// Depositor is the deposit operation surface
type Depositor interface {
	Deposit(ctx context.Context, req domain.DepositRequest, sender morpho.TxSender) (*domain.DepositResult, error)
}

// HTTPServer exposes the two client operations over HTTP
type HTTPServer struct {
	vaultClient  VaultLister
	morphoClient Depositor
	sender       morpho.TxSender               // nil when no signing key is configured
	journal      *repository.DepositRepository // nil when the journal is disabled
	metrics      *metrics.Metrics
	registry     *prometheus.Registry
	logger       *zap.Logger
	port         int

	srv *http.Server
}

func NewHTTPServer(
	vaultClient VaultLister,
	morphoClient Depositor,
	sender morpho.TxSender,
	journal *repository.DepositRepository,
	logger *zap.Logger,
	port int,
) *HTTPServer {
	registry := prometheus.NewRegistry()

	return &HTTPServer{
		vaultClient:  vaultClient,
		morphoClient: morphoClient,
		sender:       sender,
		journal:      journal,
		metrics:      metrics.New(registry),
		registry:     registry,
		logger:       logger,
		port:         port,
	}
}

// Router builds the gin engine with all routes registered
func (s *HTTPServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	{
		v1.GET("/vaults", s.handleListVaults)
		v1.POST("/deposits", s.handleDeposit)
		v1.GET("/deposits", s.handleListDeposits)
	}

	return router
}

// Start starts the HTTP server and blocks until it stops
func (s *HTTPServer) Start() error {
	router := s.Router()

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: router,
	}

	s.logger.Info("Starting HTTP server", zap.Int("port", s.port))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server")
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) handleListVaults(c *gin.Context) {
	first, err := intQuery(c, "first", vaults.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid first parameter"})
		return
	}
	skip, err := intQuery(c, "skip", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip parameter"})
		return
	}

	items, err := s.vaultClient.FetchVaults(c.Request.Context(), first, skip)
	if err != nil {
		s.metrics.VaultFetches.WithLabelValues("error").Inc()
		s.logger.Error("Vault fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.metrics.VaultFetches.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(items),
		"vaults": items,
	})
}

type marketParamsPayload struct {
	LoanToken       string `json:"loanToken" binding:"required"`
	CollateralToken string `json:"collateralToken" binding:"required"`
	Oracle          string `json:"oracle" binding:"required"`
	Irm             string `json:"irm" binding:"required"`
	Lltv            string `json:"lltv" binding:"required"` // wad-scaled decimal string
	Id              string `json:"id" binding:"required"`
}

type depositPayload struct {
	MarketParams marketParamsPayload `json:"marketParams" binding:"required"`
	Amount       string              `json:"amount" binding:"required"` // smallest token unit
	OnBehalf     string              `json:"onBehalf"`
}

func (s *HTTPServer) handleDeposit(c *gin.Context) {
	if s.sender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no signing key configured"})
		return
	}

	var payload depositPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lltv, ok := new(big.Int).SetString(payload.MarketParams.Lltv, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lltv"})
		return
	}
	amount, ok := new(big.Int).SetString(payload.Amount, 10)
	if !ok || amount.Sign() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	req := domain.DepositRequest{
		MarketParams: domain.MarketParams{
			LoanToken:       payload.MarketParams.LoanToken,
			CollateralToken: payload.MarketParams.CollateralToken,
			Oracle:          payload.MarketParams.Oracle,
			Irm:             payload.MarketParams.Irm,
			Lltv:            lltv,
			Id:              payload.MarketParams.Id,
		},
		DepositAmount: amount,
		OnBehalf:      payload.OnBehalf,
	}

	record := s.journalSubmission(c.Request.Context(), req)

	result, err := s.morphoClient.Deposit(c.Request.Context(), req, s.sender)
	if err != nil {
		s.metrics.DepositsSubmitted.WithLabelValues("error").Inc()
		s.journalFailure(c.Request.Context(), record)
		s.logger.Error("Deposit failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.metrics.DepositsSubmitted.WithLabelValues("ok").Inc()
	s.journalConfirmation(c.Request.Context(), record, result)

	resp := gin.H{
		"assets":      result.Assets.String(),
		"shares":      result.Shares.String(),
		"txHash":      result.TxHash,
		"blockNumber": result.BlockNumber,
	}
	if record != nil {
		resp["depositId"] = record.DepositID
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) handleListDeposits(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "deposit journal disabled"})
		return
	}

	limit, err := intQuery(c, "limit", 50)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset parameter"})
		return
	}

	records, err := s.journal.ListRecent(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error("Failed to list deposit records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": records})
}

// journalSubmission writes the pre-submission journal entry. Journal failures
// are logged but never block the deposit itself.
func (s *HTTPServer) journalSubmission(ctx context.Context, req domain.DepositRequest) *domain.DepositRecord {
	if s.journal == nil {
		return nil
	}

	record := &domain.DepositRecord{
		MarketID:    req.MarketParams.Id,
		LoanToken:   req.MarketParams.LoanToken,
		OnBehalf:    req.OnBehalf,
		Assets:      req.DepositAmount,
		Shares:      big.NewInt(0),
		Status:      domain.DepositStatusSubmitted,
		SubmittedAt: time.Now(),
	}

	if err := s.journal.Create(ctx, record); err != nil {
		s.logger.Warn("Failed to journal deposit submission", zap.Error(err))
		return nil
	}
	return record
}

func (s *HTTPServer) journalConfirmation(ctx context.Context, record *domain.DepositRecord, result *domain.DepositResult) {
	if s.journal == nil || record == nil {
		return
	}
	if err := s.journal.MarkConfirmed(ctx, record.DepositID, result.TxHash, result.Shares, result.BlockNumber); err != nil {
		s.logger.Warn("Failed to journal deposit confirmation",
			zap.String("deposit_id", record.DepositID),
			zap.Error(err))
	}
}

func (s *HTTPServer) journalFailure(ctx context.Context, record *domain.DepositRecord) {
	if s.journal == nil || record == nil {
		return
	}
	if err := s.journal.MarkFailed(ctx, record.DepositID); err != nil {
		s.logger.Warn("Failed to journal deposit failure",
			zap.String("deposit_id", record.DepositID),
			zap.Error(err))
	}
}

func intQuery(c *gin.Context, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
