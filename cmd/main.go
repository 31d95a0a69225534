package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/handler"
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	"github.com/dsparrowm/blockfundz-sub001/internal/service"
	"github.com/dsparrowm/blockfundz-sub001/pkg/database"
	"github.com/dsparrowm/blockfundz-sub001/pkg/integrations/memcache"
	"github.com/dsparrowm/blockfundz-sub001/pkg/integrations/prices/coingeckoprices"
	"github.com/dsparrowm/blockfundz-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title BlockFundz Ledger API
// @version 1.0
// @description Balance ledger and interest accrual API

// @host localhost:8080
// @BasePath /

func main() {
	utils.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := utils.GetEnv("DB_PATH", "./data/blockfundz.db")
	db, err := database.New(database.WithPath(dbPath))
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	repository, err := repo.New(db.Get())
	if err != nil {
		log.Fatal("Failed to create repository:", err)
	}

	if err := repository.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	quoteCache := memcache.NewWithTTL[string, float64](utils.GetEnvDuration("PRICE_CACHE_TTL", 5*time.Minute))
	spotFetcher := coingeckoprices.NewSpotFetcher()

	oracle, err := service.NewPriceOracle(
		service.WithOracleLogger(logger),
		service.WithOracleCache(quoteCache),
		service.WithOracleStore(repository),
		service.WithOracleSource(spotFetcher),
	)
	if err != nil {
		log.Fatal("Failed to create price oracle:", err)
	}

	audit, err := service.NewAuditTrail(
		service.WithAuditLogger(logger),
		service.WithAuditOracle(oracle),
	)
	if err != nil {
		log.Fatal("Failed to create audit trail:", err)
	}

	ledger, err := service.NewLedger(
		service.WithLedgerDB(db.Get()),
		service.WithLedgerRepository(repository),
		service.WithLedgerLogger(logger),
		service.WithLedgerOracle(oracle),
		service.WithLedgerAudit(audit),
	)
	if err != nil {
		log.Fatal("Failed to create ledger:", err)
	}

	interestSvc, err := service.NewInterestService(
		service.WithInterestContext(ctx),
		service.WithInterestDB(db.Get()),
		service.WithInterestRepository(repository),
		service.WithInterestLogger(logger),
		service.WithInterestAudit(audit),
		service.WithInterestRunHourUTC(utils.GetEnvInt("INTEREST_RUN_HOUR_UTC", 0)),
	)
	if err != nil {
		log.Fatal("Failed to create interest service:", err)
	}

	settlement, err := service.NewSettlementService(
		service.WithSettlementDB(db.Get()),
		service.WithSettlementRepository(repository),
		service.WithSettlementLogger(logger),
		service.WithSettlementLedger(ledger),
	)
	if err != nil {
		log.Fatal("Failed to create settlement service:", err)
	}

	if err := interestSvc.Start(); err != nil {
		log.Fatal("Failed to start interest scheduler:", err)
	}

	r := gin.Default()

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithRepository(repository),
		handler.WithLedger(ledger),
		handler.WithSettlement(settlement),
		handler.WithInterest(interestSvc),
		handler.WithOracle(oracle),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
		interestSvc.Stop()
		os.Exit(0)
	}()

	logger.Info("starting blockfundz ledger", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
