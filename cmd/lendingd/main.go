// Command lendingd runs the lending engine HTTP service together with the
// scheduled overdue sweep.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/libreshelf/lending-engine/features/command/confirmfinepayment"
	"github.com/libreshelf/lending-engine/features/command/createmanualfine"
	"github.com/libreshelf/lending-engine/features/command/issueloan"
	"github.com/libreshelf/lending-engine/features/command/rejectloan"
	"github.com/libreshelf/lending-engine/features/command/returnloan"
	"github.com/libreshelf/lending-engine/features/command/runoverduesweep"
	"github.com/libreshelf/lending-engine/features/command/submitborrowrequest"
	"github.com/libreshelf/lending-engine/features/query/listfines"
	"github.com/libreshelf/lending-engine/features/query/listloans"
	"github.com/libreshelf/lending-engine/httpapi"
	"github.com/libreshelf/lending-engine/lending/postgresengine"
	"github.com/libreshelf/lending-engine/shell/config"
	"github.com/libreshelf/lending-engine/sweeper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := buildStore(ctx, logger)
	if err != nil {
		log.Fatalf("failed to create lending store: %v", err)
	}

	sweepHandler := runoverduesweep.NewCommandHandler(store, runoverduesweep.WithLogger(logger))

	router := httpapi.NewRouter(httpapi.Handlers{
		SubmitBorrowRequest: submitborrowrequest.NewCommandHandler(store),
		IssueLoan:           issueloan.NewCommandHandler(store),
		RejectLoan:          rejectloan.NewCommandHandler(store),
		ReturnLoan:          returnloan.NewCommandHandler(store),
		ConfirmFinePayment:  confirmfinepayment.NewCommandHandler(store),
		CreateManualFine:    createmanualfine.NewCommandHandler(store),
		RunOverdueSweep:     sweepHandler,
		ListLoans:           listloans.NewQueryHandler(store),
		ListFines:           listfines.NewQueryHandler(store),
	})

	sweep := sweeper.New(sweepHandler, config.SweepSchedule(), sweeper.WithLogger(logger))
	if err = sweep.Start(); err != nil {
		log.Fatalf("failed to start overdue sweeper: %v", err)
	}

	server := &http.Server{
		Addr:              config.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("lending engine listening", "addr", server.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-errChan:
		logger.Error("http server failed", "error", err.Error())
	}

	sweep.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
	}
}

// buildStore creates the LendingStore on the adapter selected via the
// DB_ADAPTER environment variable (pgx, sql or sqlx; default pgx).
func buildStore(ctx context.Context, logger *slog.Logger) (*postgresengine.LendingStore, error) {
	adapterType := strings.ToLower(os.Getenv("DB_ADAPTER"))
	if adapterType == "" {
		adapterType = "pgx"
	}

	options := []postgresengine.Option{postgresengine.WithLogger(logger)}

	switch adapterType {
	case "pgx":
		pool, err := config.PostgresPGXPool(ctx)
		if err != nil {
			return nil, err
		}

		return postgresengine.NewLendingStoreFromPGXPool(pool, options...)

	case "sql", "sql.db":
		db, err := config.PostgresSQLDB(ctx)
		if err != nil {
			return nil, err
		}

		return postgresengine.NewLendingStoreFromSQLDB(db, options...)

	case "sqlx":
		db, err := config.PostgresSQLX(ctx)
		if err != nil {
			return nil, err
		}

		return postgresengine.NewLendingStoreFromSQLX(db, options...)

	default:
		return nil, errors.New("unknown database adapter: " + adapterType + " (supported: pgx, sql, sqlx)")
	}
}
