package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	eventsadp "microloan-ledger/internal/adapter/events"
	httpadp "microloan-ledger/internal/adapter/http"
	ledgermw "microloan-ledger/internal/adapter/middleware"
	"microloan-ledger/internal/adapter/repository/mysql"
	"microloan-ledger/internal/config"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/infrastructure/cache"
	"microloan-ledger/internal/infrastructure/db"
	adminuc "microloan-ledger/internal/usecase/admin"
	queryuc "microloan-ledger/internal/usecase/query"
	registrationuc "microloan-ledger/internal/usecase/registration"
	repaymentuc "microloan-ledger/internal/usecase/repayment"
	"microloan-ledger/pkg/clock"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	ledgerRepo := mysql.NewLedgerRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)
	installmentRepo := mysql.NewInstallmentRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// bootstrap the singleton state row if this is a fresh database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ledgerRepo.Ensure(ctx, &ledger.State{
		Admin:      cfg.AdminID,
		Originator: cfg.OriginatorID,
	}); err != nil {
		log.Fatal(err)
	}

	clk := clock.NewSystem()
	emitter := eventsadp.NewRedisPublisher(rdb, cfg.EventChannel)

	reg := registrationuc.NewUsecase(uow, clk, emitter)
	rep := repaymentuc.NewUsecase(uow, clk, emitter)
	adm := adminuc.NewUsecase(uow)
	q := queryuc.NewUsecase(ledgerRepo, loanRepo, installmentRepo, paymentRepo, clk)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(reg, q)
	repH := httpadp.NewRepaymentHandler(rep, q)
	admH := httpadp.NewAdminHandler(adm, q)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(ledgermw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)

	// origination surface
	e.POST("/loans", loanH.RegisterLoan)
	e.POST("/loans/:loan_id/installments", loanH.AddInstallment)

	// borrower / lender / public maintenance
	e.POST("/loans/:loan_id/installments/:installment_id/repayments", repH.SubmitRepayment)
	e.POST("/loans/:loan_id/default", repH.MarkDefaulted)
	e.POST("/loans/:loan_id/refresh-status", repH.RefreshStatus)

	// public read surface
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.GET("/loans/:loan_id/installments/:installment_id", loanH.GetInstallment)
	e.GET("/loans/:loan_id/total-repaid", loanH.GetTotalRepaid)
	e.GET("/loans/:loan_id/balance", loanH.GetOutstandingBalance)
	e.GET("/loans/:loan_id/overdue", loanH.IsOverdue)
	e.GET("/loans/:loan_id/payments", loanH.ListPayments)
	e.GET("/payments/:history_id", repH.GetPaymentRecord)
	e.GET("/stats", admH.GetStats)

	// admin surface
	e.POST("/admin/pause", admH.Pause)
	e.POST("/admin/unpause", admH.Unpause)
	e.POST("/admin/transfer", admH.TransferAdmin)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
