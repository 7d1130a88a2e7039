package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sabores-app/internal/auth"
	"sabores-app/internal/cart"
	"sabores-app/internal/config"
	"sabores-app/internal/httpapi"
	"sabores-app/internal/logger"
	"sabores-app/internal/notify"
	"sabores-app/internal/order"
	"sabores-app/internal/realtime"
	"sabores-app/internal/tracker"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	// An absent or invalid session token is not fatal: the tracker just has
	// nothing to track until a session exists.
	customerID := ""
	if claims, err := auth.ParseSessionToken(cfg.SessionToken); err != nil {
		log.Warn("no authenticated session", zap.Error(err))
	} else {
		customerID = claims.CustomerID
		log.Info("session resolved", zap.String("customer_id", customerID))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	channel, err := realtime.Dial(dialCtx, cfg.ChannelURL, cfg.SessionToken)
	cancel()
	if err != nil {
		log.Fatal("realtime channel dial failed", zap.Error(err))
	}
	defer channel.Close()

	apiClient := order.NewClient(cfg.APIBaseURL, cfg.SessionToken)
	notifier := notify.NewLogNotifier(log.Named("notify"))

	trk := tracker.New(
		apiClient,
		channel,
		notifier,
		tracker.WithPageSize(cfg.PageSize),
		tracker.WithTickInterval(cfg.TickInterval),
		tracker.WithRefetchDelay(cfg.RefetchDelay),
	)

	if err := trk.SetCustomer(ctx, customerID); err != nil {
		// Fail-closed already emptied the set; keep running so a later
		// refresh can recover.
		log.Warn("initial order fetch failed", zap.Error(err))
	}

	go trk.Run(ctx)

	store := cart.NewStore()

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: httpapi.NewRouter(trk, store),
	}

	go func() {
		log.Info("read api listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("read api server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("read api shutdown failed", zap.Error(err))
	}

	trk.Close()
}
