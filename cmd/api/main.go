package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"communityshop/internal/config"
	"communityshop/internal/db"
	"communityshop/internal/httpserver"
	"communityshop/internal/processor/altpay"
	"communityshop/internal/processor/card"
	campaignrepo "communityshop/internal/repository/campaign"
	cartrepo "communityshop/internal/repository/cart"
	donationrepo "communityshop/internal/repository/donation"
	orderrepo "communityshop/internal/repository/order"
	productrepo "communityshop/internal/repository/product"
	anonymoussvc "communityshop/internal/service/anonymous"
	cartsvc "communityshop/internal/service/cart"
	catalogsvc "communityshop/internal/service/catalog"
	donationsvc "communityshop/internal/service/donation"
	ordersvc "communityshop/internal/service/order"
	paymentsvc "communityshop/internal/service/payment"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	catalogService := catalogsvc.New(productRepo)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo, productRepo)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(orderRepo, productRepo, cartService, logger)
	campaignRepo := campaignrepo.NewPostgres(dbpool)
	donationRepo := donationrepo.NewPostgres(dbpool)
	donationService := donationsvc.New(donationRepo, campaignRepo)
	anonymousService := anonymoussvc.New()

	cardClient := card.NewClient(cfg.CardProcessorURL, cfg.CardProcessorKey, cfg.ProcessorTimeout)
	altpayClient := altpay.NewClient(cfg.AltpayProcessorURL, cfg.AltpayProcessorKey, cfg.ProcessorTimeout)
	paymentService := paymentsvc.New(cardClient, altpayClient, orderService, productRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:   catalogService,
		CartSvc:      cartService,
		OrderSvc:     orderService,
		PaymentSvc:   paymentService,
		DonationSvc:  donationService,
		AnonymousSvc: anonymousService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
