package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cashier-backend/internal/calc"
	"cashier-backend/internal/config"
	"cashier-backend/internal/database"
	"cashier-backend/internal/daygate"
	"cashier-backend/internal/events"
	"cashier-backend/internal/inventory"
	"cashier-backend/internal/logger"
	"cashier-backend/internal/metrics"
	"cashier-backend/internal/models"
	"cashier-backend/internal/order"
	"cashier-backend/internal/server"
	"cashier-backend/internal/shift"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	lg := logger.New("cashier-backend")

	// run döndüğünde publisher bağlantıları ve sinyal dinleyicisi kapanmış olur
	if err := run(cfg, lg); err != nil {
		lg.Error("server_stop", "Sunucu hatayla durdu", err, nil)
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *logger.Logger) error {
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("veritabanı açılamadı: %w", err)
	}
	log.Println("✅ Database connected & migrated")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gate := daygate.New(db)
	ledger := inventory.NewLedger(db, gate)
	docs := inventory.NewDocuments(db, ledger, gate)
	docs.OnPosted = func(mv models.StockMovement) { m.MovementRecorded(string(mv.Reason)) }

	orders := order.NewService(db, ledger, gate, order.Options{
		Pricing: calc.Pricing{
			TaxRate:     cfg.TaxRate,
			ServiceRate: cfg.ServiceRate,
			DeliveryFee: cfg.DeliveryFee,
		},
		MaxNumberAttempts: cfg.OrderNumberMaxAttempts,
		Metrics:           m,
		Logger:            lg,
	})

	var pub events.Publisher = events.LogPublisher{Log: lg}
	switch {
	case cfg.KafkaBrokers != "":
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		pub = kp
	case cfg.RabbitMQURL != "":
		rp, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			return fmt.Errorf("RabbitMQ bağlantısı kurulamadı: %w", err)
		}
		defer rp.Close()
		pub = rp
	}
	relay := events.NewRelay(db, pub, lg, cfg.OutboxBatchSize, cfg.OutboxPollInterval)

	app := server.New(server.Deps{
		DB:          db,
		Gate:        gate,
		Ledger:      ledger,
		Documents:   docs,
		Shifts:      shift.NewService(db),
		Orders:      orders,
		Metrics:     m,
		Gatherer:    reg,
		Logger:      lg,
		CORSOrigins: cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(gctx)
	})
	g.Go(func() error {
		return app.Listen(":" + cfg.HTTPPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.Shutdown()
	})

	lg.Info("server_start", "Sunucu başlatıldı", map[string]any{"port": cfg.HTTPPort})
	return g.Wait()
}
