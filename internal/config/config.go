package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort       string
	DatabaseDriver string // postgres | sqlite
	DatabaseDSN    string
	CORSOrigins    string
	LogLevel       string // silent | error | warn | info

	// Fiyatlandırma
	TaxRate     decimal.Decimal
	ServiceRate decimal.Decimal
	DeliveryFee decimal.Decimal

	// Aynı vardiyada numara çakışmasında kaç kez yeniden denenecek
	OrderNumberMaxAttempts int

	// Olay yayını (ikisi de boşsa olaylar sadece loglanır, KAFKA_BROKERS önceliklidir)
	RabbitMQURL        string
	EventsExchange     string
	KafkaBrokers       string
	KafkaTopic         string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=cashier port=5432 sslmode=disable"

func Load() *Config {
	cfg, err := Parse(os.Getenv)
	if err != nil {
		log.Fatalf("[FATAL] Konfigürasyon okunamadı: %v", err)
	}

	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.RabbitMQURL == "" && cfg.KafkaBrokers == "" {
		log.Println("[WARN] RABBITMQ_URL veya KAFKA_BROKERS tanımlanmamış, sipariş olayları sadece loglanacak.")
	}

	return cfg
}

// Parse: lookup fonksiyonundan (os.Getenv veya testte map) config üretir
func Parse(lookup func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		HTTPPort:       get("HTTP_PORT", "8080"),
		DatabaseDriver: get("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    get("DATABASE_DSN", defaultDSN),
		CORSOrigins:    get("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:       get("LOG_LEVEL", "warn"),
		RabbitMQURL:    get("RABBITMQ_URL", ""),
		EventsExchange: get("EVENTS_EXCHANGE", "orders_topic"),
		KafkaBrokers:   get("KAFKA_BROKERS", ""),
		KafkaTopic:     get("KAFKA_TOPIC", "order-events"),
	}

	var err error
	if cfg.TaxRate, err = parseRate("TAX_RATE", get("TAX_RATE", "0")); err != nil {
		return nil, err
	}
	if cfg.ServiceRate, err = parseRate("SERVICE_RATE", get("SERVICE_RATE", "0")); err != nil {
		return nil, err
	}
	if cfg.DeliveryFee, err = decimal.NewFromString(get("DELIVERY_FEE", "0")); err != nil || cfg.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("DELIVERY_FEE geçersiz: %q", get("DELIVERY_FEE", "0"))
	}
	if cfg.OrderNumberMaxAttempts, err = parsePositiveInt("ORDER_NUMBER_MAX_ATTEMPTS", get("ORDER_NUMBER_MAX_ATTEMPTS", "10")); err != nil {
		return nil, err
	}
	if cfg.OutboxBatchSize, err = parsePositiveInt("OUTBOX_BATCH_SIZE", get("OUTBOX_BATCH_SIZE", "100")); err != nil {
		return nil, err
	}
	if cfg.OutboxPollInterval, err = time.ParseDuration(get("OUTBOX_POLL_INTERVAL", "2s")); err != nil || cfg.OutboxPollInterval <= 0 {
		return nil, fmt.Errorf("OUTBOX_POLL_INTERVAL geçersiz: %q", get("OUTBOX_POLL_INTERVAL", "2s"))
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER desteklenmiyor: %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// parseRate: 0 ile 1 arasında oran (ör: 0.14)
func parseRate(key, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%s 0 ile 1 arasında olmalı: %q", key, v)
	}
	return d, nil
}

func parsePositiveInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s pozitif tam sayı olmalı: %q", key, v)
	}
	return n, nil
}
