package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORDER_SERVICE_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("AUDIT_WORKERS", "")
	t.Setenv("IDEMPOTENCY_TTL", "")

	cfg := Load()
	if cfg.OrderSvcAddr != ":8082" {
		t.Fatalf("OrderSvcAddr=%q", cfg.OrderSvcAddr)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"localhost:9092"}) {
		t.Fatalf("KafkaBrokers=%v", cfg.KafkaBrokers)
	}
	if cfg.AuditWorkers != 4 {
		t.Fatalf("AuditWorkers=%d", cfg.AuditWorkers)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("IdempotencyTTL=%s", cfg.IdempotencyTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("AUDIT_WORKERS", "9")
	t.Setenv("STATUS_CACHE_TTL", "30s")
	t.Setenv("AUDIT_GROUP", "audit-x")

	cfg := Load()
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("KafkaBrokers=%v", cfg.KafkaBrokers)
	}
	if cfg.AuditWorkers != 9 || cfg.AuditGroup != "audit-x" {
		t.Fatalf("audit cfg: %d %q", cfg.AuditWorkers, cfg.AuditGroup)
	}
	if cfg.StatusCacheTTL != 30*time.Second {
		t.Fatalf("StatusCacheTTL=%s", cfg.StatusCacheTTL)
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("AUDIT_WORKERS", "-2")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	if cfg.AuditWorkers != 4 {
		t.Fatalf("AuditWorkers=%d", cfg.AuditWorkers)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("ShutdownTimeout=%s", cfg.ShutdownTimeout)
	}
}
