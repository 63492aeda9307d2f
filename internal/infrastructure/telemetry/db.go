package telemetry

import (
	"context"
	"fmt"

	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InstrumentDB registers otelgorm so every statement gets a client span.
// Bind variables are left out of spans unless DBLogFullSQL is set.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, log *zap.Logger, opts ...otelgorm.Option) error {
	if !cfg.DBTraceEnabled {
		return nil
	}
	all := []otelgorm.Option{otelgorm.WithDBName("evcare")}
	if !cfg.DBLogFullSQL {
		all = append(all, otelgorm.WithoutQueryVariables())
	}
	all = append(all, opts...)
	if err := db.Use(otelgorm.NewPlugin(all...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	log.Info("database tracing enabled", zap.Bool("full_sql", cfg.DBLogFullSQL))
	return nil
}

// RegisterPoolMetrics reports connection pool usage as observable gauges,
// read from sql.DB stats at each collection.
func RegisterPoolMetrics(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	open, err := meter.Int64ObservableGauge("db.pool.open_connections",
		metric.WithDescription("Open connections, in use and idle"))
	if err != nil {
		return err
	}
	inUse, err := meter.Int64ObservableGauge("db.pool.in_use",
		metric.WithDescription("Connections currently in use"))
	if err != nil {
		return err
	}
	waitCount, err := meter.Int64ObservableCounter("db.pool.wait_count",
		metric.WithDescription("Total connections waited for"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(open, int64(s.OpenConnections))
		o.ObserveInt64(inUse, int64(s.InUse))
		o.ObserveInt64(waitCount, s.WaitCount)
		return nil
	}, open, inUse, waitCount)
	return err
}
