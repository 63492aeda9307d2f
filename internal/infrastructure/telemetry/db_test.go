package telemetry

import (
	"context"
	"testing"

	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return db
}

func TestInstrumentDB(t *testing.T) {
	t.Run("records a span per statement", func(t *testing.T) {
		db := openSQLite(t)
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

		err := InstrumentDB(db, config.TelemetryConfig{DBTraceEnabled: true}, zap.NewNop(),
			otelgorm.WithTracerProvider(tp))
		require.NoError(t, err)

		var n int
		require.NoError(t, db.WithContext(context.Background()).Raw("SELECT 1").Scan(&n).Error)

		assert.NotEmpty(t, recorder.Ended())
	})

	t.Run("disabled is a no-op", func(t *testing.T) {
		db := openSQLite(t)
		require.NoError(t, InstrumentDB(db, config.TelemetryConfig{}, zap.NewNop()))
	})
}

func TestRegisterPoolMetrics(t *testing.T) {
	db := openSQLite(t)
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	require.NoError(t, RegisterPoolMetrics(db, meter))

	got := collect(t, reader)
	assert.Contains(t, got, "db.pool.open_connections")
	assert.Contains(t, got, "db.pool.in_use")
}
