package gormdb

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/kspforge/shipwright/internal/storage/gormdb"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
