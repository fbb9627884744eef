package catalog

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/kspforge/shipwright/internal/catalog"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
