package impl

import (
	"os"
	"testing"

	"streamhaven/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}
