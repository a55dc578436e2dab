package observability

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitOTel_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	shutdown := InitOTel(context.Background(), logger, OtelConfig{Enabled: false})
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.op", attribute.String("user_id", "u1"))
	defer span.End()
	assert.NotNil(t, ctx)
}
