package aggregates

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const defaultMaxAttempts = 3

var tracer = otel.Tracer("github.com/yungbote/questlearn-backend/internal/data/aggregates")

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	// MaxAttempts bounds retries of transactions that fail with a retryable code.
	MaxAttempts int
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = defaultMaxAttempts
	}
	return d
}

// ExecuteWrite runs fn in a transaction, maps the failure to a domain error code
// and retries serialization or lock failures. fn must be safe to run again.
func ExecuteWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	var mapped error
	attempt := 0
	for attempt < deps.MaxAttempts {
		attempt++
		mapped = MapError(op, deps.Runner.InTx(ctx, fn))
		if mapped == nil || !domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			break
		}
		if ctx.Err() != nil || errors.Is(mapped, context.Canceled) || errors.Is(mapped, context.DeadlineExceeded) {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}

	status := aggregateErrorStatus(mapped)
	span.SetAttributes(attribute.Int("aggregate.attempts", attempt), attribute.String("aggregate.status", status))
	if mapped != nil {
		span.RecordError(mapped)
		span.SetStatus(otelcodes.Error, status)
	}

	if deps.Log != nil {
		kv := []interface{}{"op", op, "status", status, "attempts", attempt, "duration_ms", time.Since(start).Milliseconds()}
		kv = append(kv, ctxutil.GetTraceData(ctx).LogFields()...)
		if mapped != nil && domainagg.IsCode(mapped, domainagg.CodeInternal) {
			deps.Log.Error("aggregate write failed", append(kv, "error", mapped)...)
		} else {
			deps.Log.Debug("aggregate write", kv...)
		}
	}
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
