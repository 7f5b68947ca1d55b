package assert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/opentelemetry/metrics"
)

// Logger is the minimal logging interface required by assertions.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// Asserter evaluates invariants and emits telemetry on failure.
type Asserter struct {
	ctx       context.Context
	logger    Logger
	component string
	operation string
}

// ErrAssertionFailed is the sentinel error for failed assertions.
var ErrAssertionFailed = errors.New("assertion failed")

// AssertionError describes a failed assertion.
type AssertionError struct {
	Assertion string
	Message   string
	Component string
	Operation string
	Details   string
}

// Error returns the formatted assertion failure message.
func (e *AssertionError) Error() string {
	if e == nil {
		return ErrAssertionFailed.Error()
	}

	if e.Details == "" {
		return "assertion failed: " + e.Message
	}

	return "assertion failed: " + e.Message + "\n" + e.Details
}

// Unwrap returns the sentinel assertion error for errors.Is.
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// New creates an Asserter labelled with component and operation.
//
//nolint:contextcheck
func New(ctx context.Context, logger Logger, component, operation string) *Asserter {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Asserter{ctx: ctx, logger: logger, component: component, operation: operation}
}

// That returns an error if ok is false.
func (a *Asserter) That(ctx context.Context, ok bool, msg string, kv ...any) error {
	if ok {
		return nil
	}

	return a.fail(ctx, "That", msg, kv...)
}

// NotNil returns an error if v is nil, including typed nils held in an interface.
//
//	if err := asserter.NotNil(ctx, composer, "composer is required"); err != nil {
//		return nil, err
//	}
func (a *Asserter) NotNil(ctx context.Context, v any, msg string, kv ...any) error {
	if !isNil(v) {
		return nil
	}

	return a.fail(ctx, "NotNil", msg, kv...)
}

// NotEmpty returns an error if s is empty after trimming spaces.
func (a *Asserter) NotEmpty(ctx context.Context, s, msg string, kv ...any) error {
	if strings.TrimSpace(s) != "" {
		return nil
	}

	return a.fail(ctx, "NotEmpty", msg, kv...)
}

// Never always returns an error. Use for unreachable branches.
func (a *Asserter) Never(ctx context.Context, msg string, kv ...any) error {
	return a.fail(ctx, "Never", msg, kv...)
}

const maxValueLength = 200

func truncateValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) <= maxValueLength {
		return s
	}

	return s[:maxValueLength] + "... (truncated " + strconv.Itoa(len(s)-maxValueLength) + " chars)"
}

func (a *Asserter) fail(ctx context.Context, assertion, msg string, kv ...any) error {
	ctx, logger, component, operation := a.values(ctx)

	pairs := make([]any, 0, len(kv)+6)
	pairs = append(pairs, "assertion", assertion)

	if component != "" {
		pairs = append(pairs, "component", component)
	}

	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}

	pairs = append(pairs, kv...)
	details := formatKeyValueLines(pairs)

	logAssertion(ctx, logger, "ASSERTION FAILED: "+msg+"\n"+details)
	recordAssertionMetric(ctx, component, operation, assertion)
	recordAssertionToSpan(ctx, assertion, msg, component, operation)

	return &AssertionError{
		Assertion: assertion,
		Message:   msg,
		Component: component,
		Operation: operation,
		Details:   details,
	}
}

func (a *Asserter) values(ctx context.Context) (context.Context, Logger, string, string) {
	if a == nil {
		if ctx == nil {
			ctx = context.Background()
		}

		return ctx, nil, "", ""
	}

	if ctx == nil {
		ctx = a.ctx
	}

	return ctx, a.logger, a.component, a.operation
}

func formatKeyValueLines(kv []any) string {
	var sb strings.Builder

	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString("\n")
		}

		var value any = "MISSING_VALUE"
		if i+1 < len(kv) {
			value = kv[i+1]
		}

		fmt.Fprintf(&sb, "    %v=%v", kv[i], truncateValue(value))
	}

	return sb.String()
}

func logAssertion(ctx context.Context, logger Logger, message string) {
	if logger != nil {
		logger.Log(ctx, log.LevelError, message)
		return
	}

	fmt.Fprintln(os.Stderr, message)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

var assertionFailedMetric = metrics.Metric{
	Name:        constant.MetricAssertionFailedTotal,
	Unit:        "1",
	Description: "Total number of failed assertions",
}

var (
	assertionFactory   *metrics.MetricsFactory
	assertionFactoryMu sync.RWMutex
)

// InitAssertionMetrics sets the factory used to count failed assertions.
// The first non-nil factory wins.
func InitAssertionMetrics(factory *metrics.MetricsFactory) {
	assertionFactoryMu.Lock()
	defer assertionFactoryMu.Unlock()

	if factory == nil || assertionFactory != nil {
		return
	}

	assertionFactory = factory
}

// ResetAssertionMetrics clears the assertion metrics factory.
func ResetAssertionMetrics() {
	assertionFactoryMu.Lock()
	defer assertionFactoryMu.Unlock()

	assertionFactory = nil
}

func recordAssertionMetric(ctx context.Context, component, operation, assertion string) {
	assertionFactoryMu.RLock()
	factory := assertionFactory
	assertionFactoryMu.RUnlock()

	if factory == nil {
		return
	}

	counter, err := factory.Counter(assertionFailedMetric)
	if err != nil {
		return
	}

	_ = counter.WithAttributes(
		attribute.String("component", constant.SanitizeMetricLabel(component)),
		attribute.String("operation", constant.SanitizeMetricLabel(operation)),
		attribute.String("assertion", constant.SanitizeMetricLabel(assertion)),
	).AddOne(ctx)
}

func recordAssertionToSpan(ctx context.Context, assertion, message, component, operation string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixAssertion+"name", assertion),
		attribute.String(constant.AttrPrefixAssertion+"message", message),
	}

	if component != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixAssertion+"component", component))
	}

	if operation != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixAssertion+"operation", operation))
	}

	span.AddEvent(constant.EventAssertionFailed, trace.WithAttributes(attrs...))
	span.RecordError(fmt.Errorf("%w: %s", ErrAssertionFailed, message))
	span.SetStatus(codes.Error, "assertion failed in "+component+"/"+operation)
}
