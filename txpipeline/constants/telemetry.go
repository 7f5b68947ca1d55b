package constant

// TelemetrySDKName identifies this library in OTEL instrumentation scopes.
const TelemetrySDKName = "lib-txpipeline"

// MaxMetricLabelLength is the maximum length for metric labels.
const MaxMetricLabelLength = 64

// AttrPrefixAssertion prefixes span attributes of failed assertions.
const AttrPrefixAssertion = "assertion."

// Metric and span event names.
const (
	MetricAssertionFailedTotal = "txpipeline_assertion_failed_total"
	EventAssertionFailed       = "assertion.failed"
)

// SanitizeMetricLabel truncates a label value to MaxMetricLabelLength
// to keep metric cardinality bounded.
func SanitizeMetricLabel(value string) string {
	if len(value) > MaxMetricLabelLength {
		return value[:MaxMetricLabelLength]
	}

	return value
}
