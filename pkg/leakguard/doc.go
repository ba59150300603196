// Package leakguard puts a marker span at the entry of a traced operation and
// reports spans that leaked into it.
//
// At entry the guard inspects the span current in the request context. A
// valid span there means an earlier operation never closed its span: the
// guard counts and logs the leak and, by default, ends the stale span so it
// reaches the exporter where a test can inspect it. The marker span is then
// started as a child of whatever was current, so a leak also shows up as a
// marker that is not a root span.
//
// Typical use in a test harness:
//
//	guard := leakguard.New(provider)
//	err := guard.Run(ctx, testMode, func(ctx context.Context) error {
//		return handler(ctx)
//	})
//
// The guard never fails the operation it wraps. Whether a leak fails a test
// is decided by the harness through Leaks or by asserting on exported spans.
package leakguard
