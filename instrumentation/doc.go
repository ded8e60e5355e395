// Package instrumentation provides OpenTelemetry metrics and tracing for
// the SSO bridge.
//
// When disabled, no-op providers are used and recording has effectively
// zero overhead, so call sites never need nil checks or feature flags.
//
// Metric instruments cover the login endpoint (request counts and
// durations by outcome), the flow itself (authorize redirects, code
// exchanges, refreshes, admissions, denials, logouts) and the identity
// provider's API (call counts, durations, errors).
//
// Example:
//
//	inst, err := instrumentation.New(instrumentation.Config{
//	    ServiceName:    "my-site-sso",
//	    ServiceVersion: "1.0.0",
//	    Enabled:        true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Shutdown(context.Background())
//
//	inst.Metrics().RecordLoginRequest(ctx, "redirect", 12.5)
//
// Credential values never go into spans or metrics; only grant types,
// outcomes and hashed identifiers are recorded.
package instrumentation
