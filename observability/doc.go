// Package observability provides OpenTelemetry tracing and metrics for savvy
// components.
//
// The REST client and the command runner emit spans through the global tracer
// provider and record instruments from the global meter provider, so both are
// no-ops until a host installs real providers:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &meterCfg)
//	defer mp.Shutdown(ctx)
//
// Instruments: savvy.http.requests, savvy.http.duration,
// savvy.process.execs and savvy.process.duration.
package observability
