// Package telemetry sets up optional OpenTelemetry export for a moodlens run.
//
// When telemetry.enabled is true, New installs global tracer and meter
// providers that push to an OTLP collector over gRPC or HTTP. The analysis
// pipeline opens one span per stage and the embedding providers record
// generation metrics; both go through the global providers, so nothing else
// needs to hold a Telemetry value.
//
// Telemetry is disabled by default. Exporter failures never fail a run: the
// instance is marked degraded and the run continues with no-op providers.
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry, version, logger)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
package telemetry
