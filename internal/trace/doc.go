// Package trace records what the template pipeline is doing.
//
// Tracing is enabled from the command line:
//
//	melody check --trace=- --trace-level=detail templates/
//
// # Tracers
//
//   - Nop: no-op tracer when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last events in memory for dumps on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and pass events (lex, parse), LevelDetail adds
// one span per template file, LevelDebug emits everything.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
