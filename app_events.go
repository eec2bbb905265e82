package main

import (
	"context"
	"log/slog"
)

// emitShellEvent delivers an event to the webview and mirrors it to any
// attached WebSocket observer. Events fired before the runtime context
// exists are dropped with a warning.
func (a *App) emitShellEvent(name string, payload any) {
	a.emitShellEventWithContext(a.runtimeContext(), name, payload)
}

// emitShellEventWithContext emits only when ctx is non-nil. Prefer this
// helper for best-effort contexts that may not be initialized yet.
func (a *App) emitShellEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Warn("[event] shell event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
	if a.mirror != nil {
		a.mirror.Broadcast(name, payload)
	}
}
