package main

import (
	"context"
	"testing"
)

func TestRuntimeContextRoundTrip(t *testing.T) {
	app := NewApp(false)
	if app.runtimeContext() != nil {
		t.Fatal("runtimeContext() before startup = non-nil")
	}
	ctx := context.Background()
	app.setRuntimeContext(ctx)
	if app.runtimeContext() != ctx {
		t.Fatal("runtimeContext() did not return the stored context")
	}
}
