package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing {
		t.Errorf("Ping: got %v, want %v", Ping(), DefaultPing)
	}
	if Lookup() != DefaultLookup {
		t.Errorf("Lookup: got %v, want %v", Lookup(), DefaultLookup)
	}
	if Sweep() != DefaultSweep {
		t.Errorf("Sweep: got %v, want %v", Sweep(), DefaultSweep)
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Lookup: 3 * time.Second})
	got := Current()
	if got.Lookup != 3*time.Second {
		t.Errorf("Lookup: got %v, want 3s", got.Lookup)
	}
	if got.Ping != DefaultPing || got.Sweep != DefaultSweep {
		t.Errorf("zero values should keep defaults, got %+v", got)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("err: got %v, want DeadlineExceeded", ctx.Err())
	}
}
