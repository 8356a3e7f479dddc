package repokit

import (
	"context"
	"fmt"
	"time"
)

// DefaultGuardTimeout bounds a startup guard when ctx has no deadline
const DefaultGuardTimeout = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// MustGuard pings every configured backend and panics on any failure
// meant for service startup only
func MustGuard(ctx context.Context, st guarder) {
	if st == nil {
		panic("repokit: nil store")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultGuardTimeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
