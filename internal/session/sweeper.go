package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const sweepQueueSize = 64

// EndFunc runs mood inference for an ended session and persists the result.
type EndFunc func(ctx context.Context, sess domain.Session) error

// StartSweeper runs the inactivity sweep in the background. A ticker
// goroutine marks idle sessions as ending and enqueues them; a single
// consumer applies mood inference serially so the table is never mutated from
// two sweep paths at once. The consumer holds no table lock across the
// outbound calls, and every call carries a timeout so one slow upstream
// cannot block subsequent sweeps.
func StartSweeper(ctx context.Context, mgr *Manager, interval, threshold, callTimeout time.Duration, end EndFunc) {
	queue := make(chan domain.Session, sweepQueueSize)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		slog.Info("session sweeper started", "interval", interval, "idle_threshold", threshold)

		for {
			select {
			case <-ticker.C:
				for _, sess := range mgr.SweepExpired(threshold) {
					slog.Info("session expired due to inactivity",
						"session_id", sess.SessionID,
						"user_id", sess.UserID,
						"idle", sess.IdleFor(time.Now()).Round(time.Second))
					select {
					case queue <- sess:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				slog.Info("session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case sess := <-queue:
				endSession(ctx, mgr, sess, callTimeout, end)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func endSession(ctx context.Context, mgr *Manager, sess domain.Session, callTimeout time.Duration, end EndFunc) {
	// The sweep routes the session into inference with a synthetic end
	// signal, matching the explicit-end path.
	sess.Append(domain.RoleUser, "end")

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := end(callCtx, sess); err != nil {
		// No retry: the failure is fatal for this sweep iteration and the
		// session is not reprocessed.
		slog.Error("mood inference failed for expired session",
			"session_id", sess.SessionID,
			"user_id", sess.UserID,
			"error", err)
	}

	mgr.Retire(sess.SessionID)
}
