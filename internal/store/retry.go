package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spookystock/spookystock/internal/model"
)

// retryBackoff is the pause before the single internal retry of a
// transient storage failure.
const retryBackoff = 50 * time.Millisecond

// withRetry runs fn and classifies its failure. Catalog errors (validation,
// not-found, cycle, conflict) are deterministic and returned unchanged.
// Transient SQLite failures are retried once after a short backoff; whatever
// remains is surfaced as a storage error carrying the cause.
func withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	var ce *model.Error
	if errors.As(err, &ce) {
		return err
	}
	if !transient(err) {
		return model.NewStorage(err)
	}

	select {
	case <-ctx.Done():
		return model.NewStorage(err)
	case <-time.After(retryBackoff):
	}

	err = fn()
	if err == nil {
		return nil
	}
	if errors.As(err, &ce) {
		return err
	}
	return model.NewStorage(err)
}

// transient reports whether err looks like a lock contention failure that a
// retry could clear. Everything else fails immediately.
func transient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
