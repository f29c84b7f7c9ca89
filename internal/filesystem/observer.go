package filesystem

import "sync/atomic"

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem operation.
	// volume is "source" or "cache"; operation is "stat", "open", "readdir" or "remove".
	ObserveOperation(volume, operation string, durationSeconds float64, err error)

	ObserveRetryAttempt(retryOp, volume string)
	ObserveRetrySuccess(retryOp, volume string)
	ObserveRetryFailure(retryOp, volume string)
	ObserveStaleError(retryOp, volume string)
}

type observerHolder struct{ o Observer }

// defaultObserver is nil until SetObserver is called; recording is then skipped.
var defaultObserver atomic.Pointer[observerHolder]

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver.Store(&observerHolder{o: o})
}

// observe is a nil-safe accessor for the package-level observer.
func observe() Observer {
	h := defaultObserver.Load()
	if h == nil {
		return nil
	}
	return h.o
}
