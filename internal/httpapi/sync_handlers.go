package httpapi

import (
	"context"
	"net/http"

	"carsync-engine/internal/domain"
)

type SyncHandler struct {
	Trigger func(ctx context.Context) domain.SyncRunResult
	Status  func(ctx context.Context) (domain.SyncStatus, error)
}

// Run forces a run synchronously: the response carries the finished
// SyncRunResult, or the immediate already-in-progress result when the
// single-flight lock is held.
func (h SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	res := h.Trigger(r.Context())
	writeJSON(w, res)
}

func (h SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Status(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "status_failed", err.Error())
		return
	}
	writeJSON(w, st)
}
