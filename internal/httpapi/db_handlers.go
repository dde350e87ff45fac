package httpapi

import (
	"net"
	"net/http"

	"carsync-engine/internal/store"
)

type DBHandler struct {
	DB *store.DB
}

// Checkpoint forces a WAL checkpoint so file-level backups see a complete
// database. Local callers only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if _, err := h.DB.Pool.Exec(`PRAGMA wal_checkpoint(FULL);`); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
