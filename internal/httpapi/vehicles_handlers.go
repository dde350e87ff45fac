package httpapi

import (
	"net/http"
	"strconv"

	"carsync-engine/internal/store"
)

type VehiclesHandler struct {
	DB *store.DB
}

func (h VehiclesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListVehiclesOpts{
		Sort:   q.Get("sort"),
		Status: q.Get("status"),
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = n
	}

	vehicles, err := h.DB.ListVehicles(r.Context(), opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if vehicles == nil {
		vehicles = []store.Vehicle{}
	}
	writeJSON(w, vehicles)
}
