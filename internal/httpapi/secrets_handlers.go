package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"carsync-engine/internal/secrets"
	"carsync-engine/internal/store"
	"carsync-engine/internal/syncer"
)

type SecretsHandler struct {
	DB *store.DB
}

type setFeedPasswordReq struct {
	Password string `json:"password"`
}

// SetFeedPassword stores the feed basic-auth password in the OS keyring,
// keyed by the username from settings.
func (h SecretsHandler) SetFeedPassword(w http.ResponseWriter, r *http.Request) {
	var req setFeedPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	username, err := h.DB.GetSetting(r.Context(), syncer.SettingFeedAuthUser)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_read_failed", err.Error())
		return
	}
	if strings.TrimSpace(username) == "" {
		WriteError(w, r, http.StatusBadRequest, "no_username", "set feed_auth_username first")
		return
	}

	if err := secrets.SetFeedPassword(username, req.Password); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
