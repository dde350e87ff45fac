package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"carsync-engine/internal/store"
	"carsync-engine/internal/syncer"
)

type SettingsHandler struct {
	DB *store.DB
}

// SyncSettings is the editable slice of the settings table. Run bookkeeping
// keys (last_sync_*) are engine-owned and not writable here.
type SyncSettings struct {
	FeedURL         string `json:"feedUrl"`
	IntervalMinutes int    `json:"intervalMinutes"`
	AuthUsername    string `json:"authUsername"`
}

func (h SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var s SyncSettings
	var err error

	if s.FeedURL, err = h.DB.GetSetting(ctx, syncer.SettingFeedURL); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_read_failed", err.Error())
		return
	}
	if s.IntervalMinutes, err = h.DB.GetSettingInt(ctx, syncer.SettingIntervalMin, syncer.DefaultIntervalMinutes); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_read_failed", err.Error())
		return
	}
	if s.AuthUsername, err = h.DB.GetSetting(ctx, syncer.SettingFeedAuthUser); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_read_failed", err.Error())
		return
	}
	writeJSON(w, s)
}

func (h SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var incoming SyncSettings
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	incoming.FeedURL = strings.TrimSpace(incoming.FeedURL)
	if incoming.FeedURL != "" && !strings.HasPrefix(incoming.FeedURL, "http") {
		WriteError(w, r, http.StatusBadRequest, "invalid_feed_url", "feed url must be absolute http(s)")
		return
	}
	if incoming.IntervalMinutes <= 0 {
		incoming.IntervalMinutes = syncer.DefaultIntervalMinutes
	}

	ctx := r.Context()
	if err := h.DB.SetSetting(ctx, syncer.SettingFeedURL, incoming.FeedURL); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_write_failed", err.Error())
		return
	}
	if err := h.DB.SetSetting(ctx, syncer.SettingIntervalMin, strconv.Itoa(incoming.IntervalMinutes)); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_write_failed", err.Error())
		return
	}
	if err := h.DB.SetSetting(ctx, syncer.SettingFeedAuthUser, strings.TrimSpace(incoming.AuthUsername)); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_write_failed", err.Error())
		return
	}
	writeJSON(w, incoming)
}
