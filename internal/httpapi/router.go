package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	vh := VehiclesHandler{DB: d.DB}
	mux.HandleFunc("/vehicles", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: vh.List,
	}))

	sh := SyncHandler{Trigger: d.TriggerSync, Status: d.SyncStatus}
	mux.HandleFunc("/sync/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))
	mux.HandleFunc("/sync/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.GetStatus,
	}))

	// Runtime sync settings (feed url, interval); stored in sqlite so the
	// scheduler picks changes up on its next tick.
	seh := SettingsHandler{DB: d.DB}
	mux.HandleFunc("/settings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: seh.Get,
		http.MethodPut: seh.Put,
	}))

	// App config (port, fetch tuning)
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	sch := SecretsHandler{DB: d.DB}
	mux.HandleFunc("/api/secrets/feed", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.SetFeedPassword,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	return mux
}
