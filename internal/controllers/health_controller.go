package controllers

import (
	"net/http"
	"presetd/internal/providers"
	"presetd/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

// HealthController reports liveness together with a few store gauges that
// make a stuck or empty store visible without scraping metrics.
type HealthController struct {
	store     services.PresetStoreInterface
	cache     providers.CacheProviderInterface
	startTime time.Time
}

type healthReport struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Presets       int     `json:"presets"`
	Revision      uint64  `json:"revision"`
	ActivePreset  string  `json:"active_preset"`
	CacheEntries  int64   `json:"cache_entries"`
}

func NewHealthController(store services.PresetStoreInterface, cache providers.CacheProviderInterface) *HealthController {
	return &HealthController{
		store:     store,
		cache:     cache,
		startTime: time.Now(),
	}
}

func (hc *HealthController) report() healthReport {
	uptime := time.Since(hc.startTime)
	return healthReport{
		Status:        "ok",
		Uptime:        formatUptime(uptime),
		UptimeSeconds: uptime.Seconds(),
		Presets:       len(hc.store.Presets()),
		Revision:      hc.store.Revision(),
		ActivePreset:  hc.store.ActivePresetID(),
		CacheEntries:  hc.cache.Entries(),
	}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	gson, err := json.Marshal(hc.report())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(gson)
	}
}

// formatUptime renders d at second precision, e.g. "26h3m7s".
func formatUptime(d time.Duration) string {
	return d.Truncate(time.Second).String()
}
