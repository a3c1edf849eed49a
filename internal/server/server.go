package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/MennatullahTarek/Center-Dashboard/internal/config"
	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/store"
)

// App wires the dashboard API: one master dataset on disk, one cached
// snapshot, synchronous recomputation per request.
type App struct {
	Loader    *store.Loader
	UploadDir string

	mu       sync.RWMutex
	dataPath string
}

func NewApp(cfg config.Config) *App {
	return &App{
		Loader:    store.NewLoader(),
		UploadDir: cfg.UploadDir,
		dataPath:  cfg.DataPath,
	}
}

// SetupRoutes registers all API routes.
func SetupRoutes(router *mux.Router, app *App) {
	router.Use(requestLogging)

	router.HandleFunc("/api/health", app.HealthHandler()).Methods("GET")
	router.HandleFunc("/api/centres", app.CentresHandler()).Methods("GET")
	router.HandleFunc("/api/centres/{centre}/metrics", app.MetricsHandler()).Methods("GET")
	router.HandleFunc("/api/centres/{centre}/aggregates", app.AggregatesHandler()).Methods("GET")
	router.HandleFunc("/api/centres/{centre}/satisfaction", app.SatisfactionHandler()).Methods("GET")
	router.HandleFunc("/api/centres/{centre}/records", app.RecordsHandler()).Methods("GET")
	router.HandleFunc("/api/centres/{centre}/export", app.ExportHandler()).Methods("GET")
	router.HandleFunc("/api/upload", app.UploadHandler()).Methods("POST")
	router.HandleFunc("/api/upload/{token}/confirm", app.ConfirmUploadHandler()).Methods("POST")
	router.HandleFunc("/api/refresh", app.RefreshHandler()).Methods("POST")
}

func (a *App) currentDataPath() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dataPath
}

func (a *App) setDataPath(p string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dataPath = p
}

// records loads the current dataset. A load failure is logged and served as
// the explicit empty "no data" state, never as a 5xx.
func (a *App) records() []domain.ProgramRecord {
	snap, err := a.Loader.LoadFile(a.currentDataPath())
	if err != nil {
		log.Printf("WARN: dataset load failed: %v", err)
		return nil
	}
	return snap.Records
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
