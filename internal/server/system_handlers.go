package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/finwell/internal/database"
	"github.com/aristath/finwell/internal/scheduler"
)

// healthCheckTimeout bounds the database checks of GET /health
const healthCheckTimeout = 5 * time.Second

// SystemHandlers serves health, status and job trigger endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	databases []*database.DB
	startedAt time.Time

	mu   sync.RWMutex
	jobs map[string]scheduler.Job
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, dataDir string, databases ...*database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		dataDir:   dataDir,
		databases: databases,
		startedAt: time.Now(),
		jobs:      make(map[string]scheduler.Job),
	}
}

// RegisterJob makes job available for manual triggering by name
func (h *SystemHandlers) RegisterJob(job scheduler.Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jobs[job.Name()] = job
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"` // "healthy" or "unhealthy"
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Databases map[string]string `json:"databases"`
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status        string   `json:"status"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	CPUPercent    float64  `json:"cpu_percent"`
	MemoryPercent float64  `json:"memory_percent"`
	Goroutines    int      `json:"goroutines"`
	DataDirMB     float64  `json:"data_dir_mb"`
	Databases     []DBInfo `json:"databases"`
	Jobs          []string `json:"jobs"`
	LastChecked   string   `json:"last_checked"`
}

// DBInfo represents information about a single database
type DBInfo struct {
	Name  string          `json:"name"`
	Path  string          `json:"path"`
	Stats *database.Stats `json:"stats,omitempty"`
	Error string          `json:"error,omitempty"`
}

// HandleHealth handles GET /health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Service:   "finwell",
		Version:   Version,
		Databases: make(map[string]string, len(h.databases)),
	}

	for _, db := range h.databases {
		if err := db.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			response.Status = "unhealthy"
			response.Databases[db.Name()] = err.Error()
			continue
		}
		response.Databases[db.Name()] = "ok"
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, response)
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		DataDirMB:     h.getDirSize(h.dataDir),
		Databases:     make([]DBInfo, 0, len(h.databases)),
		Jobs:          h.jobNames(),
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	for _, db := range h.databases {
		info := DBInfo{Name: db.Name(), Path: db.Path()}
		stats, err := db.GetStats()
		if err != nil {
			info.Error = err.Error()
			response.Status = "degraded"
		} else {
			info.Stats = stats
		}
		response.Databases = append(response.Databases, info)
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTriggerJob handles POST /api/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.mu.RLock()
	job, ok := h.jobs[name]
	h.mu.RUnlock()
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job triggered")

	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": name + " completed",
	})
}

func (h *SystemHandlers) jobNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	if dirPath == "" {
		return 0
	}

	var totalSize int64
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the call fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
