package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Components reported by the manager
const (
	ComponentStore = "store"
	ComponentRaft  = "raft"
)

// ReadyComponents must all be registered and healthy for /ready to pass
var ReadyComponents = []string{ComponentStore, ComponentRaft}

// HealthStatus is the JSON body of the health endpoints
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
	Message    string            `json:"message,omitempty"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
}

// ComponentHealth is the last reported state of one component
type ComponentHealth struct {
	Healthy bool
	Message string
	Updated time.Time
}

// HealthChecker holds the component states reported by the store
type HealthChecker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	startTime  time.Time
	version    string
}

var healthChecker = newHealthChecker()

func newHealthChecker() *HealthChecker {
	return &HealthChecker{
		components: make(map[string]ComponentHealth),
		startTime:  time.Now(),
	}
}

// SetVersion sets the version string for health responses
func SetVersion(version string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.version = version
}

// RegisterComponent records the state of a component, replacing any
// earlier report
func RegisterComponent(name string, healthy bool, message string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()

	healthChecker.components[name] = ComponentHealth{
		Healthy: healthy,
		Message: message,
		Updated: time.Now(),
	}
}

// status fills the fields shared by every response; callers hold the lock
func (h *HealthChecker) status(s string) HealthStatus {
	return HealthStatus{
		Status:     s,
		Timestamp:  time.Now(),
		Components: make(map[string]string),
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
	}
}

// GetHealth reports "unhealthy" when any registered component is unhealthy
func GetHealth() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	health := healthChecker.status("healthy")
	for name, comp := range healthChecker.components {
		if comp.Healthy {
			health.Components[name] = "healthy"
			continue
		}
		health.Status = "unhealthy"
		health.Components[name] = "unhealthy: " + comp.Message
	}
	return health
}

// GetReadiness reports "not_ready" until every ReadyComponents entry is
// registered and healthy. Message names the first one missing.
func GetReadiness() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	readiness := healthChecker.status("ready")
	for _, name := range ReadyComponents {
		comp, ok := healthChecker.components[name]
		switch {
		case !ok:
			readiness.Components[name] = "not registered"
			readiness.notReady("waiting for " + name + " initialization")
		case !comp.Healthy:
			readiness.Components[name] = "not ready: " + comp.Message
			readiness.notReady("waiting for " + name)
		default:
			readiness.Components[name] = "ready"
		}
	}
	return readiness
}

func (s *HealthStatus) notReady(message string) {
	if s.Status == "ready" {
		s.Status = "not_ready"
		s.Message = message
	}
}

func writeStatus(w http.ResponseWriter, ok bool, body any) {
	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// HealthHandler serves GetHealth, 503 when unhealthy
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := GetHealth()
		writeStatus(w, health.Status != "unhealthy", health)
	}
}

// ReadyHandler serves GetReadiness, 503 until ready
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readiness := GetReadiness()
		writeStatus(w, readiness.Status == "ready", readiness)
	}
}

// LivenessHandler always answers 200 while the process runs
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, true, map[string]string{
			"status": "alive",
			"uptime": time.Since(healthChecker.startTime).String(),
		})
	}
}
