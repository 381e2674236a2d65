package models

// Health is the liveness response.
type Health struct {
	Status  HealthStatus   `json:"status"`
	Time    Timestamp      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// Readiness is the readiness response with dependency status.
type Readiness struct {
	Status    HealthStatus     `json:"status"`
	Time      Timestamp        `json:"time"`
	Providers []ProviderStatus `json:"providers,omitempty"`
	Caches    []CacheStatus    `json:"caches,omitempty"`
}

// ProviderStatus reports the health of one external provider.
type ProviderStatus struct {
	Name          string       `json:"name"`
	Status        HealthStatus `json:"status"`
	BreakerState  string       `json:"breakerState,omitempty"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
}

// CacheStatus reports the population of one lookup cache.
type CacheStatus struct {
	Name         string `json:"name"`
	Entries      int    `json:"entries"`
	FreshEntries int    `json:"freshEntries"`
}

// Version is the build information response.
type Version struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime,omitempty"`
}
