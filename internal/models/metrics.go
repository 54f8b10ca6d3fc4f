package models

import "time"

// SystemMetrics is the JSON view of the in-process counters.
type SystemMetrics struct {
	CacheHitRatio               float64   `json:"cacheHitRatio"`
	CacheHits                   uint64    `json:"cacheHits"`
	CacheMisses                 uint64    `json:"cacheMisses"`
	RequestsTotal               uint64    `json:"requestsTotal"`
	AverageRequestDurationMs    float64   `json:"averageRequestDurationMs"`
	GenerationsTotal            uint64    `json:"generationsTotal"`
	GenerationFailures          uint64    `json:"generationFailures"`
	AverageGenerationDurationMs float64   `json:"averageGenerationDurationMs"`
	SlotsPlaced                 uint64    `json:"slotsPlaced"`
	ConflictsRecorded           uint64    `json:"conflictsRecorded"`
	Goroutines                  int       `json:"goroutines"`
	GeneratedAt                 time.Time `json:"generatedAt"`
}
