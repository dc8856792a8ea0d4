package voiceService

import (
	"sync"
	"time"

	"PortfolioVoice/internal/api/voice"
	"PortfolioVoice/internal/entity"
)

type statsRecorder struct {
	mu            sync.RWMutex
	total         int
	bySource      map[string]int
	byAction      map[string]int
	byTarget      map[string]int
	remoteErrors  map[string]int
	fallbacks     int
	lowConfidence int
	superseded    int
	latencyTotal  int64
	lastCommandAt time.Time
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		bySource:     make(map[string]int),
		byAction:     make(map[string]int),
		byTarget:     make(map[string]int),
		remoteErrors: make(map[string]int),
	}
}

func (r *statsRecorder) record(cmd entity.VoiceCommand) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	r.bySource[string(cmd.Source)]++
	r.byAction[string(cmd.Intent.Action)]++
	r.byTarget[cmd.Resolution.Target]++
	if cmd.RemoteErr != "" {
		r.remoteErrors[cmd.RemoteErr]++
	}
	if cmd.Resolution.Fallback {
		r.fallbacks++
	}
	if cmd.Resolution.LowConfidence {
		r.lowConfidence++
	}
	if cmd.Superseded {
		r.superseded++
	}
	r.latencyTotal += cmd.Latency
	if cmd.CreatedAt.After(r.lastCommandAt) {
		r.lastCommandAt = cmd.CreatedAt
	}
}

func (r *statsRecorder) snapshot() *voice.StatsResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &voice.StatsResponse{
		Total:         r.total,
		BySource:      copyCounts(r.bySource),
		ByAction:      copyCounts(r.byAction),
		ByTarget:      copyCounts(r.byTarget),
		RemoteErrors:  copyCounts(r.remoteErrors),
		Fallbacks:     r.fallbacks,
		LowConfidence: r.lowConfidence,
		Superseded:    r.superseded,
	}
	if r.total > 0 {
		stats.AvgLatencyMs = float64(r.latencyTotal) / float64(r.total)
		last := r.lastCommandAt
		stats.LastCommandAt = &last
	}

	return stats
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
