package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping verifies the database is reachable, bounded to 5 seconds.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Msg("[DATABASE] Closing database connection pool")
	db.Pool.Close()
	db.Pool = nil
	return nil
}

// PoolStats is a snapshot of pgxpool statistics.
type PoolStats struct {
	AcquireCount         int64
	AcquireDuration      time.Duration
	AcquiredConns        int32
	CanceledAcquireCount int64
	IdleConns            int32
	MaxConns             int32
	TotalConns           int32
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		AcquiredConns:        raw.AcquiredConns(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		IdleConns:            raw.IdleConns(),
		MaxConns:             raw.MaxConns(),
		TotalConns:           raw.TotalConns(),
	}, nil
}

// PoolWarnings returns the alert conditions present in stats:
// utilization above 80%, average acquire latency above 100ms and a cancel
// rate above 5%.
func PoolWarnings(stats *PoolStats) []string {
	var warnings []string

	if stats.MaxConns > 0 {
		utilization := float64(stats.AcquiredConns) / float64(stats.MaxConns) * 100
		if utilization > 80 {
			warnings = append(warnings, fmt.Sprintf("high pool utilization: %.1f%% (%d/%d)",
				utilization, stats.AcquiredConns, stats.MaxConns))
		}
	}

	if avg := calculateAvgDuration(stats.AcquireDuration, stats.AcquireCount); avg > 100*time.Millisecond {
		warnings = append(warnings, fmt.Sprintf("high acquire latency: %v", avg))
	}

	if stats.AcquireCount > 0 && stats.CanceledAcquireCount > 0 {
		cancelRate := float64(stats.CanceledAcquireCount) / float64(stats.AcquireCount) * 100
		if cancelRate > 5 {
			warnings = append(warnings, fmt.Sprintf("high cancel rate: %.1f%%", cancelRate))
		}
	}

	return warnings
}

// MonitorPoolHealth logs pool warnings every interval until ctx is done.
// Run it in its own goroutine.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Warn().Err(err).Msg("[MONITOR] Failed to get pool stats")
				continue
			}
			for _, w := range PoolWarnings(stats) {
				log.Warn().Msg("[MONITOR] " + w)
			}
		case <-ctx.Done():
			return
		}
	}
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}
