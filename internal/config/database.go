package config

import (
	"realestate-backend/internal/infrastructure/database"
)

// DBConfig converts the database section into the pool configuration used by
// the postgres wrapper.
func (d DatabaseConfig) DBConfig() *database.DBConfig {
	return &database.DBConfig{
		Host:              d.Host,
		Port:              d.Port,
		Username:          d.User,
		Password:          d.Password,
		DBName:            d.Database,
		SSLMode:           d.SSLMode,
		MaxConns:          int32(d.MaxConns),
		MinConns:          int32(d.MinConns),
		MaxConnLifetime:   d.MaxConnLifetime,
		MaxConnIdleTime:   d.MaxConnIdleTime,
		HealthCheckPeriod: d.HealthCheckPeriod,
		MaxRetries:        d.MaxRetries,
		RetryDelay:        d.RetryDelay,
		ConnectTimeout:    d.ConnectTimeout,
	}
}
