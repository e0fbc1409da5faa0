package config

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPGXPoolConfig creates a pgxpool.Config for the lending database.
func PostgresPGXPoolConfig() (*pgxpool.Config, error) {
	const defaultMaxConnections = int32(8)
	const defaultMinConnections = int32(2)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(PostgresDSN())
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// PostgresPGXPool creates a connected pgx pool for the lending database.
func PostgresPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, configErr := PostgresPGXPoolConfig()
	if configErr != nil {
		return nil, configErr
	}

	pool, poolErr := pgxpool.NewWithConfig(ctx, dbConfig)
	if poolErr != nil {
		return nil, poolErr
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}
