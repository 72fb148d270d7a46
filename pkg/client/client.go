package client

import (
	"context"
	"mentorbook/pkg/contracts"
	"mentorbook/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
)

// Client holds the process-wide connections. Only the ones a binary
// asked for are set.
type Client struct {
	Mongo    *mongo.Client
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetPostgres(log *logger.Logger, postgresURL string, connTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(postgresURL)
	if err != nil {
		log.Fatal("Invalid Postgres URL", "error", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", "error", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Fatal("Failed to ping Postgres", "error", err)
	}

	log.Info("Successfully connected to Postgres", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database)
	c.Postgres = pool
}

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int, timeout time.Duration) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Fatal("Failed to ping Redis", "error", err, "addr", addr)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = rdb
}

// Checks returns a readiness check for every open connection.
func (c *Client) Checks() []contracts.HealthCheck {
	var checks []contracts.HealthCheck
	if c.Mongo != nil {
		checks = append(checks, contracts.HealthCheck{Name: "mongo", Ping: func(ctx context.Context) error {
			return c.Mongo.Ping(ctx, nil)
		}})
	}
	if c.Postgres != nil {
		checks = append(checks, contracts.HealthCheck{Name: "postgres", Ping: c.Postgres.Ping})
	}
	if c.Redis != nil {
		checks = append(checks, contracts.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return c.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

func (c *Client) GracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if c.Mongo != nil {
		err = multierr.Append(err, c.Mongo.Disconnect(ctx))
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		err = multierr.Append(err, c.Redis.Close())
	}
	return err
}
