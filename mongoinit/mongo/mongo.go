package mongo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
	"github.com/Capi12YT/demo-avoris/mongoinit/log"
	libOpentelemetry "github.com/Capi12YT/demo-avoris/mongoinit/opentelemetry"
	"github.com/Capi12YT/demo-avoris/mongoinit/opentelemetry/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultAppName                = "mongo-init"
	defaultServerSelectionTimeout = 5 * time.Second
)

// Config describes the server to reach and the database selected first.
type Config struct {
	URI string
	// Database is selected on connect. UseDatabase switches it later.
	Database string
	// AppName is reported to the server in the handshake. Defaults to "mongo-init".
	AppName string
	// ServerSelectionTimeout bounds how long each call waits for a usable server.
	ServerSelectionTimeout time.Duration
	// TLS enables certificate verification against a custom CA.
	TLS            *TLSConfig
	Logger         log.Logger
	MetricsFactory *metrics.Factory
}

func (cfg Config) withDefaults() Config {
	cfg.URI = strings.TrimSpace(cfg.URI)
	cfg.Database = strings.TrimSpace(cfg.Database)

	if strings.TrimSpace(cfg.AppName) == "" {
		cfg.AppName = defaultAppName
	}

	if cfg.ServerSelectionTimeout <= 0 {
		cfg.ServerSelectionTimeout = defaultServerSelectionTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	return cfg
}

func (cfg Config) validate() error {
	switch {
	case cfg.URI == "":
		return ErrEmptyURI
	case cfg.Database == "":
		return ErrEmptyDatabaseName
	}

	if cfg.TLS != nil {
		if err := cfg.TLS.validate(); err != nil {
			return err
		}
	}

	return nil
}

// clientOptions keeps the pool at one connection with retries off, so every
// call reaches the server exactly once.
func (cfg Config) clientOptions() (*options.ClientOptions, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cfg.AppName).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetMaxPoolSize(1).
		SetRetryWrites(false).
		SetRetryReads(false)

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.build()
		if err != nil {
			return nil, err
		}

		opts.SetTLSConfig(tlsCfg)
	}

	return opts, nil
}

// Option replaces driver calls, for tests.
type Option func(*clientDeps)

// clientDeps are the driver calls the client makes. Tests swap them out.
type clientDeps struct {
	connect          func(context.Context, *options.ClientOptions) (*mongo.Client, error)
	ping             func(context.Context, *mongo.Client) error
	disconnect       func(context.Context, *mongo.Client) error
	runCommand       func(ctx context.Context, client *mongo.Client, database string, command any) error
	createCollection func(ctx context.Context, client *mongo.Client, database, collection string) error
	createIndex      func(ctx context.Context, client *mongo.Client, database, collection string, index mongo.IndexModel) (string, error)
}

func driverDeps() clientDeps {
	return clientDeps{
		connect: func(ctx context.Context, clientOptions *options.ClientOptions) (*mongo.Client, error) {
			return mongo.Connect(ctx, clientOptions)
		},
		ping: func(ctx context.Context, client *mongo.Client) error {
			return client.Ping(ctx, nil)
		},
		disconnect: func(ctx context.Context, client *mongo.Client) error {
			return client.Disconnect(ctx)
		},
		runCommand: func(ctx context.Context, client *mongo.Client, database string, command any) error {
			return client.Database(database).RunCommand(ctx, command).Err()
		},
		createCollection: func(ctx context.Context, client *mongo.Client, database, collection string) error {
			return client.Database(database).CreateCollection(ctx, collection)
		},
		createIndex: func(ctx context.Context, client *mongo.Client, database, collection string, index mongo.IndexModel) (string, error) {
			return client.Database(database).Collection(collection).Indexes().CreateOne(ctx, index)
		},
	}
}

func (d clientDeps) missing() bool {
	return d.connect == nil || d.ping == nil || d.disconnect == nil ||
		d.runCommand == nil || d.createCollection == nil || d.createIndex == nil
}

// Client holds one open connection and the selected database.
type Client struct {
	mu       sync.RWMutex
	client   *mongo.Client
	database string
	logger   log.Logger
	metrics  *metrics.Factory
	deps     clientDeps
}

// NewClient connects to cfg.URI and pings the server. On ping failure the
// connection is released before returning.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	cfg = cfg.withDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	deps := driverDeps()

	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}

	if deps.missing() {
		return nil, ErrNilDependency
	}

	c := &Client{
		database: cfg.Database,
		logger:   cfg.Logger,
		metrics:  cfg.MetricsFactory,
		deps:     deps,
	}

	ctx, span := libOpentelemetry.StartMongoSpan(ctx, "mongo.connect", databaseAttr(cfg.Database))
	defer span.End()

	client, err := c.dial(ctx, cfg)
	if err != nil {
		c.countFailure(ctx, "connect")
		libOpentelemetry.HandleSpanError(span, "Failed to connect to mongo", err)

		return nil, err
	}

	c.client = client

	return c, nil
}

func (c *Client) dial(ctx context.Context, cfg Config) (*mongo.Client, error) {
	clientOptions, err := cfg.clientOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	client, err := c.deps.connect(ctx, clientOptions)
	if err != nil {
		c.logger.Log(ctx, log.LevelDebug, "mongo connect failed", log.Err(err))

		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if client == nil {
		return nil, ErrNilMongoClient
	}

	if err := c.deps.ping(ctx, client); err != nil {
		c.logger.Log(ctx, log.LevelDebug, "mongo ping failed", log.Err(err))

		if disconnectErr := c.deps.disconnect(ctx, client); disconnectErr != nil {
			c.logger.Log(ctx, log.LevelDebug, "mongo disconnect after failed ping", log.Err(disconnectErr))
		}

		return nil, fmt.Errorf("%w: %w", ErrPing, err)
	}

	c.logger.Log(ctx, log.LevelDebug, "mongo connected",
		log.String("database", cfg.Database),
		log.Bool("tls", cfg.TLS != nil),
	)

	return client, nil
}

// UseDatabase selects the database later calls operate on. It performs no
// I/O, and the database does not need to exist yet.
func (c *Client) UseDatabase(name string) error {
	if c == nil {
		return ErrNilClient
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyDatabaseName
	}

	c.mu.Lock()
	c.database = name
	c.mu.Unlock()

	return nil
}

// DatabaseName returns the selected database.
func (c *Client) DatabaseName() (string, error) {
	if c == nil {
		return "", ErrNilClient
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.database, nil
}

// Database returns a driver handle on the selected database.
func (c *Client) Database(ctx context.Context) (*mongo.Database, error) {
	client, database, err := c.resolve(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(database), nil
}

// Ping round-trips to the server on the open connection.
func (c *Client) Ping(ctx context.Context) error {
	client, _, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	ctx, span := libOpentelemetry.StartMongoSpan(ctx, "mongo.ping")
	defer span.End()

	if err := c.deps.ping(ctx, client); err != nil {
		err = fmt.Errorf("%w: %w", ErrPing, err)
		libOpentelemetry.HandleSpanError(span, "Mongo ping failed", err)

		return err
	}

	return nil
}

// Close disconnects. The client counts as closed afterwards even when the
// disconnect fails, and closing twice is a no-op.
func (c *Client) Close(ctx context.Context) error {
	if c == nil {
		return ErrNilClient
	}

	if ctx == nil {
		return ErrNilContext
	}

	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}

	ctx, span := libOpentelemetry.StartMongoSpan(ctx, "mongo.close")
	defer span.End()

	if err := c.deps.disconnect(ctx, client); err != nil {
		err = fmt.Errorf("%w: %w", ErrDisconnect, err)
		libOpentelemetry.HandleSpanError(span, "Failed to disconnect from mongo", err)

		return err
	}

	return nil
}

// resolve returns the open driver client and the selected database.
func (c *Client) resolve(ctx context.Context) (*mongo.Client, string, error) {
	if c == nil {
		return nil, "", ErrNilClient
	}

	if ctx == nil {
		return nil, "", ErrNilContext
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return nil, "", ErrClientClosed
	}

	return c.client, c.database, nil
}

var connectionFailuresMetric = metrics.Metric{
	Name:        constant.MetricConnectionFailuresTotal,
	Unit:        "1",
	Description: "Failed attempts to connect to the mongo server",
}

func (c *Client) countFailure(ctx context.Context, operation string) {
	if c.metrics == nil {
		return
	}

	counter, err := c.metrics.Counter(connectionFailuresMetric)
	if err == nil {
		err = counter.WithLabels(map[string]string{"operation": constant.SanitizeMetricLabel(operation)}).AddOne(ctx)
	}

	if err != nil {
		c.logger.Log(ctx, log.LevelWarn, "mongo failure counter unavailable", log.Err(err))
	}
}

func databaseAttr(name string) attribute.KeyValue {
	return attribute.String(constant.AttrDBName, name)
}
