package connector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Konsultn-Engineering/neodb/database"
)

type standardConnector struct {
	provider Provider
	config   Config
}

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager is a registry of named providers.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes a provider available by name. Providers register themselves
// from init, so importing the provider package is enough.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New binds config to the named provider after applying its defaults.
func New(name string, config Config) (Connector, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", name)
	}
	config = config.WithDefaults(provider.DefaultPort())
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &standardConnector{provider: provider, config: config}, nil
}

func (c *standardConnector) Config() Config {
	return c.config
}

func (c *standardConnector) Connect(ctx context.Context) (database.Database, error) {
	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}
	connect := func(ctx context.Context) (database.Database, error) {
		return c.provider.Connect(ctx, c.config)
	}
	if c.config.Retry == nil {
		return connect(ctx)
	}
	db, err := retryConnect(ctx, *c.config.Retry, connect)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d retries: %w", c.config.Retry.MaxRetries, err)
	}
	return db, nil
}
