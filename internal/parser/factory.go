package parser

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"loanlens/internal/config"
	"loanlens/internal/port"
)

// ProviderFactory creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a factory by name. Provider packages call it
// from init.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewParser creates a DocumentParser using the registered factory.
func NewParser(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Build creates the configured extraction chain: the primary provider alone,
// or primary then secondary behind a FallbackParser.
func Build(cfg *config.ParserConfig, logger *zap.Logger) (port.DocumentParser, error) {
	primary, err := NewParser(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary parser: %w", err)
	}
	sec := cfg.SecondaryConfig()
	if sec == nil {
		return primary, nil
	}
	secondary, err := NewParser(sec)
	if err != nil {
		return nil, fmt.Errorf("secondary parser: %w", err)
	}
	return NewFallbackParser(
		[]port.DocumentParser{primary, secondary},
		[]string{cfg.Primary.Provider, sec.Provider},
		logger,
	), nil
}
