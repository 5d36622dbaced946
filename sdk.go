// sdk.go
// ------
// The sdk.go file contains the core DDIBridge struct and its methods.
// This is the main entry point of the SDK for users.
//
// Key functionalities include:
// - Initializing the SDK with NewDDIBridge()
// - Registering interaction data sources with RegisterSource()
// - Making requests via sdk.Request()
// - Managing and retrieving source configurations and rate limit info
//
// The DDIBridge relies on a RateLimiter and a RequestExecutor to classify
// failures and signal rate limits consistently across all sources.
package ddibridge

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type DDIBridge struct {
	mu          sync.Mutex
	sources     map[string]SourceAdapter
	configs     map[string]*SourceConfig
	rateLimiter *RateLimiter
	executor    *RequestExecutor
	logger      *zap.SugaredLogger
}

func NewDDIBridge() *DDIBridge {
	sdk := &DDIBridge{
		sources:     make(map[string]SourceAdapter),
		configs:     make(map[string]*SourceConfig),
		rateLimiter: NewRateLimiter(),
		logger:      zap.NewNop().Sugar(),
	}
	sdk.executor = NewRequestExecutor(sdk)
	return sdk
}

// SetLogger attaches a logger for debug output. The default is a nop
// logger, so the SDK is silent unless a caller wires one in.
func (sdk *DDIBridge) SetLogger(logger *zap.SugaredLogger) {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	sdk.logger = logger
}

// RegisterSource associates a SourceAdapter with a source name and
// configuration, and installs the configured rate-limit defaults.
func (sdk *DDIBridge) RegisterSource(name string, adapter SourceAdapter, config *SourceConfig) {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	if config == nil {
		config = &SourceConfig{UseSourceLimits: true}
	}
	sdk.sources[name] = adapter
	sdk.configs[name] = config

	var maxRequests int
	var windowSecs int64
	if config.MaxRequestsOverride != nil {
		maxRequests = *config.MaxRequestsOverride
	}
	if config.WindowSecsOverride != nil {
		windowSecs = *config.WindowSecsOverride
	}
	adapter.SetRateLimitDefaults(maxRequests, windowSecs)

	sdk.logger.Debugw("registered source", "source", name, "config", config)
}

// Request sends a NormalizedRequest to the named source and returns a
// NormalizedResponse. Failures come back as *ClassifiedError values; with
// the default SourceConfig exactly one attempt is made and rate limiting
// is reported, not waited out.
func (sdk *DDIBridge) Request(ctx context.Context, sourceName string, req *NormalizedRequest) (*NormalizedResponse, error) {
	sdk.mu.Lock()
	adapter, ok := sdk.sources[sourceName]
	sdk.mu.Unlock()
	if !ok {
		return nil, NewConfigError("source %q not registered", sourceName)
	}

	sdk.logger.Debugw("requesting source", "source", sourceName, "method", req.Method, "endpoint", req.Endpoint)
	return sdk.executor.Execute(ctx, sourceName, func(ctx context.Context) (*NormalizedResponse, error) {
		return adapter.ExecuteRequest(ctx, req)
	}, adapter)
}

// getSourceConfig retrieves the SourceConfig for a source, or a default
// single-attempt config if none was registered.
func (sdk *DDIBridge) getSourceConfig(sourceName string) *SourceConfig {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()

	config, ok := sdk.configs[sourceName]
	if !ok || config == nil {
		return &SourceConfig{UseSourceLimits: true}
	}
	return config
}

// GetRateLimitInfo returns the current known rate limit info for a source.
func (sdk *DDIBridge) GetRateLimitInfo(sourceName string) *NormalizedRateLimitInfo {
	return sdk.rateLimiter.GetRateLimitInfo(sourceName)
}
