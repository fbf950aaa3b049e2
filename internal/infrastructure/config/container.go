// Package config provides a dependency injection container for wiring together
// all the components of the application following hexagonal architecture principles.
package config

import (
	"errors"

	appsvc "viterbit-gateway/internal/application/service"
	"viterbit-gateway/internal/application/usecase"
	"viterbit-gateway/internal/domain/port"
	"viterbit-gateway/internal/domain/service"
	"viterbit-gateway/internal/infrastructure/adapter/gateway"
	"viterbit-gateway/internal/infrastructure/adapter/stream"
	"viterbit-gateway/internal/infrastructure/adapter/tool"
	"viterbit-gateway/internal/infrastructure/adapter/viterbit"
)

// Container holds all application dependencies wired together.
// It provides a single point of access to all services and ports,
// following the dependency injection pattern for clean architecture.
//
// The container is responsible for:
// - Creating and initializing all adapters (infrastructure layer)
// - Creating domain services (domain layer)
// - Creating application services (application layer)
// - Providing accessors for all dependencies.
type Container struct {
	config         *Config
	directory      port.CandidateDirectory
	registry       *service.OperationRegistry
	invocation     *usecase.ToolInvocationUseCase
	streamManager  *stream.Manager
	gatewayAdapter *gateway.HTTPAdapter
}

// NewContainer creates a new DI container and wires all dependencies.
//
// The wiring order is:
// 1. Create infrastructure adapters (infra layer)
// 2. Create domain services (domain layer)
// 3. Create application services (application layer)
//
// Parameters:
//   - cfg: Configuration object containing application settings
//
// Returns:
//   - *Container: A fully wired dependency container
//   - error: An error if any dependency creation fails
func NewContainer(cfg *Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	// Step 1: Load the tenant tables and create the directory client
	dirCfg, err := LoadDirectoryConfigWithDefaults(cfg.LookupFile)
	if err != nil {
		return nil, err
	}

	directory, err := viterbit.NewClient(viterbit.Config{
		APIKey:  cfg.ViterbitAPIKey,
		BaseURL: cfg.ViterbitBaseURL,
		Fields: viterbit.FieldIDs{
			DiscordID:       dirCfg.Fields.DiscordID,
			Subscriber:      dirCfg.Fields.Subscriber,
			StageName:       dirCfg.Fields.StageName,
			StageDate:       dirCfg.Fields.StageDate,
			Warranty100Days: dirCfg.Fields.Warranty100Days,
			ActivityStatus:  dirCfg.Fields.ActivityStatus,
		},
		DisqualifiedByID: dirCfg.DisqualifiedByID,
	})
	if err != nil {
		return nil, err
	}

	// Step 2: Build the tool catalog and its handlers
	catalog, handlers, err := tool.Build(directory, tool.Lookups{
		Departments: dirCfg.Departments,
		Locations:   dirCfg.Locations,
		Filters: tool.FilterFieldIDs{
			Subscriber:       dirCfg.Fields.Subscriber,
			ActivityStatus:   dirCfg.Fields.ActivityStatus,
			Coach:            dirCfg.Fields.Coach,
			DrivingLicense:   dirCfg.Fields.DrivingLicense,
			NationalMobility: dirCfg.Fields.NationalMobility,
			Experience:       dirCfg.Fields.Experience,
			Zone:             dirCfg.Fields.Zone,
			Province:         dirCfg.Fields.Province,
		},
	})
	if err != nil {
		return nil, err
	}

	// Step 3: Create domain and application services
	registry, err := service.NewOperationRegistry(catalog, handlers)
	if err != nil {
		return nil, err
	}

	normalizer, err := appsvc.NewNormalizer(catalog)
	if err != nil {
		return nil, err
	}

	validator, err := tool.NewSchemaValidator(catalog)
	if err != nil {
		return nil, err
	}

	invocation, err := usecase.NewToolInvocationUseCase(registry, normalizer, validator, usecase.ToolInvocationConfig{
		HandlerTimeout: cfg.HandlerTimeout,
	})
	if err != nil {
		return nil, err
	}

	// Step 4: Create the network surface
	streamManager, err := stream.NewManager(catalog, stream.ManagerConfig{
		PingInterval: cfg.PingInterval,
		Version:      gateway.Version,
	})
	if err != nil {
		return nil, err
	}

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.Addr = cfg.Addr
	gatewayConfig.APIKeys = cfg.APIKeys
	gatewayConfig.AllowedOrigins = cfg.AllowedOrigins
	gatewayAdapter := gateway.NewHTTPAdapter(invocation, streamManager, gatewayConfig)

	return &Container{
		config:         cfg,
		directory:      directory,
		registry:       registry,
		invocation:     invocation,
		streamManager:  streamManager,
		gatewayAdapter: gatewayAdapter,
	}, nil
}

// Config returns the application configuration.
func (c *Container) Config() *Config {
	return c.config
}

// Directory returns the candidate directory port implementation.
// Useful for direct Viterbit operations outside of tool dispatch.
func (c *Container) Directory() port.CandidateDirectory {
	return c.directory
}

// Registry returns the operation registry binding catalog and handlers.
func (c *Container) Registry() *service.OperationRegistry {
	return c.registry
}

// InvocationUseCase returns the tool invocation use case.
// This is the main entry point for dispatching tool calls.
func (c *Container) InvocationUseCase() *usecase.ToolInvocationUseCase {
	return c.invocation
}

// StreamManager returns the event-stream session manager.
func (c *Container) StreamManager() *stream.Manager {
	return c.streamManager
}

// GatewayAdapter returns the gateway HTTP adapter.
// Useful for starting the server to expose the tool catalog over HTTP.
func (c *Container) GatewayAdapter() *gateway.HTTPAdapter {
	return c.gatewayAdapter
}
