// Package framework provides common plumbing shared by all engine services.
package framework

import (
	"strings"

	"github.com/mobble-app/mobble-engine/internal/metrics"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// ServiceConfig configures a ServiceEngine instance.
type ServiceConfig struct {
	Name        string
	Description string
	Logger      *logger.Logger
}

// ServiceEngine provides common functionality for all services.
// Embed this in service structs to reduce boilerplate.
//
// Example usage:
//
//	type Service struct {
//	    *framework.ServiceEngine
//	    store Store
//	}
//
//	func New(store Store, log *logger.Logger) *Service {
//	    return &Service{
//	        ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
//	            Name:   "points",
//	            Logger: log,
//	        }),
//	        store: store,
//	    }
//	}
type ServiceEngine struct {
	name        string
	description string
	log         *logger.Logger
}

// NewServiceEngine creates a configured service engine.
func NewServiceEngine(cfg ServiceConfig) *ServiceEngine {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "unknown"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewDefault(name)
	}
	return &ServiceEngine{
		name:        name,
		description: cfg.Description,
		log:         cfg.Logger,
	}
}

// Name returns the service name.
func (e *ServiceEngine) Name() string { return e.name }

// Logger returns the service logger.
func (e *ServiceEngine) Logger() *logger.Logger { return e.log }

// ValidateUser trims and validates a user ID. Every service operation takes
// the user explicitly; there is no ambient current-user state.
func (e *ServiceEngine) ValidateUser(userID string) (string, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return "", RequiredError("user_id")
	}
	return trimmed, nil
}

// ValidateRequired checks that a string field is not empty after trimming.
func (e *ServiceEngine) ValidateRequired(value, fieldName string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", RequiredError(fieldName)
	}
	return trimmed, nil
}

// IncrementCounter counts one completed operation for this service.
func (e *ServiceEngine) IncrementCounter(operation string) {
	metrics.RecordOperation(e.name, operation)
}

// LogUpdated logs a state update for a user-scoped entity.
func (e *ServiceEngine) LogUpdated(entity, userID string) {
	e.log.WithField("entity", entity).
		WithField("user_id", userID).
		Info(entity + " updated")
}

// LogAction logs a custom action with user context.
func (e *ServiceEngine) LogAction(action, entity, userID string) {
	e.log.WithField("entity", entity).
		WithField("user_id", userID).
		Info(entity + " " + action)
}
