package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/events"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	PublicSurveyTTL time.Duration
	StatisticsTTL   time.Duration
	SessionTTL      time.Duration
}

// ServiceDependencies are the collaborators shared by all services
type ServiceDependencies struct {
	Backend    SurveyBackend
	Repo       repositories.Repository
	Cache      *cache.CacheManager
	Publisher  events.EventPublisher
	Subscriber message.Subscriber
	Validator  *validator.Validator
	Logger     *slog.Logger
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   ServiceDependencies
	config ServiceManagerConfig
	logger *slog.Logger

	// Service instances
	publicService   PublicSurveyService
	surveyService   SurveyService
	questionService QuestionService
	authService     AuthService

	// Lifecycle management
	stopConsumers context.CancelFunc
	initialized   bool
	mu            sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceDependencies, config ServiceManagerConfig) ServiceManager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}
	return &serviceManager{
		deps:   deps,
		config: config,
		logger: deps.Logger,
	}
}

// Initialize sets up all services and starts the event consumers
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Backend == nil || sm.deps.Repo == nil || sm.deps.Validator == nil {
		return errors.New("backend, repository and validator are required")
	}

	sm.logger.Info("Initializing service manager")

	d := sm.deps
	sm.publicService = NewPublicSurveyService(d.Backend, d.Repo.Drafts(), d.Cache, d.Publisher, sm.logger.With("service", "public"), sm.config.PublicSurveyTTL)
	sm.surveyService = NewSurveyService(d.Backend, d.Cache, d.Publisher, d.Validator, sm.logger.With("service", "survey"), sm.config.StatisticsTTL)
	sm.questionService = NewQuestionService(d.Backend, d.Cache, d.Validator, sm.logger.With("service", "question"))
	sm.authService = NewAuthService(d.Backend, d.Repo.Sessions(), d.Publisher, d.Validator, sm.logger.With("service", "auth"), sm.config.SessionTTL)

	if d.Subscriber != nil {
		if err := sm.startConsumers(); err != nil {
			return fmt.Errorf("failed to start event consumers: %w", err)
		}
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) startConsumers() error {
	ctx, cancel := context.WithCancel(context.Background())
	handler := &statsInvalidator{cache: sm.deps.Cache, logger: sm.logger}
	consumerLogger := sm.logger.With("component", "consumer")

	subscriptions := map[string]events.Handler{
		events.TypeResponseSubmitted: handler.HandleResponseSubmitted,
		events.TypeSurveyPublished:   handler.HandleSurveyPublished,
	}
	for topic, h := range subscriptions {
		if err := events.Consume(ctx, sm.deps.Subscriber, topic, h, consumerLogger); err != nil {
			cancel()
			return err
		}
	}
	sm.stopConsumers = cancel
	return nil
}

func (sm *serviceManager) Public() PublicSurveyService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.publicService
}

func (sm *serviceManager) Survey() SurveyService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.surveyService
}

func (sm *serviceManager) Question() QuestionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.questionService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.authService
}

// HealthCheck checks the stores the services depend on
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return errors.New("service manager not initialized")
	}
	return sm.deps.Repo.Ping(ctx)
}

// Shutdown stops the event consumers
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.stopConsumers != nil {
		sm.stopConsumers()
		sm.stopConsumers = nil
	}
	sm.initialized = false
	sm.logger.Info("Service manager shut down")
	return nil
}
