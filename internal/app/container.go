package app

import (
	"context"

	"github.com/doeshing/clai/internal/application/gate"
	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/infrastructure"
	"github.com/doeshing/clai/internal/infrastructure/audit"
	"github.com/doeshing/clai/internal/infrastructure/config"
	"github.com/doeshing/clai/internal/infrastructure/security"
	"github.com/doeshing/clai/internal/pkg/logger"
	"github.com/doeshing/clai/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	GateService    *gate.Service
	Classifier     *security.Classifier
	Screen         *security.Screen
	Policy         *security.Policy
	PolicyPath     string
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	AuditStore     ports.AuditRepository
	Logger         ports.Logger
	Config         domain.Config
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	policyPath := security.ResolvePolicyPath(cfg.Security.PolicyFile)
	policy, err := security.LoadPolicy(policyPath)
	if err != nil {
		log.Warn("policy load failed, using defaults", map[string]interface{}{
			"path":  policyPath,
			"error": err.Error(),
		})
		policy = security.DefaultPolicy()
	}

	classifier := security.NewClassifier(policy, security.WithLogger(log))

	screen, err := security.NewScreen(nil)
	if err != nil {
		return nil, err
	}

	auditStore := audit.NewSQLiteStore(cfg.Security.AuditDB)

	gateService := &gate.Service{
		Classifier:      classifier,
		Executor:        infrastructure.NewLocalExecutor(cfg.Preferences.Shell, ""),
		AuditStore:      auditStore,
		Logger:          log,
		AutoExecuteSafe: cfg.Preferences.AutoExecuteSafe,
	}

	return &Container{
		GateService:    gateService,
		Classifier:     classifier,
		Screen:         screen,
		Policy:         policy,
		PolicyPath:     policyPath,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		AuditStore:     auditStore,
		Logger:         log,
		Config:         cfg,
	}, nil
}
