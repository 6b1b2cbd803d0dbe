package di

import (
	"fmt"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/service"
	"github.com/wczubal1/GreenAgentWitty/internal/handler/api"
	"github.com/wczubal1/GreenAgentWitty/internal/service/classify"
	"github.com/wczubal1/GreenAgentWitty/internal/service/dates"
	"github.com/wczubal1/GreenAgentWitty/internal/service/purple"
	"github.com/wczubal1/GreenAgentWitty/internal/usecase"
	"github.com/wczubal1/GreenAgentWitty/pkg/config"
	applogger "github.com/wczubal1/GreenAgentWitty/pkg/logger"
	"github.com/wczubal1/GreenAgentWitty/pkg/metrics"
	"github.com/wczubal1/GreenAgentWitty/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() service.Metrics {
	return metrics.New()
}

// ProvideClassifier creates the dataset classifier with production keywords.
func ProvideClassifier() *classify.Classifier {
	return classify.New(classify.DefaultConfig())
}

// ProvideDateResolver creates the target date resolver.
func ProvideDateResolver(cfg *config.Config) *dates.Resolver {
	return dates.NewResolver(cfg.Assessment.ReferenceYear)
}

// ProvideMessenger creates the purple agent JSON-RPC client.
func ProvideMessenger(cfg *config.Config, l *applogger.Logger) service.Messenger {
	return purple.New(cfg.Purple.RequestTimeout, l)
}

// ProvideAssessor wires the validation engine.
func ProvideAssessor(
	cfg *config.Config,
	classifier *classify.Classifier,
	resolver *dates.Resolver,
	messenger service.Messenger,
	m service.Metrics,
	l *applogger.Logger,
) *usecase.Assessor {
	return usecase.NewAssessor(
		usecase.EngineConfig{
			MinAttempts:       cfg.Assessment.MinAttempts,
			QuantityTolerance: cfg.Assessment.QuantityTolerance,
			DeltaTolerance:    cfg.Assessment.DeltaTolerance,
		},
		classifier,
		resolver,
		messenger,
		m,
		l,
		cfg.Finra.ClientID,
		cfg.Finra.ClientSecret,
	)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(l *applogger.Logger, assessor *usecase.Assessor) *api.AssessmentsHandler {
	return api.NewAssessmentsHandler(l, assessor)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler *api.AssessmentsHandler) *server.App {
	return server.New(cfg, l, handler)
}
