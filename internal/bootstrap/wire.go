package bootstrap

import (
	"go.uber.org/zap"

	"voicedash/internal/config"
	"voicedash/internal/domain"
	"voicedash/internal/interpret"
	"voicedash/internal/platform"
	"voicedash/internal/ports"
	"voicedash/internal/providers/wsengine"
	"voicedash/internal/report"
	"voicedash/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.SessionController
	Gate       *usecase.PermissionGate
	Reporter   *report.Client
	Config     config.Config
}

// Build wires all backend dependencies for the current runtime. The caller
// owns the event sink and must Close the reporter on shutdown.
func Build(events ports.EventSink, log *zap.SugaredLogger) Services {
	cfg := config.Load()
	return BuildWith(cfg, events, log)
}

// BuildWith assembles the graph from an explicit configuration.
func BuildWith(cfg config.Config, events ports.EventSink, log *zap.SugaredLogger) Services {
	gate := usecase.NewPermissionGate(
		platform.NewPermissionStore(
			toPermissions(cfg.Permissions.Granted),
			toPermissions(cfg.Permissions.Denied),
		),
		events,
		cfg.Permissions.NotificationsGated,
	)

	dispatcher := usecase.NewActionDispatcher(
		platform.NewLauncher(cfg.Apps.Installed, log),
		gate,
		events,
		usecase.AppIDs{
			Maps:  cfg.Apps.MapsAppID,
			Media: cfg.Apps.MediaAppID,
			Chat:  cfg.Apps.ChatAppID,
		},
	)

	reporter := report.NewClient(cfg.Backend.BaseURL, cfg.Backend.QueueSize, log)

	controller := usecase.NewSessionController(
		wsengine.NewEngine(wsengine.Config{
			URL:         cfg.Engine.URL,
			DialTimeout: cfg.Engine.DialTimeout,
		}, log),
		gate,
		interpret.New(cfg.Interpret.PhoneRegion),
		dispatcher,
		reporter,
		events,
	)

	return Services{Controller: controller, Gate: gate, Reporter: reporter, Config: cfg}
}

func toPermissions(names []string) []domain.Permission {
	permissions := make([]domain.Permission, 0, len(names))
	for _, name := range names {
		permissions = append(permissions, domain.Permission(name))
	}
	return permissions
}
