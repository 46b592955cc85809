// Package platform hosts the adapters standing in for the device platform:
// the app launcher surface and the permission store.
package platform

import (
	"context"

	"go.uber.org/zap"

	"voicedash/internal/domain"
)

// Launcher emits external-action requests against a configured set of
// installed apps. Dialer, call, and composer actions are handled by system
// apps and always resolve; app launches resolve only when the app is present.
type Launcher struct {
	installed map[string]bool
	log       *zap.SugaredLogger
}

func NewLauncher(installedApps []string, log *zap.SugaredLogger) *Launcher {
	installed := make(map[string]bool, len(installedApps))
	for _, app := range installedApps {
		if app != "" {
			installed[app] = true
		}
	}
	return &Launcher{installed: installed, log: log}
}

func (l *Launcher) Open(_ context.Context, req domain.ActionRequest) domain.ActionOutcome {
	outcome := l.resolve(req)
	l.log.Infow("external action",
		"kind", req.Kind,
		"app", req.AppID,
		"destination", req.Destination,
		"number", req.Number,
		"outcome", outcome,
	)
	return outcome
}

func (l *Launcher) resolve(req domain.ActionRequest) domain.ActionOutcome {
	switch req.Kind {
	case domain.ActionLaunchApp:
		if !l.installed[req.AppID] {
			return domain.ActionUnresolved
		}
	case domain.ActionOpenNavigation:
		// A named app must be installed; the generic request takes whatever
		// viewer the platform offers.
		if req.AppID != "" && !l.installed[req.AppID] {
			return domain.ActionUnresolved
		}
	}
	return domain.ActionResolved
}
