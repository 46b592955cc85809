package usecase

import (
	"context"
	"sync"

	"voicedash/internal/domain"
	"voicedash/internal/ports"
)

// PermissionGate consolidates permission checks for every gated action. It
// owns the cached statuses; only its own handlers mutate them.
type PermissionGate struct {
	platform ports.PermissionService
	events   ports.EventSink

	// notificationsGated is true on host OS versions that require an explicit
	// notification permission.
	notificationsGated bool

	mu       sync.Mutex
	statuses map[domain.Permission]domain.PermissionState
}

func NewPermissionGate(platform ports.PermissionService, events ports.EventSink, notificationsGated bool) *PermissionGate {
	return &PermissionGate{
		platform:           platform,
		events:             events,
		notificationsGated: notificationsGated,
		statuses:           make(map[domain.Permission]domain.PermissionState),
	}
}

// Required lists the permissions this deployment declares.
func (g *PermissionGate) Required() []domain.Permission {
	required := []domain.Permission{
		domain.PermissionRecordAudio,
		domain.PermissionCallPhone,
		domain.PermissionSendSMS,
	}
	if g.notificationsGated {
		required = append(required, domain.PermissionPostNotifications)
	}
	return required
}

// Status refreshes one permission from the platform and returns it. Gated
// actions call this immediately before acting, so the cache is never stale at
// the moment of decision.
func (g *PermissionGate) Status(permission domain.Permission) domain.PermissionState {
	state := g.platform.Check(permission)

	g.mu.Lock()
	g.statuses[permission] = state
	g.mu.Unlock()

	return state
}

// Request asks the platform for the given permissions and returns
// immediately. The batch result is applied asynchronously; denials surface as
// notices only and are never retried.
func (g *PermissionGate) Request(ctx context.Context, permissions ...domain.Permission) {
	if len(permissions) == 0 {
		return
	}
	go func() {
		g.apply(g.platform.Request(ctx, permissions))
	}()
}

// RequestMissing requests every declared permission not currently granted.
func (g *PermissionGate) RequestMissing(ctx context.Context) {
	var missing []domain.Permission
	for _, permission := range g.Required() {
		if g.Status(permission) != domain.PermissionGranted {
			missing = append(missing, permission)
		}
	}
	g.Request(ctx, missing...)
}

func (g *PermissionGate) apply(results map[domain.Permission]domain.PermissionState) {
	g.mu.Lock()
	for permission, state := range results {
		g.statuses[permission] = state
	}
	g.mu.Unlock()

	for permission, state := range results {
		if state == domain.PermissionDenied {
			g.events.Notify("permission denied: " + string(permission))
		}
	}
}
