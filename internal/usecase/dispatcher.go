package usecase

import (
	"context"

	"voicedash/internal/domain"
	"voicedash/internal/ports"
)

// AppIDs names the preferred handler apps for dispatched commands.
type AppIDs struct {
	Maps  string
	Media string
	Chat  string
}

// ActionDispatcher maps interpreted commands to external-action requests,
// consulting the permission gate before gated actions. Failures are surfaced
// as notices and never propagate to the session controller.
type ActionDispatcher struct {
	launcher ports.ActionLauncher
	gate     *PermissionGate
	events   ports.EventSink
	apps     AppIDs
}

func NewActionDispatcher(
	launcher ports.ActionLauncher,
	gate *PermissionGate,
	events ports.EventSink,
	apps AppIDs,
) *ActionDispatcher {
	return &ActionDispatcher{launcher: launcher, gate: gate, events: events, apps: apps}
}

// Dispatch emits at most one external action for the command. A denied
// permission drops the action after a notice; it is never queued for retry.
func (d *ActionDispatcher) Dispatch(ctx context.Context, cmd domain.Command) {
	switch cmd.Kind {
	case domain.CommandNavigate:
		d.openNavigation(ctx, cmd.Destination)
	case domain.CommandCall:
		d.placeCallOrDial(ctx, cmd.Number)
	case domain.CommandMessage:
		d.open(ctx, domain.ActionRequest{
			Kind:   domain.ActionOpenMessageComposer,
			Number: cmd.Number,
			Body:   cmd.Body,
		})
	case domain.CommandPlayMedia:
		d.launchApp(ctx, d.apps.Media, "media app is not available")
	case domain.CommandOpenChat:
		d.launchApp(ctx, d.apps.Chat, "chat app is not available")
	case domain.CommandUnknown:
		// Show the operator exactly what was recognized.
		d.events.StatusChanged(cmd.RawText)
	}
}

// openNavigation tries the preferred maps app first and falls back to any
// handler capable of the generic view action.
func (d *ActionDispatcher) openNavigation(ctx context.Context, destination string) {
	preferred := domain.ActionRequest{
		Kind:        domain.ActionOpenNavigation,
		Destination: destination,
		AppID:       d.apps.Maps,
	}
	if d.open(ctx, preferred) == domain.ActionResolved {
		return
	}

	generic := domain.ActionRequest{Kind: domain.ActionOpenNavigation, Destination: destination}
	if d.open(ctx, generic) == domain.ActionUnresolved {
		d.events.Notify("no navigation app is available")
	}
}

func (d *ActionDispatcher) placeCallOrDial(ctx context.Context, number string) {
	if number == "" {
		d.open(ctx, domain.ActionRequest{Kind: domain.ActionOpenDialer})
		return
	}

	if d.gate.Status(domain.PermissionCallPhone) != domain.PermissionGranted {
		d.events.Notify("permission required: " + string(domain.PermissionCallPhone))
		d.gate.Request(ctx, domain.PermissionCallPhone)
		return
	}

	d.open(ctx, domain.ActionRequest{Kind: domain.ActionPlaceCall, Number: number})
}

func (d *ActionDispatcher) launchApp(ctx context.Context, appID string, unavailable string) {
	req := domain.ActionRequest{Kind: domain.ActionLaunchApp, AppID: appID}
	if d.open(ctx, req) == domain.ActionUnresolved {
		d.events.Notify(unavailable)
	}
}

func (d *ActionDispatcher) open(ctx context.Context, req domain.ActionRequest) domain.ActionOutcome {
	outcome := d.launcher.Open(ctx, req)
	d.events.ActionRequested(req, outcome)
	return outcome
}
