// Package notification turns domain events into persisted in-app
// notifications and pushes them to connected clients over SSE. It
// subscribes to events so domain modules never know about delivery.
package notification

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	notifhandler "leadflow_backend/internal/notification/handler"
	"leadflow_backend/internal/notification/inapp"
	"leadflow_backend/internal/notification/sse"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	log          *logger.Logger
	sse          *sse.Service
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
}

// New creates a new notification module.
func New(pool *pgxpool.Pool, log *logger.Logger) *Module {
	inAppRepo := inapp.NewRepository(pool)
	inAppSvc := inapp.NewService(inAppRepo, log)
	sseSvc := sse.New(log)
	inAppSvc.SetSSE(sseSvc)

	return &Module{
		log:          log,
		sse:          sseSvc,
		inAppService: inAppSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// SSE exposes the SSE service for shutdown.
func (m *Module) SSE() *sse.Service { return m.sse }

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// RegisterRoutes registers notification API routes, including the SSE
// stream. EventSource cannot set headers, so the stream relies on the
// auth middleware's query-token support.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)

	notifications.GET("/stream", m.sse.Handler(func(c *gin.Context) (uuid.UUID, bool) {
		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return uuid.Nil, false
		}
		return identity.UserID(), true
	}))
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadScoreUpdated{}.EventName(), m)
	bus.Subscribe(events.TaskCompleted{}.EventName(), m)
	bus.Subscribe(events.InteractionLogged{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	case events.LeadScoreUpdated:
		return m.handleLeadScoreUpdated(ctx, e)
	case events.TaskCompleted:
		return m.handleTaskCompleted(ctx, e)
	case events.InteractionLogged:
		return m.handleInteractionLogged(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	leadID := e.LeadID
	_, err := m.inAppService.Notify(ctx, inapp.CreateParams{
		Type:          inapp.TypeLeadCreated,
		Title:         "New lead",
		Message:       fmt.Sprintf("%s %s was added as a new lead", e.FirstName, e.LastName),
		RelatedLeadID: &leadID,
	})
	return err
}

func (m *Module) handleLeadScoreUpdated(ctx context.Context, e events.LeadScoreUpdated) error {
	leadID := e.LeadID
	_, err := m.inAppService.Notify(ctx, inapp.CreateParams{
		Type:          inapp.TypeScoreUpdated,
		Title:         "Activity score updated",
		Message:       fmt.Sprintf("%s's activity score is now %d", e.LeadName, e.Score),
		RelatedLeadID: &leadID,
	})
	return err
}

func (m *Module) handleTaskCompleted(ctx context.Context, e events.TaskCompleted) error {
	leadID := e.LeadID
	_, err := m.inAppService.Notify(ctx, inapp.CreateParams{
		Type:          inapp.TypeTaskCompleted,
		Title:         "Task completed",
		Message:       fmt.Sprintf("Task %q was completed", e.Title),
		RelatedLeadID: &leadID,
	})
	return err
}

// handleInteractionLogged only notifies when the interaction carried notes;
// bare call/email/meeting entries would drown the bell in noise.
func (m *Module) handleInteractionLogged(ctx context.Context, e events.InteractionLogged) error {
	if !e.HasNotes {
		return nil
	}

	leadID := e.LeadID
	_, err := m.inAppService.Notify(ctx, inapp.CreateParams{
		Type:          inapp.TypeCommentAdded,
		Title:         "Note added",
		Message:       fmt.Sprintf("A note was added to a %s interaction", e.Type),
		RelatedLeadID: &leadID,
	})
	return err
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
