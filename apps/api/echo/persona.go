package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aalimaslam/ace-brainiac-admin/storage/inmem"
)

type personaApi struct {
	notifications *inmemdb.NotificationRepository
}

func registerPersonaAPI(g *echo.Group, db *inmemdb.DB) {
	api := personaApi{notifications: inmemdb.NewNotificationRepository(db)}

	ng := g.Group("/notifications")
	ng.GET("", api.queryNotifications)
	ng.PATCH("", api.markAllRead)
	ng.PATCH("/:id", api.markRead)
}

// statusCode wraps every persona response.
type statusCode struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type notificationsData struct {
	Notifications []inmemdb.NotificationRow `json:"notifications"`
	TotalUnread   int                       `json:"totalUnreadNotifications"`
	Total         int                       `json:"totalNotifications"`
}

func respond(ctx echo.Context, res statusCode) error {
	return ctx.JSON(http.StatusOK, echo.Map{"statusCode": res})
}

// Handlers

func (api *personaApi) queryNotifications(ctx echo.Context) error {
	rows, unread, total := api.notifications.QueryNotifications(limitParam(ctx))
	return respond(ctx, statusCode{
		Status: http.StatusOK,
		Data:   notificationsData{Notifications: rows, TotalUnread: unread, Total: total},
	})
}

func (api *personaApi) markRead(ctx echo.Context) error {
	if err := api.notifications.MarkRead(ctx.Param("id")); err != nil {
		if errors.Is(err, inmemdb.ErrNotFound) {
			return errNotificationGone
		}
		return errors.Wrap(err, "marking notification read")
	}
	return respond(ctx, statusCode{Status: http.StatusOK, Message: "Notification marked as read"})
}

func (api *personaApi) markAllRead(ctx echo.Context) error {
	api.notifications.MarkAllRead()
	return respond(ctx, statusCode{Status: http.StatusOK, Message: "All notifications marked as read"})
}
