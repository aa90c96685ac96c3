package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/app/models/dto"
)

// BacklogFunc returns the recent events of a course, oldest first
type BacklogFunc func(ctx context.Context, subject, catalogNumber string) []models.CatalogEvent

// Handler for WebSocket connections
type Handler struct {
	hub     *Hub
	backlog BacklogFunc
	logger  zerolog.Logger
}

// NewHandler creates a new WebSocket handler. backlog may be nil.
func NewHandler(hub *Hub, backlog BacklogFunc, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		backlog: backlog,
		logger:  logger,
	}
}

// HandleConnection godoc
// @Summary Watch a course for catalog changes
// @Description Upgrades the connection to a WebSocket that receives an event for every section added to the course
// @Tags watch, websocket
// @Param dept path string true "Department subject, e.g. CMPT"
// @Param number path string true "Catalog number, e.g. 276"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.APIResponse "Missing subject or catalog number"
// @Router /watch/{dept}/{number} [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	subject := strings.TrimSpace(c.Param("dept"))
	number := strings.TrimSpace(c.Param("number"))
	if subject == "" || number == "" {
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error:     dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "subject and catalog number are required"),
			Timestamp: time.Now(),
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("subject", subject).
			Str("number", number).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		course: models.CourseKey(subject, number),
		logger: h.logger,
	}

	// Backlog goes first so watchers see events in order
	if h.backlog != nil {
		for _, event := range h.backlog(c.Request.Context(), subject, number) {
			data, err := json.Marshal(Message{
				Type:      MessageTypeCatalogEvent,
				Course:    client.course,
				Event:     event,
				Timestamp: time.Now(),
			})
			if err != nil {
				continue
			}
			select {
			case client.send <- data:
			default:
			}
		}
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("course", client.course).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
