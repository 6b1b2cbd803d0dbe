package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/internal/usecase"
	xlogger "github.com/wczubal1/GreenAgentWitty/pkg/logger"
)

type streamUpgrader struct {
	ws websocket.Upgrader
}

func newStreamUpgrader() streamUpgrader {
	return streamUpgrader{ws: websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}}
}

// streamFrame is one websocket message: live status updates while the
// assessment runs, then a single terminal frame.
type streamFrame struct {
	Type    string                 `json:"type"` // status, artifact, error
	Message string                 `json:"message,omitempty"`
	Summary string                 `json:"summary,omitempty"`
	Result  map[string]interface{} `json:"result,omitempty"`
}

// wsReporter pushes status frames over the socket as they happen.
type wsReporter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (r *wsReporter) Update(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// client may have gone away mid-run; updates are best effort
	_ = r.conn.WriteJSON(streamFrame{Type: "status", Message: message})
}

func (r *wsReporter) send(frame streamFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.WriteJSON(frame)
}

// Stream runs one assessment per connection. The client sends the request
// as its first JSON message and receives status frames followed by the
// verdict artifact.
func (h *AssessmentsHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.ws.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	var req models.AssessmentRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(streamFrame{Type: "error", Message: "invalid request payload"})
		return nil
	}
	if req.Participants == nil || req.Config == nil {
		_ = conn.WriteJSON(streamFrame{Type: "error", Message: "participants and config are required"})
		return nil
	}

	reporter := &wsReporter{conn: conn}
	verdict, err := h.assessor.Assess(c.Request().Context(), req, reporter)
	if err != nil {
		var reject *usecase.RejectError
		if errors.As(err, &reject) {
			_ = reporter.send(streamFrame{Type: "error", Message: reject.Message})
			return nil
		}
		var transport *usecase.TransportError
		if errors.As(err, &transport) {
			_ = reporter.send(streamFrame{Type: "error", Message: transport.Error()})
			return nil
		}
		h.logger.Error("stream assessment error", xlogger.Error(err))
		_ = reporter.send(streamFrame{Type: "error", Message: "internal error"})
		return nil
	}

	return reporter.send(streamFrame{
		Type:    "artifact",
		Summary: verdict.Summary,
		Result:  verdict.Data,
	})
}
