// websocket.go - Live clock and table feed
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pakalnivut/backend/internal/logging"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/table"
)

// WebSocket message types for the live table feed
const (
	// Client -> Server messages
	MsgTypeSubscribe = "subscribe"
	MsgTypePing      = "ping"

	// Server -> Client messages
	MsgTypeClock = "clock"
	MsgTypeTable = "table"
	MsgTypeError = "error"
	MsgTypePong  = "pong"
)

// WSMessage is the envelope for every feed message
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// SubscribePayload changes which navigator and sort the feed presents
type SubscribePayload struct {
	Navigator models.NavigatorID `json:"navigator"`
	Sort      string             `json:"sort"`
	Dir       string             `json:"dir"`
}

// ClockPayload carries the displayed clock
type ClockPayload struct {
	Time string `json:"time"`
}

// WSErrorPayload describes a rejected client message
type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// subscription is the presenter state owned by one connection.
type subscription struct {
	nav   models.NavigatorID
	state table.State
}

// WebSocketHandler pushes the clock and table refreshes to connected clients
type WebSocketHandler struct {
	presenter *table.Presenter
	now       func() time.Time
	upgrader  websocket.Upgrader
	clockTick time.Duration
	gapTick   time.Duration
	log       *logging.Logger
}

// NewWebSocketHandler creates a live feed handler
func NewWebSocketHandler(presenter *table.Presenter, now func() time.Time, clockTick, gapTick time.Duration, log *logging.Logger) *WebSocketHandler {
	if now == nil {
		now = time.Now
	}
	if clockTick <= 0 {
		clockTick = table.ClockRefresh
	}
	if gapTick <= 0 {
		gapTick = table.GapRefresh
	}
	return &WebSocketHandler{
		presenter: presenter,
		now:       now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The mobile shell loads the UI from its own origin.
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		clockTick: clockTick,
		gapTick:   gapTick,
		log:       log.WithComponent("live"),
	}
}

// HandleTableFeed upgrades to a WebSocket and streams the clock every clock
// tick and the table every gap tick. Clients may resubscribe to another
// navigator or sort at any time.
func (wsh *WebSocketHandler) HandleTableFeed(c echo.Context) error {
	sub := subscription{nav: models.Navigator1}
	if raw := c.QueryParam("nav"); raw != "" {
		nav, err := models.ParseNavigatorID(raw)
		if err != nil {
			return NewNotFoundError("navigator", raw)
		}
		sub.nav = nav
	}
	state, err := sortState(c)
	if err != nil {
		return err
	}
	sub.state = state

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	wsh.log.Debug("client connected", "remote", c.RealIP(), "navigator", int(sub.nav))

	incoming := make(chan WSMessage)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg WSMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsh.log.Warn("connection error", "error", err)
				}
				return
			}
			select {
			case incoming <- msg:
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	clock := time.NewTicker(wsh.clockTick)
	defer clock.Stop()
	gaps := time.NewTicker(wsh.gapTick)
	defer gaps.Stop()

	if err := wsh.sendClock(ws); err != nil {
		return nil
	}
	if err := wsh.sendTable(ws, sub); err != nil {
		return nil
	}

	for {
		select {
		case <-done:
			wsh.log.Debug("client disconnected", "remote", c.RealIP())
			return nil
		case <-c.Request().Context().Done():
			return nil
		case <-clock.C:
			if err := wsh.sendClock(ws); err != nil {
				return nil
			}
		case <-gaps.C:
			if err := wsh.sendTable(ws, sub); err != nil {
				return nil
			}
		case msg := <-incoming:
			next, err := wsh.handleMessage(ws, sub, msg)
			if err != nil {
				return nil
			}
			sub = next
		}
	}
}

// handleMessage applies one client message and returns the updated
// subscription.
func (wsh *WebSocketHandler) handleMessage(ws *websocket.Conn, sub subscription, msg WSMessage) (subscription, error) {
	switch msg.Type {
	case MsgTypePing:
		return sub, wsh.send(ws, MsgTypePong, nil)
	case MsgTypeSubscribe:
		var p SubscribePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return sub, wsh.sendError(ws, "invalid subscribe payload: "+err.Error(), "INVALID_PAYLOAD")
		}
		if p.Navigator != 0 && !p.Navigator.Valid() {
			return sub, wsh.sendError(ws, "unknown navigator", "INVALID_NAVIGATOR")
		}
		state, err := table.ParseState(p.Sort, p.Dir)
		if err != nil {
			return sub, wsh.sendError(ws, err.Error(), "INVALID_SORT")
		}
		if p.Navigator != 0 {
			sub.nav = p.Navigator
		}
		sub.state = state
		return sub, wsh.sendTable(ws, sub)
	default:
		return sub, wsh.sendError(ws, "Unknown message type: "+msg.Type, "INVALID_TYPE")
	}
}

func (wsh *WebSocketHandler) sendClock(ws *websocket.Conn) error {
	return wsh.send(ws, MsgTypeClock, ClockPayload{Time: wsh.now().Format("15:04:05")})
}

func (wsh *WebSocketHandler) sendTable(ws *websocket.Conn, sub subscription) error {
	return wsh.send(ws, MsgTypeTable, wsh.presenter.View(sub.nav, sub.state).Model())
}

func (wsh *WebSocketHandler) sendError(ws *websocket.Conn, message, code string) error {
	return wsh.send(ws, MsgTypeError, WSErrorPayload{Message: message, Code: code})
}

func (wsh *WebSocketHandler) send(ws *websocket.Conn, msgType string, payload interface{}) error {
	msg := WSMessage{Type: msgType, Timestamp: wsh.now().UnixMilli()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Payload = data
	}

	ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return ws.WriteJSON(msg)
}
