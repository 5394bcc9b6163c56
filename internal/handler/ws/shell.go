package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	models "StockTrend/internal/domain/models"
	"StockTrend/internal/handler/api"
	xhttp "StockTrend/pkg/http"
	xlogger "StockTrend/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message types.
const (
	TypeSet     = "set"
	TypeTrigger = "trigger"
	TypeState   = "state"
	TypeResult  = "result"
	TypeError   = "error"
)

// Inbound is a client command. Set only changes non-empty fields.
type Inbound struct {
	Type   string `json:"type"`
	Ticker string `json:"ticker,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// Outbound is a server reply.
type Outbound struct {
	Type     string           `json:"type"`
	Query    models.UserQuery `json:"query"`
	Analysis *models.Analysis `json:"analysis,omitempty"`
	Error    *xhttp.AppError  `json:"error,omitempty"`
}

// ShellHandler runs one interactive session per WebSocket connection. The
// connection owns its query fields; closing it discards them.
type ShellHandler struct {
	logger   *xlogger.Logger
	analyzer api.Analyzer
	upgrader websocket.Upgrader
}

func NewShellHandler(logger *xlogger.Logger, analyzer api.Analyzer) *ShellHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ShellHandler{
		logger:   logger.Component("ws"),
		analyzer: analyzer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *ShellHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

func (h *ShellHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s := &shellSession{h: h, conn: conn, query: h.analyzer.DefaultQuery()}
	go s.keepAlive(ctx)

	if err := s.send(Outbound{Type: TypeState, Query: s.query}); err != nil {
		return nil
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", xlogger.Error(err))
			}
			return nil
		}
		if err := s.dispatch(ctx, msg); err != nil {
			h.logger.Debug("websocket write error", xlogger.Error(err))
			return nil
		}
	}
}

type shellSession struct {
	h     *ShellHandler
	conn  *websocket.Conn
	query models.UserQuery
}

// dispatch decodes one frame. A frame that is not a valid command gets an
// error reply and the session continues.
func (s *shellSession) dispatch(ctx context.Context, msg []byte) error {
	var in Inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		return s.send(Outbound{
			Type:  TypeError,
			Query: s.query,
			Error: xhttp.BadRequestError("malformed message; expected a JSON object with a string type").WithError(err),
		})
	}
	return s.handle(ctx, in)
}

func (s *shellSession) handle(ctx context.Context, in Inbound) error {
	switch in.Type {
	case TypeSet:
		if in.Ticker != "" {
			s.query.Ticker = in.Ticker
		}
		if in.Start != "" {
			s.query.Start = in.Start
		}
		if in.End != "" {
			s.query.End = in.End
		}
		return s.send(Outbound{Type: TypeState, Query: s.query})

	case TypeTrigger:
		res, err := s.h.analyzer.HandleTrigger(ctx, s.query)
		if err != nil {
			return s.send(Outbound{Type: TypeError, Query: s.query, Error: toAppError(err)})
		}
		return s.send(Outbound{Type: TypeResult, Query: s.query, Analysis: res})

	default:
		return s.send(Outbound{
			Type:  TypeError,
			Query: s.query,
			Error: xhttp.BadRequestErrorf("unknown message type %q; use set or trigger", in.Type),
		})
	}
}

// send is only called from the read loop; pings use WriteControl, which
// gorilla allows concurrently with other writes.
func (s *shellSession) send(out Outbound) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(out)
}

// keepAlive pings until ctx ends.
func (s *shellSession) keepAlive(ctx context.Context) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return xhttp.InternalError(xhttp.UserMessage(err))
}
