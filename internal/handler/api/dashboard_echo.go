package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	models "CryptoSeason/internal/domain/models"
	domsvc "CryptoSeason/internal/domain/service"
	"CryptoSeason/internal/presenter"
	"CryptoSeason/internal/service/ratelimit"
	"CryptoSeason/internal/services/analytics"
	"CryptoSeason/internal/services/stats"
	"CryptoSeason/internal/usecase"
	xhttp "CryptoSeason/pkg/http"
	xlogger "CryptoSeason/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
)

// DashboardEchoHandler serves the dashboard state, asset selection and
// one-off analyses over HTTP and WebSocket.
type DashboardEchoHandler struct {
	logger   *xlogger.Logger
	dash     *usecase.Dashboard
	fetcher  domsvc.SeasonFetcher
	limiter  *ratelimit.Limiter
	upgrader websocket.Upgrader
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard, fetcher domsvc.SeasonFetcher, limiter *ratelimit.Limiter) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:  logger.Component("dashboard-api"),
		dash:    dash,
		fetcher: fetcher,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CORS middleware governs origins for the whole API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/assets", h.Assets)
	g.GET("/dashboard", h.Dashboard)
	g.PUT("/dashboard/asset", h.SelectAsset, h.rateLimit)
	g.POST("/dashboard/refresh", h.Refresh, h.rateLimit)
	g.GET("/dashboard/stream", h.Stream)
	g.GET("/analysis/:symbol", h.Analysis)
}

func (h *DashboardEchoHandler) Assets(c echo.Context) error {
	assets := h.dash.Assets()
	return xhttp.ListResponse(c, assets, int64(len(assets)))
}

func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, h.dash.View())
}

func (h *DashboardEchoHandler) SelectAsset(c echo.Context) error {
	req := &models.SelectAssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.dash.SelectAsset(req.Symbol)
	switch {
	case errors.Is(err, models.ErrInvalidAsset):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol", err.Error()).
			WithParam("options", h.symbols()))
	case errors.Is(err, usecase.ErrDashboardClosed):
		return xhttp.AppErrorResponse(c, errShuttingDown())
	case err != nil:
		h.logger.Error("select asset error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.AcceptedResponse(c, view)
}

// Refresh refetches the selected asset, skipping any cached result.
func (h *DashboardEchoHandler) Refresh(c echo.Context) error {
	view, err := h.dash.Refresh()
	switch {
	case errors.Is(err, usecase.ErrDashboardClosed), errors.Is(err, usecase.ErrDashboardNotStarted):
		return xhttp.AppErrorResponse(c, errShuttingDown())
	case err != nil:
		h.logger.Error("refresh error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.AcceptedResponse(c, view)
}

func errShuttingDown() *xhttp.AppError {
	return xhttp.NewAppError("ERR_UNAVAILABLE", "", "dashboard is not running", http.StatusServiceUnavailable)
}

// Analysis fetches one asset synchronously, independent of the dashboard selection.
func (h *DashboardEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	asset, err := h.dash.Resolve(req.Symbol)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol", err.Error()).
			WithParam("options", h.symbols()))
	}

	records, err := h.fetcher.Fetch(c.Request().Context(), asset)
	if err != nil {
		if analytics.IsFetchError(err) {
			return xhttp.AppErrorResponse(c, xhttp.UpstreamError(err.Error()).WithError(err))
		}
		h.logger.Error("analysis fetch error", xlogger.String("asset", asset.String()), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	summary := stats.Summarize(records)
	return xhttp.SuccessResponse(c, models.AnalysisResult{
		Asset:   asset,
		Records: records,
		Summary: summary,
		Tiles:   presenter.Tiles(summary),
	})
}

// Stream upgrades to a WebSocket and pushes a DashboardView after every
// state change. Clients may send {"symbol":"ETH"} to change the selection.
func (h *DashboardEchoHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	views, unsubscribe := h.dash.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go h.readLoop(conn, c.RealIP(), done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case v, ok := <-views:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return nil
			}
			if err := conn.WriteJSON(v); err != nil {
				h.logger.Debug("websocket write failed", xlogger.Error(err))
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}

// readLoop handles selection messages and detects disconnects.
func (h *DashboardEchoHandler) readLoop(conn *websocket.Conn, client string, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req models.SelectAssetRequest
		if err := json.Unmarshal(msg, &req); err != nil || req.Symbol == "" {
			h.logger.Debug("ignoring websocket message", xlogger.String("client", client))
			continue
		}
		if !h.limiter.Allow(client) {
			continue
		}
		if _, err := h.dash.SelectAsset(req.Symbol); err != nil {
			h.logger.Warn("websocket select rejected", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		}
	}
}

func (h *DashboardEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP()) {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many selection changes, slow down"))
		}
		return next(c)
	}
}

func (h *DashboardEchoHandler) symbols() []string {
	assets := h.dash.Assets()
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Symbol.String()
	}
	return out
}
