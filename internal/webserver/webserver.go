// Package webserver owns the echo instance serving the storefront API. It
// carries the cookie session every request runs under: a generated session
// id identifying the browser, and the user's language choice.
package webserver

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/souqlink/config"
	"github.com/talkincode/souqlink/internal/i18n"
)

const (
	sidKey  = "sid"
	langKey = "lang"
)

var server *WebServer

type WebServer struct {
	root *echo.Echo
	cfg  *config.AppConfig
	node *snowflake.Node
}

// Init builds the global web server. node supplies session ids.
func Init(cfg *config.AppConfig, node *snowflake.Node) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	store := sessions.NewCookieStore([]byte(cfg.Web.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	server = &WebServer{root: e, cfg: cfg, node: node}
	e.Use(server.ensureSession)
	return server
}

// requestLogger traces every request through the global zap logger.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))
			return err
		}
	}
}

// ensureSession guarantees every request carries a session id and a resolved
// language before any handler runs.
func (ws *WebServer) ensureSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(ws.cfg.Session.CookieName, c)
		if err != nil {
			// corrupt cookie; start over with a fresh session
			sess, _ = session.Get(ws.cfg.Session.CookieName, c)
		}
		dirty := false
		if _, ok := sess.Values[sidKey].(string); !ok {
			sess.Values[sidKey] = ws.node.Generate().String()
			dirty = true
		}
		if _, ok := sess.Values[langKey].(string); !ok {
			sess.Values[langKey] = i18n.Match(c.Request().Header.Get("Accept-Language"))
			dirty = true
		}
		if dirty {
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				zap.L().Warn("webserver: session save failed", zap.Error(err))
			}
		}
		return next(c)
	}
}

// Sid returns the session id of the current request.
func Sid(c echo.Context) string {
	sess, _ := session.Get(server.cfg.Session.CookieName, c)
	if sid, ok := sess.Values[sidKey].(string); ok {
		return sid
	}
	return ""
}

// Lang returns the resolved language of the current request.
func Lang(c echo.Context) string {
	sess, _ := session.Get(server.cfg.Session.CookieName, c)
	if lang, ok := sess.Values[langKey].(string); ok && i18n.Supported(lang) {
		return lang
	}
	return i18n.Default
}

// SetLang stores the language choice in the cookie session.
func SetLang(c echo.Context, lang string) {
	sess, _ := session.Get(server.cfg.Session.CookieName, c)
	sess.Values[langKey] = lang
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		zap.L().Warn("webserver: session save failed", zap.Error(err))
	}
}

// ApiGET registers a GET handler under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api"+path, h)
}

// ApiPOST registers a POST handler under /api.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api"+path, h)
}

// ApiPUT registers a PUT handler under /api.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api"+path, h)
}

// ApiDELETE registers a DELETE handler under /api.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h)
}

// Echo exposes the underlying echo instance (used in tests).
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (ws *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	zap.L().Info("webserver: listening", zap.String("addr", addr))
	return ws.root.Start(addr)
}

// Shutdown stops the server gracefully.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	return ws.root.Shutdown(ctx)
}
