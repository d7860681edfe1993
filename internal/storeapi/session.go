package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/souqlink/internal/notify"
	"github.com/talkincode/souqlink/internal/validate"
	"github.com/talkincode/souqlink/internal/view"
	"github.com/talkincode/souqlink/internal/webserver"
)

func registerSessionRoutes() {
	webserver.ApiPOST("/session/login", postLogin)
	webserver.ApiPOST("/session/register", postRegister)
	webserver.ApiPOST("/session/logout", postLogout)
}

func postLogin(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	var form validate.LoginForm
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login form", err.Error())
	}

	id, err := env.Sessions.Login(sid, form)
	if err != nil {
		if ferr, ok := err.(*validate.FieldError); ok {
			return failField(c, ferr, lang)
		}
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store identity", err.Error())
	}

	toast(sid, "notice.login_ok", notify.LevelSuccess)
	return ok(c, view.BuildUser(id))
}

func postRegister(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	var form validate.RegisterForm
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration form", err.Error())
	}

	id, err := env.Sessions.Register(sid, form)
	if err != nil {
		if ferr, ok := err.(*validate.FieldError); ok {
			return failField(c, ferr, lang)
		}
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store identity", err.Error())
	}

	toast(sid, "notice.register_ok", notify.LevelSuccess)
	return ok(c, view.BuildUser(id))
}

func postLogout(c echo.Context) error {
	sid := webserver.Sid(c)

	if err := env.Sessions.Logout(sid); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to clear identity", err.Error())
	}

	toast(sid, "notice.logout_ok", notify.LevelSuccess)
	return ok(c, view.BuildUser(nil))
}
