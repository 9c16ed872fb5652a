package controller

import (
	"errors"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// GetSessionValue returns a string value from the session, or "" if not found.
func GetSessionValue(c echo.Context, key string) string {
	sess, err := session.Get("session", c)
	if err != nil && !isRecoverableSessionError(err) {
		return ""
	}
	val, _ := sess.Values[key].(string)
	return val
}

// SetSessionValue sets a key/value in the session and saves immediately.
func SetSessionValue(c echo.Context, key, value string) error {
	sess, err := session.Get("session", c)
	if err != nil && !isRecoverableSessionError(err) {
		return err
	}
	sess.Values[key] = value
	return sess.Save(c.Request(), c.Response())
}

// isRecoverableSessionError checks whether the error from session.Get()
// indicates an invalid or old session cookie that can be treated as "no
// session".
func isRecoverableSessionError(err error) bool {
	if err == nil {
		return false
	}
	if strings.Contains(err.Error(), "securecookie: the value is not valid") {
		return true
	}
	var scErr securecookie.Error
	return errors.As(err, &scErr)
}
