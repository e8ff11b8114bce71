package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

var (
	buyer  = entity.NewSession("buyer-1", "+919000000001")
	seller = entity.NewSession("seller-1", "+919000000002")
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call runs h for a request made as session. Path params are given as
// name/value pairs.
func call(t *testing.T, h echo.HandlerFunc, session entity.Session, method, target, body string, params ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	e := echo.New()
	e.Validator = api.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session.Valid() {
		c.Set(middleware.ContextKeyUID, session.UID)
		c.Set(middleware.ContextKeyPhone, session.Phone)
	}
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	require.NoError(t, h(c))

	var env envelope
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}
