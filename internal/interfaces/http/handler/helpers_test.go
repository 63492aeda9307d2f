package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/interfaces/http/dto"
	"github.com/evcare/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var (
	advisor    = identity.Caller{UserID: uuid.MustParse("7f1c8a4e-0000-4000-8000-000000000001"), Role: identity.RoleAdvisor}
	technician = identity.Caller{UserID: uuid.MustParse("7f1c8a4e-0000-4000-8000-000000000002"), Role: identity.RoleTechnician}
)

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// newEngine mounts h under /api/v1. The caller is taken from the X-Test-Role
// header so each request can act as a different identity, or none.
func newEngine(h registrar) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1", func(c *gin.Context) {
		switch c.GetHeader("X-Test-Role") {
		case "advisor":
			middleware.SetCaller(c, advisor)
		case "technician":
			middleware.SetCaller(c, technician)
		}
		c.Next()
	})
	h.RegisterRoutes(api)
	return r
}

type call struct {
	method string
	path   string
	body   any
	role   string
}

func (tc call) do(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch b := tc.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(tc.method, tc.path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.RequestIDHeader, "test-req")
	if tc.role != "" {
		req.Header.Set("X-Test-Role", tc.role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// decodeData unmarshals the data field of the envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}
