package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/docgate/internal/auth"
	"github.com/geocoder89/docgate/internal/domain/document"
	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/http/handlers"
	"github.com/geocoder89/docgate/internal/ingestion"
	"github.com/geocoder89/docgate/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	registerFn func(ctx context.Context, email, password string) (user.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password)
	}
	return user.User{}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return "", nil
}

type fakeDocs struct {
	getFn func(ctx context.Context, id string) (document.Document, error)
}

func (f *fakeDocs) Create(ctx context.Context, req document.CreateRequest) (document.Document, error) {
	return document.NewFromCreateRequest(req), nil
}

func (f *fakeDocs) List(ctx context.Context) ([]document.Document, error) {
	return []document.Document{}, nil
}

func (f *fakeDocs) Get(ctx context.Context, id string) (document.Document, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return document.Document{ID: id}, nil
}

func (f *fakeDocs) Update(ctx context.Context, id string, req document.UpdateRequest) (document.Document, error) {
	return document.Document{ID: id}, nil
}

func (f *fakeDocs) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeIngestion struct {
	triggerFn func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

func (f *fakeIngestion) Trigger(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return f.triggerFn(ctx, payload)
}

func (f *fakeIngestion) Status(ctx context.Context) ([]ingestion.Record, error) {
	return []ingestion.Record{}, nil
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-123")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorEnvelope(t *testing.T, w *httptest.ResponseRecorder) handlers.APIError {
	t.Helper()

	var resp struct {
		Error handlers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func TestRegister_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "duplicate", err: user.ErrEmailTaken, wantStatus: http.StatusConflict, wantCode: "email_taken"},
		{name: "wrapped duplicate", err: errors.Join(errors.New("insert"), user.ErrEmailTaken), wantStatus: http.StatusConflict, wantCode: "email_taken"},
		{name: "password over bcrypt limit", err: fmt.Errorf("hash password: %w", security.ErrPasswordTooLong), wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "anything else", err: errors.New("db down"), wantStatus: http.StatusUnauthorized, wantCode: "registration_failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeAuth{
				registerFn: func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{}, tc.err
				},
			}, nil)

			r := gin.New()
			r.POST("/auth/register", h.Register)

			w := serve(r, http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1"}`)

			assert.Equal(t, tc.wantStatus, w.Code)
			apiErr := errorEnvelope(t, w)
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, "req-123", apiErr.RequestID)
		})
	}
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "store failure", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeAuth{
				loginFn: func(ctx context.Context, email, password string) (string, error) {
					return "", tc.err
				},
			}, nil)

			r := gin.New()
			r.POST("/auth/login", h.Login)

			w := serve(r, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"x"}`)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestMe_WithoutIdentity(t *testing.T) {
	h := handlers.NewAuthHandler(&fakeAuth{}, nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)

	w := serve(r, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDocumentsGet_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "found", id: uuid.NewString(), wantStatus: http.StatusOK},
		{name: "not found", id: uuid.NewString(), err: document.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "store failure", id: uuid.NewString(), err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
		{name: "invalid id", id: "nope", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewDocumentsHandler(&fakeDocs{
				getFn: func(ctx context.Context, id string) (document.Document, error) {
					if tc.err != nil {
						return document.Document{}, tc.err
					}
					return document.Document{ID: id}, nil
				},
			})

			r := gin.New()
			r.GET("/documents/:id", h.Get)

			w := serve(r, http.MethodGet, "/documents/"+tc.id, "")
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestIngestionTrigger_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "circuit open", err: ingestion.ErrCircuitOpen, wantStatus: http.StatusServiceUnavailable},
		{name: "processor failed", err: ingestion.ErrProcessor, wantStatus: http.StatusBadGateway},
		{name: "store failed", err: errors.New("redis down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewIngestionHandler(&fakeIngestion{
				triggerFn: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
					return nil, tc.err
				},
			}, nil)

			r := gin.New()
			r.POST("/ingestion/trigger", h.Trigger)

			w := serve(r, http.MethodPost, "/ingestion/trigger", `{"payload":{"a":1}}`)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestIngestionTrigger_PassesProcessorResponse(t *testing.T) {
	h := handlers.NewIngestionHandler(&fakeIngestion{
		triggerFn: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`{"job":"42"}`), nil
		},
	}, nil)

	r := gin.New()
	r.POST("/ingestion/trigger", h.Trigger)

	w := serve(r, http.MethodPost, "/ingestion/trigger", `{"payload":[1,2]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"job":"42"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	down := handlers.NewHealthHandler(func(ctx context.Context) error { return errors.New("no db") }, func() string { return "open" })
	up := handlers.NewHealthHandler(nil, nil)

	r := gin.New()
	r.GET("/down", down.Readyz)
	r.GET("/up", up.Readyz)

	w := serve(r, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"ingestion":"open"`)

	w = serve(r, http.MethodGet, "/up", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
