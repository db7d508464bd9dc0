package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/docgate/internal/domain/document"
	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			JSON   string                `json:"json"`
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func bindRouter[T any]() *gin.Engine {
	r := gin.New()
	r.POST("/bind", func(ctx *gin.Context) {
		var req T
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func postBind(t *testing.T, r *gin.Engine, body string) bindErrorResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Error.Code != "invalid_request" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}

	return resp
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	r := bindRouter[user.UpdateRoleRequest]()

	resp := postBind(t, r, `{"userId":"abc","role":"owner"}`)

	wantRules := map[string]string{
		"userId": "uuid",
		"role":   "oneof",
	}

	found := map[string]handlers.FieldError{}
	for _, fieldErr := range resp.Error.Details.Fields {
		found[fieldErr.Field] = fieldErr
	}

	for field, rule := range wantRules {
		fieldErr, ok := found[field]
		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Error.Details.Fields)
		}
		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}
		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSON_BadBodies(t *testing.T) {
	r := bindRouter[document.CreateRequest]()

	tests := []struct {
		name     string
		body     string
		wantJSON string
	}{
		{name: "syntax", body: `{"title":`, wantJSON: "invalid_json_syntax"},
		{name: "type mismatch", body: `{"title":123,"content":"x"}`, wantJSON: "invalid_json_type"},
		{name: "empty", body: ``, wantJSON: "empty_body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := postBind(t, r, tc.body)

			if resp.Error.Details.JSON != tc.wantJSON {
				t.Fatalf("got details.json %q, want %q", resp.Error.Details.JSON, tc.wantJSON)
			}
		})
	}
}
