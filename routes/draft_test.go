package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tech-rehalm/deby/services"
	"github.com/tech-rehalm/deby/utils"
)

func buildDraftTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	Drafts = services.NewMemoryDraftStore()

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	booking := app.Party("/api/booking")
	{
		booking.Get("/draft", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, GetBookingDraft)
		booking.Patch("/draft", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, SetBookingDraft)
		booking.Delete("/draft", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, ClearBookingDraft)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func draftRequest(app *iris.Application, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/booking/draft", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signBookingTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestDraftFlow(t *testing.T) {
	app := buildDraftTestApp()

	// Merge two partial updates
	if resp := draftRequest(app, http.MethodPatch, `{"fullName":"A"}`); resp.Code != http.StatusOK {
		t.Fatalf("first patch: expected 200, got %d", resp.Code)
	}
	resp := draftRequest(app, http.MethodPatch, `{"age":"30"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("second patch: expected 200, got %d", resp.Code)
	}

	var draft services.BookingDraft
	if err := json.Unmarshal(resp.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.FullName != "A" || draft.Age != "30" {
		t.Fatalf("merged draft = %+v, want both fullName and age set", draft)
	}

	// Read it back
	resp = draftRequest(app, http.MethodGet, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.FullName != "A" {
		t.Fatalf("draft did not survive navigation, got %+v", draft)
	}

	// Clear resets every field
	if resp := draftRequest(app, http.MethodDelete, ""); resp.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", resp.Code)
	}
	resp = draftRequest(app, http.MethodGet, "")
	if err := json.Unmarshal(resp.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft != (services.BookingDraft{}) {
		t.Fatalf("draft after clear = %+v, want all defaults", draft)
	}
}

func TestDraftRejectsInvalidPayload(t *testing.T) {
	app := buildDraftTestApp()

	if resp := draftRequest(app, http.MethodPatch, `not-json`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", resp.Code)
	}
	if resp := draftRequest(app, http.MethodPatch, ``); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty payload, got %d", resp.Code)
	}
}
