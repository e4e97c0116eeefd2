package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tech-rehalm/deby/utils"
)

// buildBookingTestApp creates a minimal Iris app with the booking routes and
// JWT verifier
func buildBookingTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	booking := app.Party("/api/booking")
	{
		booking.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateBooking)
	}

	unit := app.Party("/api/unit")
	{
		unit.Patch("/{id}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, PatchUnit)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

// signBookingTestToken returns a signed JWT with the given role
func signBookingTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func TestCreateBookingRequiresToken(t *testing.T) {
	app := buildBookingTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected failure without token, got %d", resp.Code)
	}
}

func TestCreateBookingRejectsMissingFields(t *testing.T) {
	app := buildBookingTestApp()

	// Missing everything but the unit reference: must fail validation and
	// never reach the database.
	body := `{"unitID": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signBookingTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", resp.Code)
	}
}

func TestCreateBookingRejectsReversedDates(t *testing.T) {
	app := buildBookingTestApp()

	body := `{
		"unitID": 1,
		"guest": {"fullName": "A Guest", "age": 30, "address": "1 Test Lane", "phone": "555-0100"},
		"checkIn": "2025-04-05T00:00:00Z",
		"checkOut": "2025-04-01T00:00:00Z",
		"numOfPeople": 2,
		"paymentMethod": "PayPal"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signBookingTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for checkOut before checkIn, got %d", resp.Code)
	}
}

func TestPatchUnitRBAC(t *testing.T) {
	app := buildBookingTestApp()

	// Non-admin role -> 403 before the handler runs
	req := httptest.NewRequest(http.MethodPatch, "/api/unit/1", strings.NewReader(`{"title":"New"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signBookingTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}
}
