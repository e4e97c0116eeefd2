package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tech-rehalm/deby/routes"
	"github.com/tech-rehalm/deby/services"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()
	routes.Drafts = services.NewRedisDraftStore(storage.Redis)
	routes.Payments = services.NewPayPalClient()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUser)
	}

	unit := app.Party("/api/unit")
	{
		unit.Get("/", routes.GetUnits)
		unit.Get("/{id}", routes.GetUnit)
		unit.Put("/{id}/availability", accessTokenVerifierMiddleware, utils.StaffOrAdminMiddleware, routes.SetUnitAvailability)
		unit.Patch("/{id}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.PatchUnit)
		unit.Post("/expire-taken", routes.ExpireTakenUnits)
	}

	booking := app.Party("/api/booking")
	{
		booking.Get("/draft", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetBookingDraft)
		booking.Patch("/draft", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SetBookingDraft)
		booking.Delete("/draft", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ClearBookingDraft)
		booking.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
		booking.Get("/user/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserBookings)
		booking.Get("/{id}", accessTokenVerifierMiddleware, routes.GetBooking)
	}

	order := app.Party("/api/order")
	{
		order.Post("/{id}", accessTokenVerifierMiddleware, routes.CreatePaymentOrder)
		order.Post("/{id}/capture", accessTokenVerifierMiddleware, routes.CapturePaymentOrder)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserNotifications)
		notifications.Patch("/{id}/read", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkNotificationRead)
	}

	// Staff can read the back-office surfaces; mutations stay admin only.
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware)
	{
		admin.Get("/users", utils.StaffOrAdminMiddleware, routes.AdminListUsers)
		admin.Get("/users/{id:uint}", utils.StaffOrAdminMiddleware, routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/role", utils.AdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Get("/bookings", utils.StaffOrAdminMiddleware, routes.AdminListBookings)
		admin.Get("/bookings/{id:uint}", utils.StaffOrAdminMiddleware, routes.AdminGetBooking)
		admin.Patch("/bookings/{id:uint}/status", utils.AdminOnlyMiddleware, routes.AdminUpdateBookingStatus)
		admin.Delete("/bookings/{id:uint}", utils.AdminOnlyMiddleware, routes.AdminDeleteBooking)
		admin.Post("/units", utils.AdminOnlyMiddleware, routes.AdminCreateUnit)
		admin.Delete("/units/{id:uint}", utils.AdminOnlyMiddleware, routes.AdminDeleteUnit)
		admin.Post("/upload/image", utils.AdminOnlyMiddleware, routes.UploadImage)
		admin.Get("/stats", utils.StaffOrAdminMiddleware, routes.AdminStats)
		admin.Get("/activity", utils.StaffOrAdminMiddleware, routes.AdminActivity)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
