package routes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/services"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
	"gorm.io/datatypes"
)

// Payments is wired in main; tests swap in a fake processor.
var Payments services.PaymentProcessor

func loadOwnBooking(ctx iris.Context) (*models.Booking, bool) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return nil, false
	}
	if booking.UserID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return nil, false
	}
	return &booking, true
}

// CreatePaymentOrder registers a processor order for a pending booking's
// stored total and records the order id on the booking.
func CreatePaymentOrder(ctx iris.Context) {
	booking, ok := loadOwnBooking(ctx)
	if !ok {
		return
	}

	if booking.Status != models.StatusPending {
		utils.CreateError(iris.StatusConflict, "Conflict", "Booking is not awaiting payment", ctx)
		return
	}

	order, err := Payments.CreateOrder(booking.TotalPrice)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Payment Error", "Payment could not be started. Please try again.", ctx)
		return
	}

	result, _ := json.Marshal(models.PaymentResultData{ID: order.ID, Status: order.Status})
	if err := storage.DB.Model(booking).Update("payment_result", datatypes.JSON(result)).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"orderID":    order.ID,
		"status":     order.Status,
		"approveURL": order.ApproveLink,
		"amount":     services.FormatAmount(booking.TotalPrice),
		"currency":   services.PaymentCurrency,
	})
}

type CaptureOrderInput struct {
	OrderID string `json:"orderID"`
}

// CapturePaymentOrder re-queries the processor for the authoritative capture
// state and transitions pending -> paid only when the captured amount matches
// the stored total. The client's own completion report is never trusted.
func CapturePaymentOrder(ctx iris.Context) {
	booking, ok := loadOwnBooking(ctx)
	if !ok {
		return
	}

	if booking.Status == models.StatusPaid {
		ctx.JSON(booking)
		return
	}
	if booking.Status != models.StatusPending {
		utils.CreateError(iris.StatusConflict, "Conflict", "Booking is not awaiting payment", ctx)
		return
	}

	// The body is optional: without an explicit orderID the order recorded
	// at creation time is used.
	var input CaptureOrderInput
	ctx.ReadJSON(&input)

	orderID := input.OrderID
	if orderID == "" {
		var stored models.PaymentResultData
		if booking.PaymentResult != nil {
			json.Unmarshal(booking.PaymentResult, &stored)
		}
		orderID = stored.ID
	}
	if orderID == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "No payment order for this booking", ctx)
		return
	}

	order, err := Payments.GetOrder(orderID)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Payment Error", "Payment could not be verified. Please try again.", ctx)
		return
	}

	if order.Status != services.OrderStatusCompleted {
		utils.CreateError(iris.StatusConflict, "Payment Incomplete", "Payment has not been captured", ctx)
		return
	}
	if !services.AmountMatches(order.Amount, booking.TotalPrice) {
		utils.CreateError(iris.StatusConflict, "Payment Mismatch", "Captured amount does not match the booking total", ctx)
		return
	}

	now := time.Now()
	result, _ := json.Marshal(models.PaymentResultData{ID: order.ID, Status: order.Status})
	updates := map[string]interface{}{
		"status":         models.StatusPaid,
		"paid_at":        now,
		"payment_result": datatypes.JSON(result),
	}
	if err := storage.DB.Model(booking).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notification := models.Notification{
		UserID:  booking.UserID,
		Title:   "Payment Received",
		Message: fmt.Sprintf("Your payment of $%s for %s has been confirmed", services.FormatAmount(booking.TotalPrice), booking.Title),
		Type:    "booking_status",
		RefID:   booking.ID,
		RefType: "booking",
	}
	storage.DB.Create(&notification)

	storage.DB.First(booking, booking.ID)
	ctx.JSON(booking)
}
