package routes

import (
	"errors"
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/services"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errUnitTaken     = errors.New("unit is not available")
	errDatesConflict = errors.New("dates overlap an existing booking")
	errUnitMissing   = errors.New("unit not found")
	errNoRateForStay = errors.New("no rate for this unit")
)

type GuestDetailsInput struct {
	FullName string `json:"fullName" validate:"required"`
	Age      int    `json:"age" validate:"required,gte=16,lte=120"`
	Address  string `json:"address" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type CreateBookingInput struct {
	UnitID          uint              `json:"unitID" validate:"required"`
	Guest           GuestDetailsInput `json:"guest" validate:"required"`
	CheckIn         time.Time         `json:"checkIn" validate:"required"`
	CheckOut        time.Time         `json:"checkOut" validate:"required"`
	NumOfPeople     int               `json:"numOfPeople" validate:"required,gte=1,lte=100"`
	PaymentMethod   string            `json:"paymentMethod" validate:"required"`
	SpecialRequests string            `json:"specialRequests"`
}

// CreateBooking persists a booking and marks the unit taken in one
// transaction. The unit row is locked for the duration so two simultaneous
// submissions cannot both see it free; overlapping non-cancelled bookings
// are rejected with a conflict.
func CreateBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.CheckOut.Before(input.CheckIn) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must not be before checkIn", ctx)
		return
	}

	days := services.StayDays(input.CheckIn, input.CheckOut)

	var booking models.Booking
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&unit, input.UnitID).Error; err != nil {
			return errUnitMissing
		}

		// A stale taken flag reads as free once availableAfter has passed.
		if unit.Taken && unit.AvailableAfter != nil && time.Now().After(*unit.AvailableAfter) {
			unit.Taken = false
			unit.AvailableAfter = nil
		}
		if unit.Taken {
			return errUnitTaken
		}

		totalPrice, err := services.Quote(unit.Field, unit.Category, days)
		if err != nil {
			return errNoRateForStay
		}

		var conflicts int64
		tx.Model(&models.Booking{}).
			Where("unit_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
				unit.ID, models.StatusCancelled, input.CheckOut, input.CheckIn).
			Count(&conflicts)
		if conflicts > 0 {
			return errDatesConflict
		}

		booking = models.Booking{
			UserID: claims.ID,
			Guest: models.GuestDetails{
				FullName: input.Guest.FullName,
				Age:      input.Guest.Age,
				Address:  input.Guest.Address,
				Phone:    utils.NormalizePhoneNumber(input.Guest.Phone),
			},
			UnitID:          unit.ID,
			Title:           unit.Title,
			Image:           unit.Image,
			CheckIn:         input.CheckIn,
			CheckOut:        input.CheckOut,
			NumOfPeople:     input.NumOfPeople,
			PaymentMethod:   input.PaymentMethod,
			TotalPrice:      totalPrice,
			Status:          models.StatusPending,
			SpecialRequests: input.SpecialRequests,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		checkOut := input.CheckOut
		return tx.Model(&models.Unit{}).Where("id = ?", unit.ID).Updates(map[string]interface{}{
			"taken":           true,
			"available_after": checkOut,
		}).Error
	})

	switch {
	case txErr == nil:
	case errors.Is(txErr, errUnitMissing):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Unit not found", ctx)
		return
	case errors.Is(txErr, errUnitTaken), errors.Is(txErr, errDatesConflict):
		utils.CreateError(iris.StatusConflict, "Conflict", "Selected dates are not available", ctx)
		return
	case errors.Is(txErr, errNoRateForStay):
		utils.CreateError(iris.StatusUnprocessableEntity, "Pricing Error", "No rate is configured for this unit", ctx)
		return
	default:
		utils.CreateInternalServerError(ctx)
		return
	}

	// Reload with relationships for the response
	storage.DB.Preload("Unit").First(&booking, booking.ID)

	notification := models.Notification{
		UserID:  claims.ID,
		Title:   "Booking Received",
		Message: fmt.Sprintf("Your booking for %s from %s to %s is pending payment", booking.Title, booking.CheckIn.Format("Jan 2, 2006"), booking.CheckOut.Format("Jan 2, 2006")),
		Type:    "booking_created",
		RefID:   booking.ID,
		RefType: "booking",
	}
	storage.DB.Create(&notification)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func GetBooking(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var booking models.Booking
	if err := storage.DB.Preload("Unit").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return
	}

	ctx.JSON(booking)
}

func GetUserBookings(ctx iris.Context) {
	userID := ctx.Params().Get("id")

	var bookings []models.Booking
	res := storage.DB.Preload("Unit").Where("user_id = ?", userID).Order("created_at DESC").Find(&bookings)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}
