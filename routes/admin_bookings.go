package routes

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
	"golang.org/x/exp/slices"
)

// GET /admin/bookings
func AdminListBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	userID := ctx.URLParamDefault("user_id", "")
	unitID := ctx.URLParamDefault("unit_id", "")
	dateFrom := ctx.URLParamDefault("date_from", "")
	dateTo := ctx.URLParamDefault("date_to", "")

	q := storage.DB.Model(&models.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if unitID != "" {
		q = q.Where("unit_id = ?", unitID)
	}
	if dateFrom != "" {
		if t, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			q = q.Where("check_in >= ?", t)
		}
	}
	if dateTo != "" {
		if t, err := time.Parse(time.RFC3339, dateTo); err == nil {
			q = q.Where("check_out <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var items []models.Booking
	if err := q.Preload("Unit").Preload("User").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /admin/bookings/:id
func AdminGetBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var booking models.Booking
	if err := storage.DB.Preload("Unit").Preload("User").First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}
	ctx.JSON(iris.Map{"data": booking, "meta": iris.Map{}, "links": iris.Map{}})
}

// PATCH /admin/bookings/:id/status { status }
func AdminUpdateBookingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.ReadJSON(&body); err != nil || !slices.Contains(models.BookingStatuses, body.Status) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status must be pending/paid/cancelled")
		return
	}
	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}

	// paid and cancelled are terminal
	if booking.Status != models.StatusPending && booking.Status != body.Status {
		utils.JSONError(ctx, http.StatusConflict, "invalid_transition", "cannot change a "+booking.Status+" booking")
		return
	}

	before := booking
	booking.Status = body.Status
	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	// Cancelling frees the unit for new bookings
	if booking.Status == models.StatusCancelled {
		storage.DB.Model(&models.Unit{}).Where("id = ? AND taken = ?", booking.UnitID, true).
			Updates(map[string]interface{}{"taken": false, "available_after": nil})
	}

	notification := models.Notification{
		UserID:  booking.UserID,
		Title:   "Booking Status Updated",
		Message: "Your booking for " + booking.Title + " is now " + booking.Status,
		Type:    "booking_status",
		RefID:   booking.ID,
		RefType: "booking",
	}
	storage.DB.Create(&notification)

	utils.Audit(ctx, "booking.status_update", "booking", booking.ID, before, booking)
	ctx.JSON(iris.Map{"data": booking})
}

// DELETE /admin/bookings/:id
func AdminDeleteBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}
	if err := storage.DB.Delete(&booking).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	// A deleted active booking releases its unit
	if booking.Status != models.StatusCancelled {
		storage.DB.Model(&models.Unit{}).Where("id = ? AND taken = ?", booking.UnitID, true).
			Updates(map[string]interface{}{"taken": false, "available_after": nil})
	}

	utils.Audit(ctx, "booking.delete", "booking", booking.ID, booking, nil)
	ctx.JSON(iris.Map{"data": iris.Map{"deleted": true}})
}
