package routes

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/storage"
)

// GET /admin/stats, dashboard counters and chart feeds
func AdminStats(ctx iris.Context) {
	var totalUnits, takenUnits int64
	storage.DB.Model(&models.Unit{}).Count(&totalUnits)
	storage.DB.Model(&models.Unit{}).Where("taken = ?", true).Count(&takenUnits)

	var pendingBookings, paidBookings, cancelledBookings int64
	storage.DB.Model(&models.Booking{}).Where("status = ?", models.StatusPending).Count(&pendingBookings)
	storage.DB.Model(&models.Booking{}).Where("status = ?", models.StatusPaid).Count(&paidBookings)
	storage.DB.Model(&models.Booking{}).Where("status = ?", models.StatusCancelled).Count(&cancelledBookings)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newBookings7, newBookings30 int64
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since7).Count(&newBookings7)
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since30).Count(&newBookings30)

	var revenue float64
	storage.DB.Model(&models.Booking{}).Where("status = ?", models.StatusPaid).
		Select("COALESCE(SUM(total_price), 0)").Scan(&revenue)

	var totalUsers int64
	storage.DB.Model(&models.User{}).Count(&totalUsers)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"total_units":        totalUnits,
			"taken_units":        takenUnits,
			"free_units":         totalUnits - takenUnits,
			"pending_bookings":   pendingBookings,
			"paid_bookings":      paidBookings,
			"cancelled_bookings": cancelledBookings,
			"new_bookings_7d":    newBookings7,
			"new_bookings_30d":   newBookings30,
			"revenue_paid":       revenue,
			"total_users":        totalUsers,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
