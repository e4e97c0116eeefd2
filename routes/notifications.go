package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
)

// GetUserNotifications returns the caller's notifications, newest first.
func GetUserNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(notifications)
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Notification not found", ctx)
		return
	}

	if err := storage.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}
