package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
)

type CreateUnitInput struct {
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"required"`
	Number      int    `json:"number" validate:"required,gte=1"`
	Field       string `json:"field" validate:"required,oneof=Rooms Conference Venue Gazebo"`
	Category    string `json:"category" validate:"required,oneof=Medium Large"`
}

// POST /admin/units
func AdminCreateUnit(ctx iris.Context) {
	var input CreateUnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	unit := models.Unit{
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		Number:      input.Number,
		Field:       input.Field,
		Category:    input.Category,
	}
	if err := storage.DB.Create(&unit).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "unit.create", "unit", unit.ID, nil, unit)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": unit})
}

// DELETE /admin/units/:id
func AdminDeleteUnit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "unit not found")
		return
	}

	var active int64
	storage.DB.Model(&models.Booking{}).Where("unit_id = ? AND status <> ?", unit.ID, models.StatusCancelled).Count(&active)
	if active > 0 {
		utils.JSONError(ctx, http.StatusConflict, "unit_in_use", "unit has active bookings")
		return
	}

	if err := storage.DB.Delete(&unit).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	if unit.Image != "" {
		go storage.DeleteImage(unit.Image)
	}

	utils.Audit(ctx, "unit.delete", "unit", unit.ID, unit, nil)
	ctx.JSON(iris.Map{"data": iris.Map{"deleted": true}})
}
