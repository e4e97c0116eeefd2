package routes

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
)

// normalizeUnitAvailability flips a unit back to free when its
// availableAfter date has elapsed. Re-availability is resolved on read;
// ExpireTakenUnits covers units nobody reads.
func normalizeUnitAvailability(unit *models.Unit) {
	if !unit.Taken || unit.AvailableAfter == nil {
		return
	}
	if time.Now().After(*unit.AvailableAfter) {
		unit.Taken = false
		unit.AvailableAfter = nil
		storage.DB.Model(unit).Select("taken", "available_after").Updates(map[string]interface{}{
			"taken":           false,
			"available_after": nil,
		})
	}
}

func GetUnits(ctx iris.Context) {
	field := ctx.URLParamDefault("field", "")

	q := storage.DB.Model(&models.Unit{})
	if field != "" {
		q = q.Where("field = ?", field)
	}

	var units []models.Unit
	if err := q.Order("field, number").Find(&units).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	for i := range units {
		normalizeUnitAvailability(&units[i])
	}

	ctx.JSON(units)
}

func GetUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Unit not found", ctx)
		return
	}

	normalizeUnitAvailability(&unit)

	ctx.JSON(unit)
}

type SetUnitAvailabilityInput struct {
	Taken          *bool      `json:"taken" validate:"required"`
	AvailableAfter *time.Time `json:"availableAfter"`
}

// SetUnitAvailability marks a unit taken until the given date, or frees it.
func SetUnitAvailability(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input SetUnitAvailabilityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if *input.Taken && input.AvailableAfter == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "availableAfter is required when taken is true", ctx)
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Unit not found", ctx)
		return
	}

	unit.Taken = *input.Taken
	if unit.Taken {
		unit.AvailableAfter = input.AvailableAfter
	} else {
		unit.AvailableAfter = nil
	}

	if err := storage.DB.Model(&unit).Select("taken", "available_after").Updates(map[string]interface{}{
		"taken":           unit.Taken,
		"available_after": unit.AvailableAfter,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(unit)
}

// unitPatchFields is the set of columns admins may merge-update.
var unitPatchFields = map[string]bool{
	"title":          true,
	"description":    true,
	"image":          true,
	"number":         true,
	"field":          true,
	"category":       true,
	"taken":          true,
	"availableAfter": true,
}

var unitPatchColumns = map[string]string{
	"title":          "title",
	"description":    "description",
	"image":          "image",
	"number":         "number",
	"field":          "field",
	"category":       "category",
	"taken":          "taken",
	"availableAfter": "available_after",
}

// PatchUnit merge-updates any subset of unit fields.
func PatchUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var body map[string]interface{}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid payload", ctx)
		return
	}
	if len(body) == 0 {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", "No fields to update", ctx)
		return
	}

	updates := map[string]interface{}{}
	for key, value := range body {
		if !unitPatchFields[key] {
			utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", "unknown field: "+key, ctx)
			return
		}
		updates[unitPatchColumns[key]] = value
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Unit not found", ctx)
		return
	}

	before := unit
	if err := storage.DB.Model(&unit).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.First(&unit, unit.ID)
	utils.Audit(ctx, "unit.patch", "unit", unit.ID, before, unit)
	ctx.JSON(unit)
}

// Cron-like endpoint that frees units whose availableAfter has passed
// (can be called by a scheduler)
func ExpireTakenUnits(ctx iris.Context) {
	storage.DB.Model(&models.Unit{}).
		Where("taken = ? AND available_after IS NOT NULL AND available_after < ?", true, time.Now()).
		Updates(map[string]interface{}{"taken": false, "available_after": nil})
	ctx.JSON(iris.Map{"ok": true})
}
