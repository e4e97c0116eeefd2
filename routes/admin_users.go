package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/models"
	"github.com/tech-rehalm/deby/storage"
	"github.com/tech-rehalm/deby/utils"
	"golang.org/x/exp/slices"
)

var validRoles = []string{"admin", "user", "staff"}

// GET /admin/users
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.User{})

	if search := ctx.URLParamDefault("q", ""); search != "" {
		like := "%" + search + "%"
		q = q.Where("lower(name) LIKE lower(?) OR lower(email) LIKE lower(?)", like, like)
	}
	if role := ctx.URLParamDefault("role", ""); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

// GET /admin/users/:id returns user info + their bookings
func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var bookings []models.Booking
	storage.DB.Preload("Unit").Where("user_id = ?", id).Order("created_at DESC").Limit(50).Find(&bookings)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":     user,
			"bookings": bookings,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// PATCH /admin/users/:id/role { role }
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil || !slices.Contains(validRoles, body.Role) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "role must be admin/user/staff")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.role_change", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}
