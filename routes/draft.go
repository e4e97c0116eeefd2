package routes

import (
	"encoding/json"
	"io"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/services"
	"github.com/tech-rehalm/deby/utils"
)

// Drafts is wired in main; tests swap in the in-memory store.
var Drafts services.DraftStore

// GetBookingDraft returns the caller's current draft snapshot (all-defaults
// if none exists).
func GetBookingDraft(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	draft, err := Drafts.Get(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(draft)
}

// SetBookingDraft merges the given partial fields into the caller's draft
// and returns the merged snapshot.
func SetBookingDraft(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil || len(body) == 0 || !json.Valid(body) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid draft payload", ctx)
		return
	}

	draft, err := Drafts.Set(userID, body)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "draft fields could not be merged", ctx)
		return
	}

	ctx.JSON(draft)
}

// ClearBookingDraft resets every draft field to its default.
func ClearBookingDraft(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	if err := Drafts.Clear(userID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(services.BookingDraft{})
}
