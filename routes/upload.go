package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/tech-rehalm/deby/storage"
)

type uploadInput struct {
	Data     string `json:"data"`      // base64 data URL or raw base64
	PublicID string `json:"public_id"` // optional
}

// UploadImage handles base64 image upload to Cloudinary (unit photos)
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	url, err := storage.UploadBase64Image(in.Data, in.PublicID)
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "upload failed"})
		return
	}
	ctx.JSON(iris.Map{"url": url})
}
