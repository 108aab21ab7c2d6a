package handlers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/vicdevmanx/gurutasks/internal/application"
)

// formImage pulls an optional uploaded file out of a multipart form.
// Returns (nil, nil, nil) when the field is absent; the caller must close
// the returned file after the service has consumed it.
func formImage(c *gin.Context, field string) (*application.ImageUpload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	img := &application.ImageUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}
	return img, f, nil
}
