package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const uploadField = "image"

// readUpload stores the optional file of a multipart request through store.
// It returns a nil asset when the request carries no file.
func readUpload(c echo.Context, store media.Store) (*media.Asset, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	fh, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, badRequest("Invalid file upload")
	}

	kind := media.KindFromContentType(fh.Header.Get(echo.HeaderContentType))
	if err := media.CheckFormat(fh.Filename, kind); err != nil {
		return nil, badRequest("Unsupported file format")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, serverError(err)
	}
	defer src.Close()

	asset, err := store.Upload(c.Request().Context(), src, fh.Size, fh.Filename, kind)
	if err != nil {
		if errors.Is(err, media.ErrDisabled) {
			return nil, badRequest("Media uploads are disabled")
		}
		return nil, serverError(err)
	}
	return asset, nil
}

// discardUpload removes an uploaded asset whose record could not be stored.
// Failures are only logged.
func discardUpload(c echo.Context, store media.Store, logger logrus.FieldLogger, asset *media.Asset) {
	if asset == nil {
		return
	}
	if err := store.Delete(c.Request().Context(), asset.PublicID, asset.Kind); err != nil {
		logger.WithError(err).WithField("asset", asset.PublicID).Warn("failed to discard orphaned upload")
	}
}
