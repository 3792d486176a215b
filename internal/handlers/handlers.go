package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/model"
	"github.com/Brownie44l1/nutrisense-api/internal/service"
)

const fileField = "file"

// uploadError is a client mistake in the upload, reported verbatim
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string {
	return e.message
}

var (
	errNoFile        = &uploadError{http.StatusBadRequest, "No file provided"}
	errEmptyFilename = &uploadError{http.StatusBadRequest, "Empty filename"}
	errFileTooLarge  = &uploadError{http.StatusRequestEntityTooLarge, "File too large"}
)

// Predictor classifies one uploaded image
type Predictor interface {
	Predict(ctx context.Context, upload service.Upload) (*model.Prediction, error)
}

type Handler struct {
	predictor      Predictor
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(predictor Predictor, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		predictor:      predictor,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Predict handles POST /predict with a multipart "file" field
func (h *Handler) Predict(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	upload, uerr := readUpload(c.Request)
	if uerr != nil {
		respondError(c, uerr.status, uerr.message)
		return
	}

	h.logger.Debug("Received file",
		zap.String("filename", upload.Filename),
		zap.Int("size", len(upload.Data)),
		zap.String("request_id", c.GetString("request_id")),
	)

	result, err := h.predictor.Predict(c.Request.Context(), upload)
	if err != nil {
		h.logger.Error("Prediction failed",
			zap.String("filename", upload.Filename),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// readUpload streams the multipart body and returns the first "file" part
// that carries a filename. A part sent with filename="" is reported as an
// empty filename; a part with no filename parameter at all is not a file.
func readUpload(r *http.Request) (service.Upload, *uploadError) {
	reader, err := r.MultipartReader()
	if err != nil {
		return service.Upload{}, errNoFile
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return service.Upload{}, errNoFile
		}
		if err != nil {
			return service.Upload{}, readError(err)
		}

		if part.FormName() != fileField {
			_ = part.Close()
			continue
		}

		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			_ = part.Close()
			continue
		}
		if _, ok := params["filename"]; !ok {
			_ = part.Close()
			continue
		}
		filename := part.FileName()
		if filename == "" {
			_ = part.Close()
			return service.Upload{}, errEmptyFilename
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return service.Upload{}, readError(err)
		}

		return service.Upload{Filename: filename, Data: data}, nil
	}
}

func readError(err error) *uploadError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errFileTooLarge
	}
	return errNoFile
}
