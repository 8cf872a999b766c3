package handler

import (
	"errors"
	"mime/multipart"
	"net/url"
	"strconv"

	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"
	ucupload "skillbridge/internal/usecase/upload"

	"github.com/gofiber/fiber/v3"
)

const placeholderMessage = "(using placeholder in development)"

type UploadHandler struct {
	uc usecase.UploadUsecase
}

func NewUploadHandler(uc usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware already.
func (h *UploadHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/image", h.Image)
	r.Post("/document", h.Document)
	r.Post("/multiple", h.Multiple)
	r.Delete("/*", h.Delete)
}

func (h *UploadHandler) Image(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return middleware.BadRequest("No image file provided", err)
	}
	f, closeFn, err := openUpload(fh)
	if err != nil {
		return middleware.Internal(err)
	}
	defer closeFn()

	res, err := h.uc.UploadImage(c.Context(), userID, f)
	if err != nil {
		return mapUploadUsecaseError(err)
	}

	msg := "Image uploaded successfully"
	if res.Placeholder {
		msg = "Image upload configured " + placeholderMessage
	}
	return response.Success(c, fiber.StatusOK, msg, res)
}

func (h *UploadHandler) Document(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("document")
	if err != nil {
		return middleware.BadRequest("No document file provided", err)
	}
	f, closeFn, err := openUpload(fh)
	if err != nil {
		return middleware.Internal(err)
	}
	defer closeFn()

	res, err := h.uc.UploadDocument(c.Context(), userID, f)
	if err != nil {
		return mapUploadUsecaseError(err)
	}

	msg := "Document uploaded successfully"
	if res.Placeholder {
		msg = "Document upload configured " + placeholderMessage
	}
	return response.Success(c, fiber.StatusOK, msg, res)
}

func (h *UploadHandler) Multiple(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return middleware.BadRequest("No files provided", err)
	}
	headers := form.File["files"]
	if len(headers) > ucupload.MaxFiles {
		return mapUploadUsecaseError(ucupload.ErrTooManyFiles)
	}

	files := make([]*ucupload.File, 0, len(headers))
	for _, fh := range headers {
		f, closeFn, err := openUpload(fh)
		if err != nil {
			return middleware.Internal(err)
		}
		defer closeFn()
		files = append(files, f)
	}

	res, err := h.uc.UploadMultiple(c.Context(), userID, files)
	if err != nil {
		return mapUploadUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, pluralFiles(len(res.Successful))+" uploaded successfully", res)
}

func (h *UploadHandler) Delete(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return middleware.BadRequest("Invalid filename", err)
	}

	deleted, err := h.uc.Delete(c.Context(), userID, key)
	if err != nil {
		return mapUploadUsecaseError(err)
	}
	if !deleted {
		return response.Success(c, fiber.StatusOK, "File deletion configured "+placeholderMessage, nil)
	}
	return response.Success(c, fiber.StatusOK, "File deleted successfully", nil)
}

func openUpload(fh *multipart.FileHeader) (*ucupload.File, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	f := &ucupload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        src,
	}
	return f, func() { _ = src.Close() }, nil
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return strconv.Itoa(n) + " files"
}

func mapUploadUsecaseError(err error) error {
	switch {
	case errors.Is(err, ucupload.ErrNoFile):
		return middleware.BadRequest("No file provided", err)
	case errors.Is(err, ucupload.ErrInvalidType):
		return middleware.BadRequest("Invalid file type. Only images and documents are allowed.", err)
	case errors.Is(err, ucupload.ErrTooLarge):
		return middleware.BadRequest("File too large. Maximum size is 10MB.", err)
	case errors.Is(err, ucupload.ErrTooManyFiles):
		return middleware.BadRequest("Too many files. Maximum is 5 files.", err)
	case errors.Is(err, ucupload.ErrNotOwner):
		return middleware.Forbidden("Not authorized to delete this file", err)
	default:
		return mapCommonError(err)
	}
}
