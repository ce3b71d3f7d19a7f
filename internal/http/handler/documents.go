package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

// principalOr401 fetches the principal resolved by the middleware. Routes
// are registered behind middleware.Principal(), so a miss here means a
// wiring mistake rather than a user error; it still fails closed.
func principalOr401(c *fiber.Ctx) (model.Principal, error) {
	p, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return model.Principal{}, writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}
	return p, nil
}

// parsePageLimit reads page/limit query values. Non-integer input is
// rejected per field; non-positive integers are clamped downstream.
func parsePageLimit(c *fiber.Ctx) (page, limit int, err error) {
	page, convErr := strconv.Atoi(c.Query("page", "1"))
	if convErr != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
	}
	limit, convErr = strconv.Atoi(c.Query("limit", "10"))
	if convErr != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	return page, limit, nil
}

func parseDocumentID(c *fiber.Ctx) (int64, error) {
	id, convErr := strconv.ParseInt(c.Params("id"), 10, 64)
	if convErr != nil || id <= 0 {
		return 0, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// HealthCheck reports readiness: DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListDocuments returns the principal's visibility-scoped document page.
// Query: page, limit, search (title keyword), tags (comma-separated).
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}
		page, limit, err := parsePageLimit(c)
		if err != nil {
			return err
		}

		res, svcErr := svc.List(c.UserContext(), p, service.ListQuery{
			Page:  page,
			Limit: limit,
			Title: c.Query("search"),
			Tags:  c.Query("tags"),
		})
		if svcErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// UploadDocument accepts multipart/form-data: file plus title, description,
// tags and is_public fields.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}

		fh, fhErr := c.FormFile("file")
		if fhErr != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, openErr := fh.Open()
		if openErr != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		isPublic, _ := strconv.ParseBool(c.FormValue("is_public", "false"))

		doc, svcErr := svc.Upload(c.UserContext(), p, service.UploadInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Tags:        c.FormValue("tags"),
			IsPublic:    isPublic,
			FileName:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		}, f)
		if svcErr != nil {
			if errors.Is(svcErr, service.ErrTitleRequired) {
				return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title must not be empty")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// DownloadDocument streams the blob with the original file name suggested,
// never the internal storage key.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}
		id, err := parseDocumentID(c)
		if err != nil {
			return err
		}

		dl, svcErr := svc.Download(c.UserContext(), p, id)
		if svcErr != nil {
			switch {
			case errors.Is(svcErr, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			case errors.Is(svcErr, service.ErrForbidden):
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed to download this document")
			case errors.Is(svcErr, service.ErrFileMissing):
				return writeError(c, fiber.StatusNotFound, "FILE_MISSING", "file content is missing")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+dl.FileName+`"`)
		c.Set(fiber.HeaderContentType, dl.MimeType)
		return c.SendStream(dl.Content, int(dl.Size))
	}
}

// DeleteDocument removes the record and its blob.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}
		id, err := parseDocumentID(c)
		if err != nil {
			return err
		}

		if svcErr := svc.Delete(c.UserContext(), p, id); svcErr != nil {
			switch {
			case errors.Is(svcErr, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			case errors.Is(svcErr, service.ErrForbidden):
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed to delete this document")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
