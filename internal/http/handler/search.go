package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// SearchDocuments is the keyword/tag search path. Unlike plain listing it
// matches descriptions too, and each executed search lands in the
// principal's history.
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}
		page, limit, err := parsePageLimit(c)
		if err != nil {
			return err
		}

		res, svcErr := svc.Search(c.UserContext(), p, service.SearchQuery{
			Page:    page,
			Limit:   limit,
			Keyword: c.Query("keyword"),
			Tags:    c.Query("tags"),
		})
		if svcErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// HotTags returns the tag-frequency ranking over public documents.
func HotTags(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := principalOr401(c); err != nil {
			return err
		}
		limit, convErr := strconv.Atoi(c.Query("limit", "20"))
		if convErr != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		tags, svcErr := svc.HotTags(c.UserContext(), limit)
		if svcErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(tags)
	}
}

// GetSearchHistory returns the principal's recent distinct searches.
func GetSearchHistory(svc service.SearchHistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}
		limit, convErr := strconv.Atoi(c.Query("limit", "10"))
		if convErr != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		items, svcErr := svc.Recent(c.UserContext(), p, limit)
		if svcErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// DeleteSearchHistoryEntry removes one history entry owned by the
// principal. Foreign entries are reported as not found, not forbidden.
func DeleteSearchHistoryEntry(svc service.SearchHistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}
		id, convErr := strconv.ParseInt(c.Params("id"), 10, 64)
		if convErr != nil || id <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		n, svcErr := svc.DeleteEntry(c.UserContext(), p, id)
		if svcErr != nil {
			if errors.Is(svcErr, service.ErrHistoryNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "search history entry not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"deleted_count": n})
	}
}

type deleteHistoryRequest struct {
	Keyword string `json:"keyword"`
	Tags    string `json:"tags"`
}

// DeleteSearchHistoryMatching removes the principal's entries matching the
// given keyword and/or tags exactly.
func DeleteSearchHistoryMatching(svc service.SearchHistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}

		var req deleteHistoryRequest
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		n, svcErr := svc.DeleteMatching(c.UserContext(), p, req.Keyword, req.Tags)
		if svcErr != nil {
			if errors.Is(svcErr, service.ErrEmptyCriteria) {
				return writeError(c, fiber.StatusBadRequest, "EMPTY_CRITERIA", "keyword or tags required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"deleted_count": n})
	}
}

// ClearSearchHistory removes the principal's entire history.
func ClearSearchHistory(svc service.SearchHistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalOr401(c)
		if err != nil {
			return err
		}

		n, svcErr := svc.Clear(c.UserContext(), p)
		if svcErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"deleted_count": n})
	}
}
