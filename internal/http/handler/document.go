package handler

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lawdocs/internal/config"
	"lawdocs/internal/http/middleware"
	"lawdocs/internal/model"
	"lawdocs/internal/service"
)

// DocumentHandler translates HTTP requests into DocumentService calls.
// It owns request parsing, field validation, and multipart decoding; all
// business rules live in the service.
type DocumentHandler struct {
	svc    service.DocumentService
	policy config.UploadConfig
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(svc service.DocumentService, policy config.UploadConfig) *DocumentHandler {
	return &DocumentHandler{svc: svc, policy: policy}
}

// Upload handles POST /documents/upload (multipart/form-data, field name: file).
// The file is rejected here — before the service runs — when absent or outside
// the size/type policy.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	p, _ := middleware.PrincipalFromCtx(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > h.policy.MaxBytes {
		return writeError(c, fiber.StatusBadRequest, "file exceeds the maximum allowed size")
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	if !typeAllowed(h.policy.AllowedTypes, ct) {
		return writeError(c, fiber.StatusBadRequest, "file type is not allowed")
	}

	req := uploadRequest{
		ClientID:    c.FormValue("client_id"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Priority:    c.FormValue("priority"),
		Tags:        formTags(c),
	}
	if errs := checkRequest(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer f.Close()

	doc, err := h.svc.Upload(c.UserContext(), p.UserID, service.UploadInput{
		ClientID:         req.ClientID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         model.Category(req.Category),
		Priority:         model.Priority(req.Priority),
		Tags:             req.Tags,
		OriginalFilename: fh.Filename,
		ContentType:      ct,
		Size:             fh.Size,
	}, f)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return writeData(c, fiber.StatusCreated, doc)
}

// List handles GET /documents.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	return h.list(c, c.Query("client_id"))
}

// ListByClient handles GET /documents/client/:clientId.
func (h *DocumentHandler) ListByClient(c *fiber.Ctx) error {
	return h.list(c, c.Params("clientId"))
}

func (h *DocumentHandler) list(c *fiber.Ctx, clientID string) error {
	p, _ := middleware.PrincipalFromCtx(c)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return writeValidationErrors(c, []fieldError{{Field: "page", Message: "page must be a number"}})
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return writeValidationErrors(c, []fieldError{{Field: "limit", Message: "limit must be a number"}})
	}

	req := listRequest{
		Page:      page,
		Limit:     limit,
		ClientID:  clientID,
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if errs := checkRequest(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	res, err := h.svc.List(c.UserContext(), p.UserID, service.ListParams{
		ClientID:  req.ClientID,
		Category:  model.Category(req.Category),
		Status:    model.Status(req.Status),
		Priority:  model.Priority(req.Priority),
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		Limit:     req.Limit,
	})
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return writeData(c, fiber.StatusOK, res)
}

// Get handles GET /documents/:id.
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	p, _ := middleware.PrincipalFromCtx(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeValidationErrors(c, []fieldError{{Field: "id", Message: "id must be a valid id"}})
	}
	doc, err := h.svc.Get(c.UserContext(), p.UserID, id)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return writeData(c, fiber.StatusOK, doc)
}

// Download handles GET /documents/:id/download and streams the stored bytes.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	p, _ := middleware.PrincipalFromCtx(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeValidationErrors(c, []fieldError{{Field: "id", Message: "id must be a valid id"}})
	}
	rc, doc, err := h.svc.Download(c.UserContext(), p.UserID, id)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, doc.MimeType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.OriginalFileName))
	return c.SendStream(rc, int(doc.FileSize))
}

// Update handles PUT /documents/:id.
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	p, _ := middleware.PrincipalFromCtx(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeValidationErrors(c, []fieldError{{Field: "id", Message: "id must be a valid id"}})
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := checkRequest(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	doc, err := h.svc.Update(c.UserContext(), p.UserID, id, model.DocumentPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    (*model.Category)(req.Category),
		Status:      (*model.Status)(req.Status),
		Priority:    (*model.Priority)(req.Priority),
		Tags:        req.Tags,
		ReviewNotes: req.ReviewNotes,
	})
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return writeData(c, fiber.StatusOK, doc)
}

// Delete handles DELETE /documents/:id.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	p, _ := middleware.PrincipalFromCtx(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeValidationErrors(c, []fieldError{{Field: "id", Message: "id must be a valid id"}})
	}
	if err := h.svc.Delete(c.UserContext(), p.UserID, id); err != nil {
		return h.mapServiceError(c, err)
	}
	return writeMessage(c, fiber.StatusOK, "document deleted")
}

// Stats handles GET /documents/stats.
func (h *DocumentHandler) Stats(c *fiber.Ctx) error {
	p, _ := middleware.PrincipalFromCtx(c)

	req := statsRequest{ClientID: c.Query("client_id")}
	if errs := checkRequest(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	stats, err := h.svc.Stats(c.UserContext(), p.UserID, req.ClientID)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return writeData(c, fiber.StatusOK, stats)
}

// mapServiceError translates known service error classes into HTTP statuses.
// Unknown errors are logged server-side and answered with a generic message.
func (h *DocumentHandler) mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRelationshipNotFound):
		return writeError(c, fiber.StatusNotFound, "client not found")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "document not found")
	case errors.Is(err, service.ErrFileNotFound):
		return writeError(c, fiber.StatusNotFound, "file not found")
	case service.IsValidation(err):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("request %s failed: %v", requestIDFromCtx(c), err)
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// typeAllowed reports whether ct is in the MIME allow-list.
func typeAllowed(allowed []string, ct string) bool {
	for _, t := range allowed {
		if t == ct {
			return true
		}
	}
	return false
}

// formTags collects the repeated "tags" multipart field, splitting
// comma-separated values so both encodings work.
func formTags(c *fiber.Ctx) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var tags []string
	for _, raw := range form.Value["tags"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
