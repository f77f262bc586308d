package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

const maxImageBytes = 5 << 20

// IssuesHandler exposes issue reporting and administration.
type IssuesHandler struct {
	issues    *service.IssueService
	validator *dto.Validator
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issues *service.IssueService, validator *dto.Validator) *IssuesHandler {
	return &IssuesHandler{issues: issues, validator: validator}
}

// List handles GET /api/issues.
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	var q dto.IssueListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	list, err := h.issues.ListIssues(c.UserContext(), callerID(c), q.ToFilter())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", list)
}

// Stats handles GET /api/issues/stats.
func (h *IssuesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.issues.GetIssueStats(c.UserContext(), callerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", stats)
}

// Get handles GET /api/issues/:id.
func (h *IssuesHandler) Get(c *fiber.Ctx) error {
	issue, err := h.issues.GetIssue(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", fiber.Map{"issue": issue})
}

// Create handles POST /api/issues. It accepts JSON, or multipart form fields with
// an optional "image" file part.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	upload, err := readImage(c)
	if err != nil {
		return err
	}

	issue, err := h.issues.CreateIssue(c.UserContext(), callerID(c), req.ToInput(upload))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Issue reported successfully", fiber.Map{"issue": issue})
}

// Update handles PUT /api/issues/:id.
func (h *IssuesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateIssueRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	issue, err := h.issues.UpdateIssue(c.UserContext(), c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Issue updated successfully", fiber.Map{"issue": issue})
}

// Delete handles DELETE /api/issues/:id.
func (h *IssuesHandler) Delete(c *fiber.Ctx) error {
	if err := h.issues.DeleteIssue(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Issue deleted successfully", nil)
}

// UpdateStatus handles PATCH /api/issues/:id/status.
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	issue, err := h.issues.UpdateStatus(c.UserContext(), callerID(c), c.Params("id"), domain.IssueStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Issue status updated successfully", fiber.Map{"issue": issue})
}

// Assign handles PATCH /api/issues/:id/assign.
func (h *IssuesHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignIssueRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	issue, err := h.issues.AssignIssue(c.UserContext(), callerID(c), c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Issue assigned successfully", fiber.Map{"issue": issue})
}

// AddComment handles POST /api/issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	var req dto.AddCommentRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	issue, err := h.issues.AddComment(c.UserContext(), callerID(c), c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Comment added successfully", fiber.Map{"issue": issue})
}

func readImage(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	header, err := c.FormFile("image")
	if err != nil {
		// no file part
		return nil, nil
	}
	if header.Size > maxImageBytes {
		return nil, apperrors.NewValidationError("image too large", map[string]any{"image": "must be at most 5MB"})
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return data, nil
}
