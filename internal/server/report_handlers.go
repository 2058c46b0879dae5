package server

import (
	"memoria/internal/models"
	"memoria/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports.
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req service.CreateReportInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.Create(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/reports?status=&type= (admin only).
func (s *Server) GetReports(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	reports, err := s.reportService.List(c.Context(), currentUserID(c),
		c.Query("status"), c.Query("type"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// GetPendingReportCount handles GET /api/reports/pending-count (admin only).
func (s *Server) GetPendingReportCount(c *fiber.Ctx) error {
	count, err := s.reportService.PendingCount(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"pending": count})
}

// GetReport handles GET /api/reports/:id (admin only).
func (s *Server) GetReport(c *fiber.Ctx) error {
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	report, err := s.reportService.Get(c.Context(), currentUserID(c), reportID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(report)
}

// ReviewReport handles POST /api/reports/:id/review (admin only).
func (s *Server) ReviewReport(c *fiber.Ctx) error {
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.ReviewReportInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.Review(c.Context(), currentUserID(c), reportID, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(report)
}
