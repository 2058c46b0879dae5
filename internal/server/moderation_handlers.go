package server

import (
	"memoria/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminBlockCommunity handles POST /api/admin/communities/:id/block.
func (s *Server) AdminBlockCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.BlockCommunity(c.Context(), currentUserID(c), communityID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminUnblockCommunity handles POST /api/admin/communities/:id/unblock.
func (s *Server) AdminUnblockCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.UnblockCommunity(c.Context(), currentUserID(c), communityID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminFilterCommunity handles POST /api/admin/communities/:id/filter.
func (s *Server) AdminFilterCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	msg, err := s.moderationService.FilterCommunity(c.Context(), currentUserID(c), communityID, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminUnfilterCommunity handles POST /api/admin/communities/:id/unfilter.
func (s *Server) AdminUnfilterCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.UnfilterCommunity(c.Context(), currentUserID(c), communityID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminHidePost handles POST /api/admin/posts/:id/hide.
func (s *Server) AdminHidePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.HidePost(c.Context(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminUnhidePost handles POST /api/admin/posts/:id/unhide.
func (s *Server) AdminUnhidePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.UnhidePost(c.Context(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminBanUser handles POST /api/admin/users/:id/ban.
func (s *Server) AdminBanUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.BanUser(c.Context(), currentUserID(c), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminUnbanUser handles POST /api/admin/users/:id/unban.
func (s *Server) AdminUnbanUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.UnbanUser(c.Context(), currentUserID(c), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminMuteUser handles POST /api/admin/users/:id/mute. Body fields days and
// reason are optional; days defaults to one.
func (s *Server) AdminMuteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Days   int    `json:"days"`
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	msg, err := s.moderationService.MuteUser(c.Context(), currentUserID(c), userID, req.Days, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AdminUnmuteUser handles POST /api/admin/users/:id/unmute.
func (s *Server) AdminUnmuteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.moderationService.UnmuteUser(c.Context(), currentUserID(c), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// AppealMute handles POST /api/moderation/appeal.
func (s *Server) AppealMute(c *fiber.Ctx) error {
	if !s.flags.Enabled("mute_appeals", currentUserID(c)) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Mute appeals are not available"))
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.moderationService.AppealMute(c.Context(), currentUserID(c), req.Message); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Appeal submitted, an administrator will review it"})
}
