package server

import (
	"memoria/internal/models"
	"memoria/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCommunities handles GET /api/communities. Pass ?include_filtered=true
// to opt into communities flagged as sensitive.
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	includeFiltered := c.QueryBool("include_filtered", false) &&
		s.flags.Enabled("filtered_optin", currentUserID(c))
	p := parsePagination(c, 50)

	communities, err := s.communityService.ListAccessible(
		c.Context(), currentUserID(c), includeFiltered, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

// GetMyCommunities handles GET /api/communities/mine. Honors the same
// ?include_filtered=true opt-in as the main listing.
func (s *Server) GetMyCommunities(c *fiber.Ctx) error {
	includeFiltered := c.QueryBool("include_filtered", false) &&
		s.flags.Enabled("filtered_optin", currentUserID(c))
	communities, err := s.communityService.ListMine(c.Context(), currentUserID(c), includeFiltered)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

// GetBlockedCommunities handles GET /api/communities/blocked.
func (s *Server) GetBlockedCommunities(c *fiber.Ctx) error {
	communities, err := s.communityService.ListBlocked(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

// CreateCommunity handles POST /api/communities.
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.Create(c.Context(), service.CreateCommunityInput{
		OwnerID:     currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

// DeleteCommunity handles DELETE /api/communities/:id.
func (s *Server) DeleteCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.communityService.Delete(c.Context(), currentUserID(c), communityID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Community deleted"})
}

// BlockCommunityPersonal handles POST /api/communities/:id/block.
func (s *Server) BlockCommunityPersonal(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	msg, err := s.communityService.Block(c.Context(), currentUserID(c), communityID, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// UnblockCommunityPersonal handles POST /api/communities/:id/unblock.
func (s *Server) UnblockCommunityPersonal(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	msg, err := s.communityService.Unblock(c.Context(), currentUserID(c), communityID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// GetCommunityPosts handles GET /api/communities/:id/posts.
func (s *Server) GetCommunityPosts(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	posts, err := s.communityService.Posts(
		c.Context(), currentUserID(c), communityID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreateCommunityPost handles POST /api/communities/:id/posts.
func (s *Server) CreateCommunityPost(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.communityService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:    currentUserID(c),
		CommunityID: communityID,
		Content:     req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ToggleLikePost handles POST /api/communities/:id/posts/:postId/like.
func (s *Server) ToggleLikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	liked, count, err := s.communityService.ToggleLike(c.Context(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked":       liked,
		"likes_count": count,
	})
}

// GetPostComments handles GET /api/communities/:id/posts/:postId/comments.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 100)

	comments, err := s.postRepo.ListComments(c.Context(), postID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreatePostComment handles POST /api/communities/:id/posts/:postId/comments.
func (s *Server) CreatePostComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.communityService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteCommunityPost handles DELETE /api/communities/:id/posts/:postId.
func (s *Server) DeleteCommunityPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.communityService.DeletePost(c.Context(), currentUserID(c), postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// DeletePostComment handles DELETE /api/comments/:id.
func (s *Server) DeletePostComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.communityService.DeleteComment(c.Context(), currentUserID(c), commentID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
