package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-app/content-service/internal/services"
)

type MediaHandler struct {
	uploads *services.UploadService
	avatars *services.AvatarService
	feed    *services.FeedService
	users   *services.UsersService
}

func NewMediaHandler(uploads *services.UploadService, avatars *services.AvatarService, feed *services.FeedService, users *services.UsersService) *MediaHandler {
	return &MediaHandler{uploads: uploads, avatars: avatars, feed: feed, users: users}
}

func (h *MediaHandler) UploadPost(c *gin.Context) {
	userID := c.GetString("user_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	description := c.PostForm("description")

	post, err := h.uploads.Upload(
		c.Request.Context(), userID,
		file, header.Size,
		header.Header.Get("Content-Type"),
		header.Filename,
		title, description,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *MediaHandler) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")

	if err := h.uploads.DeletePost(c.Request.Context(), postID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *MediaHandler) GetFeed(c *gin.Context) {
	posts, err := h.feed.ListPublicPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *MediaHandler) GetUserPosts(c *gin.Context) {
	ownerID := c.Param("userId")

	posts, err := h.feed.ListUserPosts(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString("user_id")
	accountID := c.GetString("account_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	user, err := h.avatars.SwapAvatar(
		c.Request.Context(), userID,
		file, header.Size,
		header.Header.Get("Content-Type"),
		header.Filename,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	h.users.InvalidateProfile(c.Request.Context(), accountID)
	c.JSON(http.StatusOK, user)
}

func (h *MediaHandler) DeleteAvatar(c *gin.Context) {
	userID := c.GetString("user_id")
	accountID := c.GetString("account_id")

	if err := h.avatars.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	h.users.InvalidateProfile(c.Request.Context(), accountID)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
