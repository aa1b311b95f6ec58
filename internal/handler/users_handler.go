package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-app/content-service/internal/services"
)

type UsersHandler struct {
	users    *services.UsersService
	accounts *services.AccountService
}

func NewUsersHandler(users *services.UsersService, accounts *services.AccountService) *UsersHandler {
	return &UsersHandler{users: users, accounts: accounts}
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Privacy  *bool   `json:"privacy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req.Username, req.Email, req.Privacy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString("user_id")
	accountID := c.GetString("account_id")

	if err := h.accounts.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "account deleted"})
}
