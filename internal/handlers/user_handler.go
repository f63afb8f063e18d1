package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService user.UserService
	logger      *Logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService user.UserService, logger *Logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Create handles user creation
// @Summary Create a user
// @Description Create a user profile whose alias and prompt personalize its devices
// @Tags Users
// @Accept json
// @Produce json
// @Param request body user.CreateUserRequest true "User data"
// @Success 201 {object} UserResponse "User created"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.userError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{User: *u})
}

// Get handles user retrieval
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse "User profile"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.userError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// UpdateAIAlias renames the assistant for a user
// @Summary Update assistant alias
// @Description The new alias is used from the next turn of every device owned by the user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body user.UpdateAIAliasRequest true "New alias"
// @Success 200 {object} UserResponse "Updated user"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{id}/ai-alias [put]
func (h *UserHandler) UpdateAIAlias(c *gin.Context) {
	var req user.UpdateAIAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.userService.UpdateAIAlias(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.userError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// UpdateCustomPrompt sets the user's prompt text or template
// @Summary Update custom prompt
// @Description Sets the custom prompt, the prompt template, or both. Placeholders {ai_alias}, {user_name} and {location} are filled per turn.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body user.UpdateCustomPromptRequest true "Prompt fields"
// @Success 200 {object} UserResponse "Updated user"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{id}/custom-prompt [put]
func (h *UserHandler) UpdateCustomPrompt(c *gin.Context) {
	var req user.UpdateCustomPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.userService.UpdateCustomPrompt(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.userError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: *u})
}

func (h *UserHandler) userError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	case errors.Is(err, user.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Nothing to update"})
	default:
		h.logger.Errorf("user request error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
