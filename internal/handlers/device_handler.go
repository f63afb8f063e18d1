package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

// DeviceHandler registers devices; a device id is also its session key
type DeviceHandler struct {
	userService user.UserService
	logger      *Logger.Logger
}

func NewDeviceHandler(userService user.UserService, logger *Logger.Logger) *DeviceHandler {
	return &DeviceHandler{userService: userService, logger: logger}
}

// Register handles device registration
// @Summary Register a device
// @Description Registers a device, optionally linked to a user whose profile personalizes the prompt
// @Tags Devices
// @Accept json
// @Produce json
// @Param request body user.CreateDeviceRequest true "Device data"
// @Success 201 {object} DeviceResponse "Device registered"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "Owner not found"
// @Failure 409 {object} ErrorResponse "Device already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /devices [post]
func (h *DeviceHandler) Register(c *gin.Context) {
	var req user.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	d, err := h.userService.RegisterDevice(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDeviceAlreadyExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Device already exists"})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		default:
			h.logger.Errorf("device registration error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, DeviceResponse{Device: *d})
}

// Get handles device retrieval
// @Summary Get a device
// @Tags Devices
// @Produce json
// @Param deviceId path string true "Device ID"
// @Success 200 {object} DeviceResponse "Device"
// @Failure 404 {object} ErrorResponse "Device not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /devices/{deviceId} [get]
func (h *DeviceHandler) Get(c *gin.Context) {
	d, err := h.userService.GetDevice(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		if errors.Is(err, user.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Device not found"})
			return
		}
		h.logger.Errorf("device lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, DeviceResponse{Device: *d})
}
