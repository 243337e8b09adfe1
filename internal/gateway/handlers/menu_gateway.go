package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sushaki-system/internal/menu"
)

// MenuHTTPHandler passes the menu document between the frontend and its
// file store without interpreting it.
type MenuHTTPHandler struct {
	store  *menu.Store
	logger *logrus.Logger
}

func NewMenuHTTPHandler(store *menu.Store, logger *logrus.Logger) *MenuHTTPHandler {
	return &MenuHTTPHandler{store: store, logger: logger}
}

func (h *MenuHTTPHandler) GetMenu(c *gin.Context) {
	doc, err := h.store.Load()
	if err != nil {
		h.logger.WithField("operation", "get_menu").WithError(err).Error("failed to load menu")
		c.JSON(http.StatusInternalServerError, statusError("Failed to load menu"))
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}

func (h *MenuHTTPHandler) SaveMenu(c *gin.Context) {
	doc, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, statusError("Failed to read request body"))
		return
	}
	if err := h.store.Save(doc); err != nil {
		h.logger.WithField("operation", "save_menu").WithError(err).Error("failed to save menu")
		if errors.Is(err, menu.ErrInvalidJSON) {
			c.JSON(http.StatusBadRequest, statusError("Invalid menu data"))
			return
		}
		c.JSON(http.StatusInternalServerError, statusError("Failed to save menu"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
