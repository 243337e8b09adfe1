package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sushaki-system/internal/gateway/middleware"
	"sushaki-system/internal/ledger"
	"sushaki-system/internal/models"
)

// Printing two copies with a settle delay plus the ledger rewrite has to
// finish inside this window.
const orderTimeout = 30 * time.Second

type OrderHTTPHandler struct {
	ledger *ledger.Ledger
	logger *logrus.Logger
	now    func() time.Time
}

func NewOrderHTTPHandler(l *ledger.Ledger, logger *logrus.Logger) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		ledger: l,
		logger: logger,
		now:    time.Now,
	}
}

type ReprintRequest struct {
	OrderNumber models.OrderNumber `json:"order_number" binding:"required"`
}

func statusError(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

// CreateOrder accepts an order, prints its ticket copies and records it.
// Validation failures are rejected before any ledger or print side effect.
func (h *OrderHTTPHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, statusError("Invalid order data"))
		return
	}
	if err := order.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, statusError(err.Error()))
		return
	}
	if order.Number == "" {
		// Timestamp-derived display number, matching what the frontend
		// shows for orders it numbered itself.
		order.Number = models.OrderNumber(strconv.FormatInt(h.now().Unix()%10000, 10))
	}

	ctx, cancel := context.WithTimeout(context.Background(), orderTimeout)
	defer cancel()

	status, err := h.ledger.Record(ctx, order)
	if err != nil {
		h.requestLog(c, order.Number, "create_order").WithError(err).Error("failed to record order")
		c.JSON(http.StatusInternalServerError, statusError("Failed to process order"))
		return
	}

	h.requestLog(c, order.Number, "create_order").
		WithField("printed_status", status).
		Info("order accepted")
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"order_number": order.Number,
	})
}

// TodaysOrders lists the current day's reprintable orders, most recent
// first.
func (h *OrderHTTPHandler) TodaysOrders(c *gin.Context) {
	listings, err := h.ledger.TodaysOrders()
	if err != nil {
		h.requestLog(c, "", "todays_orders").WithError(err).Error("failed to read ledger")
		c.JSON(http.StatusInternalServerError, statusError("Failed to read today's orders"))
		return
	}
	c.JSON(http.StatusOK, listings)
}

// ReprintOrder re-prints a recorded order from its canonical stored form.
func (h *OrderHTTPHandler) ReprintOrder(c *gin.Context) {
	var req ReprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, statusError("order_number is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), orderTimeout)
	defer cancel()

	_, err := h.ledger.Reprint(ctx, req.OrderNumber.String())
	switch {
	case err == nil:
		h.requestLog(c, req.OrderNumber, "reprint_order").Info("order reprinted")
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, statusError("Order not found for today"))
	case errors.Is(err, ledger.ErrCorruptItems):
		h.requestLog(c, req.OrderNumber, "reprint_order").WithError(err).Error("corrupted item data")
		c.JSON(http.StatusInternalServerError, statusError("corrupted item data"))
	default:
		h.requestLog(c, req.OrderNumber, "reprint_order").WithError(err).Error("reprint failed")
		c.JSON(http.StatusInternalServerError, statusError("Failed to reprint order"))
	}
}

// DailyTotal reports the day's takings as a derived query over the ledger
// rows; nothing stored can drift.
func (h *OrderHTTPHandler) DailyTotal(c *gin.Context) {
	total, err := h.ledger.DailyTotal()
	if err != nil {
		h.requestLog(c, "", "daily_total").WithError(err).Error("failed to read ledger")
		c.JSON(http.StatusInternalServerError, statusError("Failed to compute daily total"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  h.now().Format("2006-01-02"),
		"total": total.StringFixed(2),
	})
}

func (h *OrderHTTPHandler) requestLog(c *gin.Context, orderNumber models.OrderNumber, operation string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"request_id":   c.GetString(middleware.RequestIDKey),
		"order_number": orderNumber.String(),
		"operation":    operation,
	})
}
