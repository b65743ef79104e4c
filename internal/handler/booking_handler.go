package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salon-booking-api/internal/booking"
	"salon-booking-api/internal/middleware"
	"salon-booking-api/internal/model"
)

func (h *Handler) CreateBooking(c *gin.Context) {
	var in booking.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), in)
	if err != nil {
		var ve *booking.ValidationError
		switch {
		case errors.As(err, &ve):
			msg := "Missing required booking fields."
			if ve.Reason != "" {
				msg = "Invalid " + ve.Field + ": " + ve.Reason + "."
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		case errors.Is(err, booking.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Slot unavailable. Please pick a time at least 2 hours from existing bookings."})
		default:
			h.logger.Error("create booking", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		}
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.bookings.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	if list == nil {
		list = []model.Booking{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found."})
			return
		}
		h.logger.Error("get booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, b)
}

// WorkerCancelBooking soft-deletes on behalf of staff. Cancelling an
// already-cancelled booking still reports success.
func (h *Handler) WorkerCancelBooking(c *gin.Context) {
	id := c.Param("id")
	if err := h.bookings.CancelByWorker(c.Request.Context(), id); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found."})
			return
		}
		h.logger.Error("worker cancel booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	h.logger.Info("worker cancelled booking",
		zap.String("booking_id", id),
		zap.String("worker_id", middleware.Worker(c).WorkerID),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled."})
}

func (h *Handler) CancelBookingByToken(c *gin.Context) {
	if err := h.bookings.CancelByToken(c.Request.Context(), c.Param("token")); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found."})
			return
		}
		h.logger.Error("cancel booking by token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled."})
}
