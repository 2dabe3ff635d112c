package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/mervekc/flight-booking/internal/service/booking"
	"github.com/mervekc/flight-booking/internal/service/payment"
)

type BookingHandler struct {
	bookings booking.BookingUseCase
	payments payment.PaymentUseCase
}

func NewBookingHandler(bookings booking.BookingUseCase, payments payment.PaymentUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.listMine)
	router.GET("/:id", h.detail)
	router.DELETE("/:id", h.cancel)
	router.PUT("/:id/baggage", h.selectAncillary(domain.AncillaryBaggage))
	router.PUT("/:id/meal", h.selectAncillary(domain.AncillaryMeal))
	router.PUT("/:id/seat", h.selectAncillary(domain.AncillarySeat))
	router.POST("/:id/pay", h.pay)
}

type selectionResponse struct {
	OptionID   int64   `json:"option_id"`
	PriceCents int64   `json:"price_cents"`
	SeatNumber *string `json:"seat_number,omitempty"`
}

type bookingResponse struct {
	ID         int64              `json:"id"`
	FlightID   int64              `json:"flight_id"`
	FareTypeID int64              `json:"fare_type_id"`
	Status     string             `json:"status"`
	TotalCents int64              `json:"total_cents"`
	CreatedAt  string             `json:"created_at"`
	Baggage    *selectionResponse `json:"baggage,omitempty"`
	Meal       *selectionResponse `json:"meal,omitempty"`
	Seat       *selectionResponse `json:"seat,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:         b.ID,
		FlightID:   b.FlightID,
		FareTypeID: b.FareTypeID,
		Status:     string(b.Status),
		TotalCents: b.TotalCents,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
	resp.Baggage = toSelectionResponse(b.Baggage)
	resp.Meal = toSelectionResponse(b.Meal)
	resp.Seat = toSelectionResponse(b.Seat)
	return resp
}

func toSelectionResponse(s *domain.AncillarySelection) *selectionResponse {
	if s == nil {
		return nil
	}
	return &selectionResponse{OptionID: s.OptionID, PriceCents: s.PriceCents, SeatNumber: s.SeatNumber}
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.bookings.CreateBooking(c.Request.Context(), CallerEmail(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	list, err := h.bookings.ListMyBookings(c.Request.Context(), CallerEmail(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) detail(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.bookings.GetBookingDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.bookings.CancelBooking(c.Request.Context(), CallerEmail(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type selectAncillaryRequest struct {
	OptionID   int64  `json:"option_id"`
	SeatNumber string `json:"seat_number"`
}

// selectAncillary serves all three ancillary routes with the kind baked in.
func (h *BookingHandler) selectAncillary(kind domain.AncillaryKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingID(c)
		if !ok {
			return
		}
		var req selectAncillaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.bookings.SelectAncillary(c.Request.Context(), id, kind, req.OptionID, req.SeatNumber); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *BookingHandler) pay(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	result, err := h.payments.Pay(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
