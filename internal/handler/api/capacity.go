package api

import (
	"net/http"

	"slot-engine/internal/domain/schedule"
	reqdto "slot-engine/internal/handler/dto/request"
	resdto "slot-engine/internal/handler/dto/response"
	"slot-engine/internal/handler/httperr"
	"slot-engine/internal/usecase/commands"
	"slot-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CapacityHandler struct {
	cmds commands.DayBookingCommands
	q    queries.CapacityQueries
}

func NewCapacityHandler(cmds commands.DayBookingCommands, q queries.CapacityQueries) *CapacityHandler {
	return &CapacityHandler{cmds: cmds, q: q}
}

// @Summary Book a day
// @Description Take one unit of a per-day professional's capacity
// @Tags professionals
// @Accept json
// @Produce json
// @Param id path string true "Professional ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param request body reqdto.BookDayRequest true "Booking request"
// @Success 201 {object} resdto.DayAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /professionals/{id}/days/{date}/book [post]
func (h *CapacityHandler) Book(c *gin.Context) {
	professionalID, ok := pathID(c)
	if !ok {
		return
	}
	day, err := schedule.ParseDate(c.Param("date"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date", nil)
		return
	}
	var req reqdto.BookDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	d, err := h.cmds.BookDay(c.Request.Context(), professionalID, day, req.Email)
	if err != nil {
		abortWithUseCaseError(c, err, "Booking failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromDailyAvailability(d))
}

// @Summary Day calendar
// @Description Capacity and remaining bookings per day, both ends inclusive, at most 31 days
// @Tags professionals
// @Produce json
// @Param id path string true "Professional ID"
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} resdto.DayCalendarResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /professionals/{id}/days [get]
func (h *CapacityHandler) Calendar(c *gin.Context) {
	professionalID, ok := pathID(c)
	if !ok {
		return
	}
	var query reqdto.DayCalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	from, err := schedule.ParseDate(query.From)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from", nil)
		return
	}
	to, err := schedule.ParseDate(query.To)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to", nil)
		return
	}
	view, err := h.q.DayCalendar(c.Request.Context(), professionalID, from, to)
	if err != nil {
		abortWithUseCaseError(c, err, "Calendar failed")
		return
	}
	res, err := resdto.FromDayCalendar(view)
	respondJSON(c, http.StatusOK, res, err)
}
