package api

import (
	"net/http"
	"strconv"

	"slot-engine/internal/domain/schedule"
	reqdto "slot-engine/internal/handler/dto/request"
	resdto "slot-engine/internal/handler/dto/response"
	"slot-engine/internal/handler/httperr"
	"slot-engine/internal/handler/middleware"
	"slot-engine/internal/usecase/commands"
	"slot-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	cmds      commands.SlotCommands
	generator commands.GeneratorCommands
	q         queries.SlotQueries
}

func NewSlotHandler(cmds commands.SlotCommands, generator commands.GeneratorCommands, q queries.SlotQueries) *SlotHandler {
	return &SlotHandler{cmds: cmds, generator: generator, q: q}
}

// @Summary List slots
// @Description List upcoming slots. Expired holds are shown as available.
// @Tags slots
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Param category query string false "deportes, estetica or profesionales"
// @Param status query string false "available, holding, reserved or blocked"
// @Param resource_id query string false "Field, service, beauty center or professional ID"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 50)"
// @Success 200 {object} resdto.SlotPageResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	var query reqdto.ListSlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	page, err := h.q.ListSlots(c.Request.Context(), filter)
	if err != nil {
		abortWithUseCaseError(c, err, "List slots failed")
		return
	}
	res, err := resdto.FromSlotPage(page)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Week summary
// @Description Slots of the Monday-based week containing date, grouped by day with per-status counts
// @Tags slots
// @Produce json
// @Param date query string false "Any day of the week (YYYY-MM-DD, default today)"
// @Param category query string false "deportes, estetica or profesionales"
// @Param status query string false "available, holding, reserved or blocked"
// @Param resource_id query string false "Resource ID"
// @Success 200 {object} resdto.WeekResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /slots/week [get]
func (h *SlotHandler) Week(c *gin.Context) {
	var query reqdto.ListSlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	var day schedule.Date
	if filter.Date != nil {
		day = *filter.Date
		filter.Date = nil
	}
	week, err := h.q.WeekSummary(c.Request.Context(), day, filter)
	if err != nil {
		abortWithUseCaseError(c, err, "Week summary failed")
		return
	}
	res, err := resdto.FromWeekView(week)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Get slot
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.q.GetSlot(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err, "Slot not found")
		return
	}
	res, err := resdto.FromSlotView(*view)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Hold slot
// @Description Place a temporary hold on an available slot
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /slots/{id}/hold [post]
func (h *SlotHandler) Hold(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.cmds.PlaceHold(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err, "Hold failed")
		return
	}
	res, err := resdto.FromSlot(s)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Create slot
// @Description Create a single slot. Service-bound resources take their end from the service duration.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Create slot request"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithUseCaseError(c, err, "Invalid resource")
		return
	}
	s, err := h.cmds.CreateSlot(c.Request.Context(), middleware.GetScope(c), in)
	if err != nil {
		abortWithUseCaseError(c, err, "Create slot failed")
		return
	}
	c.Header("Location", "/api/slots/"+s.ID().String())
	res, err := resdto.FromSlot(s)
	respondJSON(c, http.StatusCreated, res, err)
}

// @Summary Confirm slot
// @Description Confirm a held slot and issue its reservation code
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/slots/{id}/confirm [post]
func (h *SlotHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.cmds.Confirm(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		abortWithUseCaseError(c, err, "Confirm failed")
		return
	}
	res, err := resdto.FromConfirmed(s)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Release slot
// @Description Return a held or reserved slot to available. Blocked slots need allow_blocked.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param allow_blocked query bool false "Reopen a blocked slot"
// @Success 200 {object} resdto.SlotResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/slots/{id}/release [post]
func (h *SlotHandler) Release(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var opts commands.ReleaseOptions
	if v := c.Query("allow_blocked"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid allow_blocked", nil)
			return
		}
		opts.AllowBlocked = allow
	}
	s, err := h.cmds.Release(c.Request.Context(), middleware.GetScope(c), id, opts)
	if err != nil {
		abortWithUseCaseError(c, err, "Release failed")
		return
	}
	res, err := resdto.FromSlot(s)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Block slot
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/slots/{id}/block [post]
func (h *SlotHandler) Block(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.cmds.Block(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		abortWithUseCaseError(c, err, "Block failed")
		return
	}
	res, err := resdto.FromSlot(s)
	respondJSON(c, http.StatusOK, res, err)
}

// @Summary Generate slots
// @Description Expand a recurring daily window into slots. Candidates overlapping existing slots are skipped.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GenerateRequest true "Generate request"
// @Success 200 {object} resdto.GenerateResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/generate [post]
func (h *SlotHandler) Generate(c *gin.Context) {
	var req reqdto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithUseCaseError(c, err, "Invalid resource")
		return
	}
	result, err := h.generator.GenerateBulk(c.Request.Context(), middleware.GetScope(c), in)
	if err != nil {
		abortWithUseCaseError(c, err, "Generate failed")
		return
	}
	c.JSON(http.StatusOK, resdto.GenerateResponse{Created: result.Created, Skipped: result.Skipped})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
