package request

type BookDayRequest struct {
	Email string `json:"email" binding:"required"`
}

// DayCalendarQuery bounds a day calendar, both ends inclusive.
type DayCalendarQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
