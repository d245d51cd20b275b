package http

import (
	"github.com/brightnest/cleaning-booking-backend/internal/availability"
)

const dateLayout = "2006-01-02"

// SlotsRequest defines query parameters for GET /availability.
type SlotsRequest struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	Date      string `form:"date" binding:"required,datetime=2006-01-02"`
}

// DatesRequest defines query parameters for GET /availability/dates.
type DatesRequest struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	From      string `form:"from" binding:"required,datetime=2006-01-02"`
	Days      int    `form:"days,default=14" binding:"omitempty,min=1,max=31"`
}

type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// SlotsResponse lists bookable start times. Consecutive slots are 30 minutes
// apart regardless of duration, so slots of long services overlap one another;
// each one is individually bookable.
type SlotsResponse struct {
	ServiceID   string         `json:"serviceId"`
	ServiceName string         `json:"serviceName"`
	Duration    int            `json:"duration"`
	Date        string         `json:"date"`
	Slots       []SlotResponse `json:"slots"`
}

func NewSlotsResponse(d *availability.DaySlots) SlotsResponse {
	slots := make([]SlotResponse, len(d.Slots))
	for i, s := range d.Slots {
		slots[i] = SlotResponse{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Available: s.Available,
		}
	}
	return SlotsResponse{
		ServiceID:   d.Service.ID,
		ServiceName: d.Service.Name,
		Duration:    d.Service.DurationMinutes,
		Date:        d.Date.Format(dateLayout),
		Slots:       slots,
	}
}

type DateCountResponse struct {
	Date      string `json:"date"`
	SlotCount int    `json:"slotCount"`
}

func NewDateCountResponses(counts []availability.DayCount) []DateCountResponse {
	items := make([]DateCountResponse, len(counts))
	for i, dc := range counts {
		items[i] = DateCountResponse{
			Date:      dc.Date.Format(dateLayout),
			SlotCount: dc.SlotCount,
		}
	}
	return items
}
