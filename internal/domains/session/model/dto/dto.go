package dto

import (
	"atelier/internal/domains/session/model"
	"atelier/shared"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	"atelier/shared/timezone"
)

type SessionResponse struct {
	ID         string  `json:"id"`
	CourseID   *string `json:"course_id,omitempty"`
	CourseName *string `json:"course_name,omitempty"`
	Category   *string `json:"category,omitempty"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at"`
	Capacity   int     `json:"capacity"`
	Occupancy  int     `json:"occupancy"`
	Available  int     `json:"available"`
	gDto.Metadata
}

func (r *SessionResponse) FromModel(mod model.Session) {
	r.ID = mod.ID
	r.CourseID = mod.CourseID
	r.CourseName = mod.CourseName
	r.Category = mod.Category
	r.StartsAt = timezone.Format(mod.StartsAt, constant.DateFormat)
	r.EndsAt = timezone.Format(mod.EndsAt, constant.DateFormat)
	r.Capacity = mod.Capacity
	r.Occupancy = mod.Occupancy

	r.Available = mod.Capacity - mod.Occupancy
	if r.Available < 0 {
		r.Available = 0
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetSessionsResponse struct {
	Sessions  []SessionResponse `json:"sessions"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetSessionsResponse) FromModels(models []model.Session, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Sessions = make([]SessionResponse, len(models))
	for i, mod := range models {
		r.Sessions[i].FromModel(mod)
	}
}
