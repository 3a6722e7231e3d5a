package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, mapping failures onto the validation error kind.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validationf("malformed request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.Validationf("invalid request: %v", err)
	}
	return nil
}

type windowRequest struct {
	IsRecurring bool   `json:"is_recurring"`
	Weekday     *int   `json:"weekday" validate:"omitempty,min=0,max=6"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
}

func (req windowRequest) toParams() (service.WindowParams, error) {
	start, err := model.ParseMinute(req.Start)
	if err != nil {
		return service.WindowParams{}, apperr.Validationf("invalid start time %q", req.Start)
	}
	end, err := model.ParseMinute(req.End)
	if err != nil {
		return service.WindowParams{}, apperr.Validationf("invalid end time %q", req.End)
	}

	params := service.WindowParams{
		IsRecurring: req.IsRecurring,
		StartMinute: start,
		EndMinute:   end,
	}
	if req.IsRecurring {
		if req.Weekday == nil {
			return service.WindowParams{}, apperr.Validationf("recurring window requires a weekday")
		}
		params.Weekday = time.Weekday(*req.Weekday)
	} else {
		if req.Date == "" {
			return service.WindowParams{}, apperr.Validationf("one-off window requires a date")
		}
		date, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			return service.WindowParams{}, apperr.Validationf("invalid date %q", req.Date)
		}
		params.Date = date
	}
	return params, nil
}

type replaceWindowsRequest struct {
	Windows []windowRequest `json:"windows" validate:"required,dive"`
}

type bookCourseRequest struct {
	TeacherID   int64  `json:"teacher_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	CourseType  string `json:"course_type" validate:"required,oneof=online offline"`
	MeetingLink string `json:"meeting_link"`
	Location    string `json:"location"`
	Title       string `json:"title"`
	Notes       string `json:"notes"`
}

type cancelCourseRequest struct {
	Reason string `json:"reason"`
}

type patchCourseRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Reason string `json:"reason"`
}

type attachmentRequest struct {
	Content string `json:"content" validate:"required"`
}

type adminCourseRequest struct {
	StudentID   int64  `json:"student_id" validate:"required"`
	TeacherID   int64  `json:"teacher_id" validate:"required"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	CourseType  string `json:"course_type" validate:"required,oneof=online offline"`
	MeetingLink string `json:"meeting_link"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
}

func (req adminCourseRequest) toParams() (service.AdminCourseParams, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return service.AdminCourseParams{}, apperr.Validationf("invalid start_time %q", req.StartTime)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return service.AdminCourseParams{}, apperr.Validationf("invalid end_time %q", req.EndTime)
	}

	return service.AdminCourseParams{
		StudentID:   req.StudentID,
		TeacherID:   req.TeacherID,
		Title:       req.Title,
		StartTime:   start,
		EndTime:     end,
		Status:      model.CourseStatus(req.Status),
		Type:        model.CourseType(req.CourseType),
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		Notes:       req.Notes,
	}, nil
}

type creditHoursRequest struct {
	Hours float64 `json:"hours" validate:"required,gt=0"`
}

type slotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type dayAvailabilityResponse struct {
	Date  string         `json:"date"`
	Slots []slotResponse `json:"slots"`
}

func toDayAvailabilityResponses(days []model.DayAvailability) []dayAvailabilityResponse {
	out := make([]dayAvailabilityResponse, 0, len(days))
	for _, day := range days {
		resp := dayAvailabilityResponse{Date: day.Date.Format(time.DateOnly)}
		for _, slot := range day.Slots {
			resp.Slots = append(resp.Slots, slotResponse{
				Start: model.FormatMinute(slot.StartMinute),
				End:   model.FormatMinute(slot.EndMinute),
			})
		}
		out = append(out, resp)
	}
	return out
}
