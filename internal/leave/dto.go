package leave

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

type ApplyLeaveDTO struct {
	LeaveType string `json:"leave_type"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Reason    string `json:"reason"`
}

// Parse validates the payload and returns the parsed date range.
func (dto ApplyLeaveDTO) Parse() (from, to time.Time, err error) {
	if dto.LeaveType == "" {
		return from, to, errors.New("leave type is required")
	}
	from, err = time.Parse(dateLayout, dto.FromDate)
	if err != nil {
		return from, to, errors.New("from_date must be YYYY-MM-DD")
	}
	to, err = time.Parse(dateLayout, dto.ToDate)
	if err != nil {
		return from, to, errors.New("to_date must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return from, to, errors.New("to_date must not be before from_date")
	}
	return from, to, nil
}

type RejectDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectDTO) Validate() error {
	if dto.Reason == "" {
		return errors.New("rejection reason is required")
	}
	return nil
}

type ListFilter struct {
	EmployeeID int64
	Department string
	Status     string
	Limit      int
	Offset     int
}
