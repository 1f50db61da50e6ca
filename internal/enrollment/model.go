package enrollment

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	Status     Status
	EnrolledAt time.Time
}
