package models

import "time"

// SessionRequestStatus is the lifecycle state of a booking request.
// Requests are created pending and are not mutated afterwards.
type SessionRequestStatus string

const SessionRequestPending SessionRequestStatus = "pending"

// SessionRequest is a learner's request for a session with a teacher.
type SessionRequest struct {
	ID            string               `db:"id" json:"id"`
	TeacherID     string               `db:"teacher_id" json:"teacher_id"`
	LearnerID     string               `db:"learner_id" json:"learner_id"`
	LearnerEmail  string               `db:"learner_email" json:"learner_email"`
	RequestedDate string               `db:"requested_date" json:"requested_date"`
	RequestedTime string               `db:"requested_time" json:"requested_time"`
	Topic         string               `db:"topic" json:"topic"`
	Status        SessionRequestStatus `db:"status" json:"status"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
}

// BookSessionRequest is the payload a learner submits to request a
// session.
type BookSessionRequest struct {
	TeacherID     string `json:"teacher_id" validate:"required,uuid4"`
	RequestedDate string `json:"requested_date" validate:"required,datetime=2006-01-02"`
	RequestedTime string `json:"requested_time" validate:"required"`
	Topic         string `json:"topic" validate:"omitempty,max=500"`
}

// Learner is the marker entity created at role selection.
type Learner struct {
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
