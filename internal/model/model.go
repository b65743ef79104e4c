package model

import "time"

const (
	StateValid   = "valid"
	StateDeleted = "deleted"
)

type Booking struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Service     string    `json:"service"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM:SS
	State       string    `json:"state"`
	CancelToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type Worker struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	IsValidated       bool       `json:"-"`
	ValidationToken   *string    `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}
