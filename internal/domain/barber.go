package domain

import "time"

type Barber struct {
	ID           int64     `json:"id"`
	BarbershopID int64     `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

type Client struct {
	ID           int64     `json:"id"`
	BarbershopID int64     `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}
