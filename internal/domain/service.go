package domain

type Service struct {
	ID              int64  `json:"id"`
	BarbershopID    int64  `json:"-"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int32  `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
	IsActive        bool   `json:"isActive"`
	Version         int32  `json:"-"`
}
