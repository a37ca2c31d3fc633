package domain

import "time"

type Barbershop struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"` // subject of the hosted-backend token that created the tenant
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// Location falls back to UTC when the stored timezone is unknown to the host.
func (b *Barbershop) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
