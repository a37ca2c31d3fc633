package domain

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)
