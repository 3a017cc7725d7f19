package domain

import "time"

// Member is the optional profile attached 1:1 to a User.
type Member struct {
	ID                int64
	UserID            int64
	Name              string
	Address           string
	UnitCollege       string
	Designation       string
	Chapter           string
	DateOfAppointment time.Time
	DateOfBirth       time.Time
	ContactNumber     string
	Email             string
	IsActive          bool
	UPStatus          string // "in" unless the member has left
	PhotoPath         *string
	SignaturePath     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const DefaultUPStatus = "in"
