package domain

import "time"

// User is a citizen who files complaints, keyed by mobile number.
type User struct {
	ID             int64
	MobileNumber   string
	FullName       string
	RegistryUserID *int64
	CreatedAt      time.Time
}
