package domain

import "time"

// SiteSetting is a singleton-by-convention configuration row. The oldest row
// wins; it is lazily created accepting orders on first read.
type SiteSetting struct {
	ID              string
	AcceptingOrders bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
