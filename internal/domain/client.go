package domain

import "time"

// Client is a registered vehicle owner, identified by tax id (NIT).
type Client struct {
	ID        string
	NIT       string
	Name      string
	Plate     string
	CreatedAt time.Time
}
