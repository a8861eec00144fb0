// Package domain holds plain data shared by the access plane and the
// signaling plane. No transport or storage logic lives here.
package domain

import "time"

// Tenant is the identity of a third-party application embedding the
// platform. It owns rooms and is a bearer-credential holder for
// server-to-server calls (grant issuance).
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
