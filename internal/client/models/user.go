package models

import "time"

// PlanCode identifies a commercial subscription tier.
type PlanCode string

const (
	PlanPersonal   PlanCode = "personal"
	PlanPro        PlanCode = "pro"
	PlanTeam       PlanCode = "team"
	PlanEnterprise PlanCode = "enterprise"
)

// planIDs maps the billing backend's integer plan ids to plan codes.
var planIDs = map[int64]PlanCode{
	1: PlanPersonal,
	2: PlanPro,
	3: PlanTeam,
	4: PlanEnterprise,
}

// PlanFromID looks up the plan code for a billing plan id. The second return
// is false for unrecognized ids.
func PlanFromID(id int64) (PlanCode, bool) {
	p, ok := planIDs[id]
	return p, ok
}

// Subscription describes an active commercial subscription. All three fields
// are always populated; a User never carries a partial Subscription.
type Subscription struct {
	ID     int64     `json:"id"`
	Plan   PlanCode  `json:"plan"`
	Expiry time.Time `json:"expiry"`
}

// User is the UI-safe projection of the entitlement payload. The zero value
// is the logged-out projection.
type User struct {
	Email        string        `json:"email,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}
