package model

import "time"

// InfectionThreshold is the number of reports after which a survivor is
// considered infected.
const InfectionThreshold = 3

// Location is a survivor's last known position in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Distance in meters from the requesting survivor (listings only).
	Distance *float64 `json:"distance"`
}

// Survivor is a tracked person with their location, reports and inventory.
type Survivor struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Age              int               `json:"age"`
	Gender           string            `json:"gender"`
	LastLocation     *Location         `json:"last_location"`
	InfectionReports []InfectionReport `json:"infection_reports"`
	Inventory        Inventory         `json:"inventory"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Infected reports whether the survivor has reached the infection threshold.
func (s *Survivor) Infected() bool {
	return len(s.InfectionReports) >= InfectionThreshold
}

// InfectionReport is one survivor's claim that another is infected.
type InfectionReport struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporter_id,omitempty"`
	ReportedID string    `json:"reported_id"`
	CreatedAt  time.Time `json:"created_at"`
}
