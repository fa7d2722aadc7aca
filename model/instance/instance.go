package instance

import "time"

// Status describes whether an instance currently runs a party.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
)

// Instance is one fixed execution slot. The matcher owns the record and all
// mutation happens under the matcher lock; workers never touch it directly.
type Instance struct {
	ID              int
	Status          Status
	PartiesServed   int
	TotalTimeServed time.Duration
}

// New creates an idle instance with the given id (1..N).
func New(id int) *Instance {
	return &Instance{ID: id, Status: StatusIdle}
}

// Metrics is a value copy of an instance record, safe to hand out from a
// snapshot without exposing the live record.
type Metrics struct {
	ID              int           `json:"id"`
	Status          Status        `json:"status"`
	PartiesServed   int           `json:"partiesServed"`
	TotalTimeServed time.Duration `json:"totalTimeServed"`
}

// Metrics returns a value copy of the record.
func (i *Instance) Metrics() Metrics {
	return Metrics{
		ID:              i.ID,
		Status:          i.Status,
		PartiesServed:   i.PartiesServed,
		TotalTimeServed: i.TotalTimeServed,
	}
}
