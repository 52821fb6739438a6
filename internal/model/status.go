package model

// Status tags a SimulationOutput as a success or an error result.
// Keep these values stable; clients match on them.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

func (s Status) IsError() bool {
	return s == StatusError
}
