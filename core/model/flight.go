package model

// FlightStatus tracks the lifecycle of a flight as reported by the scoring
// API. Passenger counts on a SCHEDULED flight are forecasts; CHECKED_IN
// reveals the true counts.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightCheckedIn FlightStatus = "CHECKED_IN"
	FlightDeparted  FlightStatus = "DEPARTED"
	FlightLanded    FlightStatus = "LANDED"
	FlightCancelled FlightStatus = "CANCELLED"
)

// Flight is the planner's view of one scheduled rotation. Flights become
// known incrementally; aircraft and passenger data may still be forecasts.
type Flight struct {
	ID           string
	Number       string
	Origin       string // airport code
	Destination  string // airport code
	AircraftType string // aircraft type code, may be empty until assigned

	DepartureHour int // absolute simulated hour
	ArrivalHour   int // absolute simulated hour
	DistanceKM    float64

	Passengers KitQuantities // per-class demand
	Status     FlightStatus
}

// FlightEvent is one update delivered by the API collaborator each round.
// The embedded data supersedes anything previously known about the flight.
type FlightEvent struct {
	EventType     FlightStatus  `json:"eventType"`
	FlightID      string        `json:"flightId"`
	FlightNumber  string        `json:"flightNumber"`
	Origin        string        `json:"sourceAirport"`
	Destination   string        `json:"destAirport"`
	AircraftType  string        `json:"aircraftType"`
	DepartureHour int           `json:"departureHour"`
	ArrivalHour   int           `json:"arrivalHour"`
	DistanceKM    float64       `json:"distance"`
	Passengers    KitQuantities `json:"passengers"`
}

// Flight converts the event into the planner's flight record.
func (e FlightEvent) Flight() Flight {
	return Flight{
		ID:            e.FlightID,
		Number:        e.FlightNumber,
		Origin:        e.Origin,
		Destination:   e.Destination,
		AircraftType:  e.AircraftType,
		DepartureHour: e.DepartureHour,
		ArrivalHour:   e.ArrivalHour,
		DistanceKM:    e.DistanceKM,
		Passengers:    e.Passengers,
		Status:        e.EventType,
	}
}
