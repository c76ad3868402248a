// Package gameapi is the HTTP client for the scoring server. One session
// spans a full game; each round submits the current hour's decision and
// returns the flight updates the planner learns from.
package gameapi

import "github.com/kilianp07/kitflow/core/model"

// FlightLoad pairs a flight with the kits loaded onto it.
type FlightLoad struct {
	FlightID   string              `json:"flightId"`
	LoadedKits model.KitQuantities `json:"loadedKits"`
}

// PurchaseOrder is one kit order placed this round.
type PurchaseOrder struct {
	KitType  model.KitType `json:"kitType"`
	Quantity int64         `json:"quantity"`
}

// RoundRequest is the payload submitted to the play endpoint.
type RoundRequest struct {
	Day              int             `json:"day"`
	Hour             int             `json:"hour"`
	FlightLoads      []FlightLoad    `json:"flightLoads"`
	PurchasingOrders []PurchaseOrder `json:"purchasingOrders"`
}

// RoundResponse carries the server's reaction to one round.
type RoundResponse struct {
	Day           int                 `json:"day"`
	Hour          int                 `json:"hour"`
	TotalCost     float64             `json:"totalCost"`
	FlightUpdates []model.FlightEvent `json:"flightUpdates"`
}

// NewRoundRequest converts a committed decision into the wire payload.
// Hours on the wire are split into a day and an hour-of-day.
func NewRoundRequest(d model.Decision) RoundRequest {
	req := RoundRequest{
		Day:              d.Hour / 24,
		Hour:             d.Hour % 24,
		FlightLoads:      []FlightLoad{},
		PurchasingOrders: []PurchaseOrder{},
	}
	for id, kits := range d.FlightLoads {
		req.FlightLoads = append(req.FlightLoads, FlightLoad{FlightID: id, LoadedKits: kits})
	}
	for _, kit := range model.AllKitTypes {
		if qty := d.Purchases[kit]; qty > 0 {
			req.PurchasingOrders = append(req.PurchasingOrders, PurchaseOrder{KitType: kit, Quantity: qty})
		}
	}
	return req
}
