package models

// DispatchEntry is one row of a navigator's dispatch history.
// Field names on the wire match the tables written by the web client.
type DispatchEntry struct {
	ID           string      `json:"id,omitempty" msgpack:"id,omitempty"`
	Navigator    NavigatorID `json:"navigatorNum" msgpack:"navigatorNum"`
	SquadNumber  string      `json:"number" msgpack:"number"`
	SquadName    string      `json:"name" msgpack:"name"`
	DistanceKm   float64     `json:"distance" msgpack:"distance"`
	Spots        int         `json:"spots" msgpack:"spots"`
	ExtraMinutes int         `json:"extraTime" msgpack:"extraTime"`
	DispatchTime string      `json:"delivering" msgpack:"delivering"` // HH:MM
	ArrivalTime  string      `json:"arrival" msgpack:"arrival"`       // HH:MM

	// TimeGap is the gap as shown when the entry was logged. Presenters
	// always recompute it from ArrivalTime.
	TimeGap string `json:"timeGap,omitempty" msgpack:"timeGap,omitempty"`
}
