package models

// TableRow is a presented dispatch entry with its live gap.
// Index is the entry's position in storage, which stays fixed regardless
// of how the view is sorted.
type TableRow struct {
	Index    int           `json:"index" msgpack:"index"`
	Entry    DispatchEntry `json:"entry" msgpack:"entry"`
	Gap      string        `json:"gap" msgpack:"gap"`
	GapMins  int           `json:"gapMinutes" msgpack:"gapMinutes"`
	Overdue  bool          `json:"overdue" msgpack:"overdue"`
	Severity Severity      `json:"severity" msgpack:"severity"`
}

// TableView is the sorted table for one navigator at a point in time.
type TableView struct {
	Navigator  NavigatorID `json:"navigator" msgpack:"navigator"`
	Now        string      `json:"now" msgpack:"now"`
	SortColumn string      `json:"sort,omitempty" msgpack:"sort,omitempty"`
	Descending bool        `json:"descending" msgpack:"descending"`
	Rows       []TableRow  `json:"rows" msgpack:"rows"`
}

// NavigatorSummary reports how many entries a navigator holds.
type NavigatorSummary struct {
	Navigator NavigatorID `json:"navigator"`
	Count     int         `json:"count"`
	Active    bool        `json:"active"`
}

// FormDefaults are the values a client should pre-fill in the dispatch form.
type FormDefaults struct {
	SquadNumber string  `json:"squadNumber"`
	DistanceKm  float64 `json:"distanceKm"`
	SpeedKmh    float64 `json:"speedKmh"`
	StepKm      float64 `json:"stepKm"`
}
