package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NavigatorID identifies one of the two dispatch-tracking lanes.
type NavigatorID int

const (
	Navigator1 NavigatorID = 1
	Navigator2 NavigatorID = 2
)

// Navigators lists every valid navigator in display order.
var Navigators = []NavigatorID{Navigator1, Navigator2}

// Valid reports whether n is 1 or 2.
func (n NavigatorID) Valid() bool {
	return n == Navigator1 || n == Navigator2
}

// TableKey returns the persistence key holding this navigator's entries.
func (n NavigatorID) TableKey() string {
	return fmt.Sprintf("savedTable_%d", int(n))
}

// ParseNavigatorID parses "1" or "2".
func ParseNavigatorID(s string) (NavigatorID, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid navigator %q: %w", s, err)
	}
	n := NavigatorID(v)
	if !n.Valid() {
		return 0, fmt.Errorf("invalid navigator %q: must be 1 or 2", s)
	}
	return n, nil
}

// MarshalJSON writes the id as a string, the shape stored by the web client.
func (n NavigatorID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(n)))
}

// UnmarshalJSON accepts both "1" and 1.
func (n *NavigatorID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("navigatorNum: %w", err)
		}
		*n = NavigatorID(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("navigatorNum: %w", err)
	}
	*n = NavigatorID(v)
	return nil
}
