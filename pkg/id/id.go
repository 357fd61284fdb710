// Package id generates time-sortable identifiers for decisions and journal
// rows.
package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs sort lexicographically by generation
// time, which keeps journal indexes and decision logs naturally ordered.
func New() string {
	return ulid.Make().String()
}
