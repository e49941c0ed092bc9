package types

import "time"

// ParkingRecord is one row of the parking ledger. A record with Paid=false
// is "open": the vehicle is inside (or owes money). Policy keeps at most
// one open record per plate; the schema does not enforce it.
type ParkingRecord struct {
	ID        int64
	EntryTime time.Time
	ExitTime  *time.Time // set once, by the fee calculation
	Plate     string
	AmountDue int64 // whole RWF
	Paid      bool
}

// DenialIncident is one row of the append-only denial audit trail.
type DenialIncident struct {
	ID         int64
	Plate      string
	DenialTime time.Time
	Reason     string
}
