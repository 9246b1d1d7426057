package model

// Park describes one parking site operated by Multipark. Rows live in the
// parks table and are referenced by reservations through ParkID.
type Park struct {
	ID              string // parks.id (short business code, e.g. "LIS-P1")
	Name            string // parks.name
	City            string // parks.city
	Address         string // parks.address
	CapacityTotal   int    // parks.capacity_total
	CapacityCovered int    // parks.capacity_covered
	CapacityOpen    int    // parks.capacity_open
	Active          bool   // parks.active
}
