package ingest

import "github.com/multipark/backoffice/internal/model"

// Row order is preserved in every parser: surviving records appear in the
// same order as their source rows, so re-parsing the same file always
// yields the same batch.

const reasonMissingIdentity = "missing license plate or allocation code"
const reasonMissingPlate = "missing license plate"

// ParseReservations converts raw rows into canonical reservation records.
// Rows whose license plate or allocation code coerce to empty are dropped
// and reported in the skipped list instead of producing an error.
func ParseReservations(rows []RawRow) ([]ReservationRow, []SkippedRow) {
	out := make([]ReservationRow, 0, len(rows))
	var skipped []SkippedRow
	for i, row := range rows {
		rec := ReservationRow{
			LicensePlate:     CleanString(resolve(row, licensePlateAliases)),
			AllocationCode:   CleanString(resolve(row, allocationAliases)),
			CustomerName:     CleanString(resolveField(row, reservationAliases, "customer_name")),
			CustomerSurname:  CleanString(resolveField(row, reservationAliases, "customer_surname")),
			CustomerPhone:    CleanString(resolveField(row, reservationAliases, "customer_phone")),
			CustomerEmail:    CleanString(resolveField(row, reservationAliases, "customer_email")),
			CheckinExpected:  ParseDate(resolveField(row, reservationAliases, "checkin_expected")),
			CheckoutExpected: ParseDate(resolveField(row, reservationAliases, "checkout_expected")),
			BookingPrice:     ParseNumber(resolveField(row, reservationAliases, "booking_price")),
			ParkingPrice:     ParseNumber(resolveField(row, reservationAliases, "parking_price")),
			DeliveryPrice:    ParseNumber(resolveField(row, reservationAliases, "delivery_price")),
			TotalPrice:       ParseNumber(resolveField(row, reservationAliases, "total_price")),
			State:            CleanString(resolveField(row, reservationAliases, "state")),
			ParkID:           CleanString(resolveField(row, reservationAliases, "park_id")),
			ParkingType:      CleanString(resolveField(row, reservationAliases, "parking_type")),
			ReturnFlight:     CleanString(resolveField(row, reservationAliases, "return_flight")),
		}
		if rec.State == "" {
			rec.State = model.StateReserved
		}
		if rec.LicensePlate == "" || rec.AllocationCode == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: reasonMissingIdentity})
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

// ParseCashTransactions converts raw rows into canonical till movements.
// Only the license plate is mandatory. TxAt is left nil when the date cell
// is missing or unparseable.
func ParseCashTransactions(rows []RawRow) ([]CashRow, []SkippedRow) {
	out := make([]CashRow, 0, len(rows))
	var skipped []SkippedRow
	for i, row := range rows {
		rec := CashRow{
			LicensePlate:  CleanString(resolve(row, licensePlateAliases)),
			Amount:        ParseNumber(resolveField(row, cashAliases, "amount")),
			PaymentMethod: CleanString(resolveField(row, cashAliases, "payment_method")),
			TxAt:          ParseDate(resolveField(row, cashAliases, "tx_at")),
			Notes:         CleanString(resolveField(row, cashAliases, "notes")),
		}
		if rec.PaymentMethod == "" {
			rec.PaymentMethod = model.PaymentCash
		}
		if rec.LicensePlate == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: reasonMissingPlate})
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

// ParseDeliveries converts raw rows into canonical delivery events.
func ParseDeliveries(rows []RawRow) ([]DeliveryRow, []SkippedRow) {
	out := make([]DeliveryRow, 0, len(rows))
	var skipped []SkippedRow
	for i, row := range rows {
		rec := DeliveryRow{
			LicensePlate:   CleanString(resolve(row, licensePlateAliases)),
			AllocationCode: CleanString(resolve(row, allocationAliases)),
			DeliveredAt:    ParseDate(resolveField(row, deliveryAliases, "delivered_at")),
			Driver:         CleanString(resolveField(row, deliveryAliases, "driver")),
			Notes:          CleanString(resolveField(row, deliveryAliases, "notes")),
		}
		if rec.LicensePlate == "" || rec.AllocationCode == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: reasonMissingIdentity})
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

// ParseCollections converts raw rows into canonical collection (pickup)
// events. Same identity rule as deliveries.
func ParseCollections(rows []RawRow) ([]CollectionRow, []SkippedRow) {
	out := make([]CollectionRow, 0, len(rows))
	var skipped []SkippedRow
	for i, row := range rows {
		rec := CollectionRow{
			LicensePlate:   CleanString(resolve(row, licensePlateAliases)),
			AllocationCode: CleanString(resolve(row, allocationAliases)),
			CollectedAt:    ParseDate(resolveField(row, collectionAliases, "collected_at")),
			Driver:         CleanString(resolveField(row, collectionAliases, "driver")),
			Notes:          CleanString(resolveField(row, collectionAliases, "notes")),
		}
		if rec.LicensePlate == "" || rec.AllocationCode == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: reasonMissingIdentity})
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}
