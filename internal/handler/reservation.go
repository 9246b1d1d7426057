package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/multipark/backoffice/internal/ingest"
	"github.com/multipark/backoffice/internal/model"
	"github.com/multipark/backoffice/internal/reconcile"
	"github.com/multipark/backoffice/internal/repository"
)

// ReservationHandler exposes the dashboard's reservation listing and the
// single-record upsert used by manual corrections.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Engine       *reconcile.Engine
}

func NewReservationHandler(reservations *repository.ReservationRepo, engine *reconcile.Engine) *ReservationHandler {
	if reservations == nil || engine == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Engine: engine}
}

// reservationView is the JSON shape returned to the dashboard. Nullable
// timestamps render as RFC3339 or null.
type reservationView struct {
	ID               uint64   `json:"id"`
	LicensePlate     string   `json:"license_plate"`
	AllocationCode   string   `json:"allocation_code"`
	CustomerName     string   `json:"customer_name,omitempty"`
	CustomerSurname  string   `json:"customer_surname,omitempty"`
	CustomerPhone    string   `json:"customer_phone,omitempty"`
	CustomerEmail    string   `json:"customer_email,omitempty"`
	CheckinExpected  *string  `json:"checkin_expected"`
	CheckoutExpected *string  `json:"checkout_expected"`
	CheckinReal      *string  `json:"checkin_real"`
	CheckoutReal     *string  `json:"checkout_real"`
	BookingPrice     float64  `json:"booking_price"`
	ParkingPrice     float64  `json:"parking_price"`
	DeliveryPrice    float64  `json:"delivery_price"`
	TotalPrice       float64  `json:"total_price"`
	State            string   `json:"state"`
	ParkID           string   `json:"park_id"`
	ParkingType      string   `json:"parking_type,omitempty"`
	ReturnFlight     string   `json:"return_flight,omitempty"`
	PickupDriver     string   `json:"pickup_driver,omitempty"`
	DeliveryDriver   string   `json:"delivery_driver,omitempty"`
}

func toView(r model.Reservation) reservationView {
	return reservationView{
		ID:               r.ID,
		LicensePlate:     r.LicensePlate,
		AllocationCode:   r.AllocationCode,
		CustomerName:     r.CustomerName,
		CustomerSurname:  r.CustomerSurname,
		CustomerPhone:    r.CustomerPhone,
		CustomerEmail:    r.CustomerEmail,
		CheckinExpected:  isoPtr(r.CheckinExpected),
		CheckoutExpected: isoPtr(r.CheckoutExpected),
		CheckinReal:      isoPtr(r.CheckinReal),
		CheckoutReal:     isoPtr(r.CheckoutReal),
		BookingPrice:     r.BookingPrice,
		ParkingPrice:     r.ParkingPrice,
		DeliveryPrice:    r.DeliveryPrice,
		TotalPrice:       r.TotalPrice,
		State:            r.State,
		ParkID:           r.ParkID,
		ParkingType:      r.ParkingType,
		ReturnFlight:     r.ReturnFlight,
		PickupDriver:     r.PickupDriver,
		DeliveryDriver:   r.DeliveryDriver,
	}
}

func isoPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	iso := t.UTC().Format(time.RFC3339)
	return &iso
}

// List handles GET /v1/reservations. Optional query parameters: park_id,
// state, from and to (YYYY-MM-DD, applied to the expected check-in/out).
func (h *ReservationHandler) List(c echo.Context) error {
	filter := repository.ReservationFilter{
		ParkID: c.QueryParam("park_id"),
		State:  c.QueryParam("state"),
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date, expected YYYY-MM-DD"})
		}
		filter.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date, expected YYYY-MM-DD"})
		}
		filter.To = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.Reservations.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]reservationView, 0, len(list))
	for _, r := range list {
		views = append(views, toView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"count":   len(views),
	})
}

type createReservationReq struct {
	LicensePlate     string  `json:"license_plate"`
	AllocationCode   string  `json:"allocation_code"`
	CustomerName     string  `json:"customer_name"`
	CustomerSurname  string  `json:"customer_surname"`
	CustomerPhone    string  `json:"customer_phone"`
	CustomerEmail    string  `json:"customer_email"`
	CheckinExpected  string  `json:"checkin_expected"`
	CheckoutExpected string  `json:"checkout_expected"`
	BookingPrice     float64 `json:"booking_price"`
	ParkingPrice     float64 `json:"parking_price"`
	DeliveryPrice    float64 `json:"delivery_price"`
	TotalPrice       float64 `json:"total_price"`
	State            string  `json:"state"`
	ParkID           string  `json:"park_id"`
	ParkingType      string  `json:"parking_type"`
	ReturnFlight     string  `json:"return_flight"`
}

// Create handles POST /v1/reservations: a single-record upsert that goes
// through the same reconciliation path as a one-row upload, so manual
// entries obey the same identity and merge rules.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	row := ingest.ReservationRow{
		LicensePlate:     ingest.CleanString(req.LicensePlate),
		AllocationCode:   ingest.CleanString(req.AllocationCode),
		CustomerName:     ingest.CleanString(req.CustomerName),
		CustomerSurname:  ingest.CleanString(req.CustomerSurname),
		CustomerPhone:    ingest.CleanString(req.CustomerPhone),
		CustomerEmail:    ingest.CleanString(req.CustomerEmail),
		CheckinExpected:  ingest.ParseDate(req.CheckinExpected),
		CheckoutExpected: ingest.ParseDate(req.CheckoutExpected),
		BookingPrice:     req.BookingPrice,
		ParkingPrice:     req.ParkingPrice,
		DeliveryPrice:    req.DeliveryPrice,
		TotalPrice:       req.TotalPrice,
		State:            ingest.CleanString(req.State),
		ParkID:           ingest.CleanString(req.ParkID),
		ParkingType:      ingest.CleanString(req.ParkingType),
		ReturnFlight:     ingest.CleanString(req.ReturnFlight),
	}
	if row.State == "" {
		row.State = model.StateReserved
	}
	if row.LicensePlate == "" || row.AllocationCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "license_plate and allocation_code are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result := h.Engine.UpsertReservations(ctx, []ingest.ReservationRow{row}, "")
	if len(result.Errors) > 0 {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation upsert failed", "details": result.Errors})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    result,
	})
}
