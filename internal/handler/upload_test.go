package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multipark/backoffice/internal/model"
	"github.com/multipark/backoffice/internal/reconcile"
	"github.com/multipark/backoffice/internal/repository"
)

// memStore is a minimal in-memory reconcile.ReservationStore seeded with
// known reservations.
type memStore struct {
	byIdentity map[string]*model.Reservation
}

func (m *memStore) FindByIdentity(_ context.Context, plate, allocation string) (*model.Reservation, error) {
	if r, ok := m.byIdentity[plate+"/"+allocation]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, reconcile.ErrNotFound
}

func (m *memStore) FindByPlate(_ context.Context, plate string) (*model.Reservation, error) {
	for _, r := range m.byIdentity {
		if r.LicensePlate == plate {
			cp := *r
			return &cp, nil
		}
	}
	return nil, reconcile.ErrNotFound
}

func (m *memStore) Insert(_ context.Context, r *model.Reservation) error {
	r.ID = uint64(len(m.byIdentity) + 1)
	cp := *r
	m.byIdentity[r.LicensePlate+"/"+r.AllocationCode] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, r *model.Reservation) error {
	cp := *r
	m.byIdentity[r.LicensePlate+"/"+r.AllocationCode] = &cp
	return nil
}

type memCash struct {
	recorded []model.CashTransaction
}

func (m *memCash) Record(_ context.Context, tx *model.CashTransaction) error {
	m.recorded = append(m.recorded, *tx)
	return nil
}

func newUploadFixture(seed ...*model.Reservation) (*UploadHandler, *memStore, *memCash) {
	store := &memStore{byIdentity: map[string]*model.Reservation{}}
	for _, r := range seed {
		store.byIdentity[r.LicensePlate+"/"+r.AllocationCode] = r
	}
	cash := &memCash{}
	// Parks is only consulted for reservation uploads, which these tests
	// reject before the lookup.
	h := &UploadHandler{
		Engine: reconcile.NewEngine(store, cash),
		Parks:  repository.NewParkRepo(nil),
	}
	return h, store, cash
}

func multipartUpload(t *testing.T, filename, kind, parkID string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("type", kind))
	if parkID != "" {
		require.NoError(t, w.WriteField("park_id", parkID))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func doUpload(t *testing.T, h *UploadHandler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.Upload(c))
	return rec
}

func TestUploadMissingFile(t *testing.T) {
	h, _, _ := newUploadFixture()
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", nil)
	rec := doUpload(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadUnsupportedType(t *testing.T) {
	h, _, _ := newUploadFixture()
	req := multipartUpload(t, "x.csv", "payroll", "", []byte("a,b\n1,2\n"))
	rec := doUpload(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported upload type")
}

func TestUploadReservationsRequireParkID(t *testing.T) {
	h, _, _ := newUploadFixture()
	req := multipartUpload(t, "x.csv", "reservations", "", []byte("License Plate,Allocation\nAA-11-BB,A1\n"))
	rec := doUpload(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "park_id")
}

func TestUploadEmptyFileFailsValidation(t *testing.T) {
	h, _, _ := newUploadFixture()
	req := multipartUpload(t, "x.csv", "cash", "", []byte(""))
	rec := doUpload(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid file")
}

func TestUploadCashCSV(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	h, _, cash := newUploadFixture(&model.Reservation{
		ID: 1, LicensePlate: "AA-11-BB", AllocationCode: "A1",
		State: model.StateReserved, CreatedAt: at, UpdatedAt: at,
	})

	csv := "Matrícula,Valor,Data\n" +
		"AA-11-BB,\"30,00\",01/06/2025\n" +
		"ZZ-99-ZZ,10,01/06/2025\n" +
		",5,\n"
	req := multipartUpload(t, "caixa.csv", "cash", "", []byte(csv))
	rec := doUpload(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Parsed   int `json:"parsed"`
			Updated  int `json:"updated"`
			NotFound int `json:"notFound"`
			Skipped  []struct {
				Index  int    `json:"index"`
				Reason string `json:"reason"`
			} `json:"skipped"`
			Errors []string `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Parsed)
	assert.Equal(t, 1, resp.Data.Updated)
	assert.Equal(t, 1, resp.Data.NotFound)
	require.Len(t, resp.Data.Skipped, 1)
	assert.Equal(t, 2, resp.Data.Skipped[0].Index)
	assert.Empty(t, resp.Data.Errors)

	require.Len(t, cash.recorded, 1)
	assert.Equal(t, uint64(1), cash.recorded[0].ReservationID)
	assert.Equal(t, 30.0, cash.recorded[0].Amount)
}

func TestUploadDeliveriesCSV(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	h, store, _ := newUploadFixture(&model.Reservation{
		ID: 1, LicensePlate: "AA-11-BB", AllocationCode: "A1",
		State: model.StateCollected, CreatedAt: at, UpdatedAt: at,
	})

	csv := "License Plate,Allocation,Data Entrega,Condutor\n" +
		"AA-11-BB,A1,03/06/2025,Rui\n"
	req := multipartUpload(t, "entregas.csv", "deliveries", "", []byte(csv))
	rec := doUpload(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored := store.byIdentity["AA-11-BB/A1"]
	require.NotNil(t, stored)
	assert.Equal(t, model.StateDelivered, stored.State)
	require.NotNil(t, stored.CheckoutReal)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), *stored.CheckoutReal)
	assert.Equal(t, "RUI", stored.DeliveryDriver)
}
