package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/multipark/backoffice/internal/ingest"
	"github.com/multipark/backoffice/internal/queue"
	"github.com/multipark/backoffice/internal/reconcile"
	"github.com/multipark/backoffice/internal/repository"
	"github.com/multipark/backoffice/internal/service"
)

// UploadHandler receives spreadsheet uploads and runs them through the
// ingestion pipeline: read rows, validate structure, parse to canonical
// records, reconcile against the reservation store.
type UploadHandler struct {
	Engine *reconcile.Engine
	Parks  *repository.ParkRepo
}

func NewUploadHandler(engine *reconcile.Engine, parks *repository.ParkRepo) *UploadHandler {
	if engine == nil || parks == nil {
		panic("nil dependency passed to NewUploadHandler")
	}
	return &UploadHandler{Engine: engine, Parks: parks}
}

// uploadTimeout bounds one whole reconciliation pass. Uploads run row by
// row against the database, so this is deliberately generous.
const uploadTimeout = 2 * time.Minute

// Upload handles POST /v1/uploads. Expects multipart fields "file" and
// "type" (reservations|cash|deliveries|collections), plus "park_id" for
// reservation files. Structural validation failures come back as 400 with
// the error list; per-record reconciliation errors ride inside a 200
// response, because a partially applied batch is still a processed batch.
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	kind, ok := ingest.ParseKind(c.FormValue("type"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported upload type"})
	}
	parkID := strings.ToUpper(strings.TrimSpace(c.FormValue("park_id")))
	if kind == ingest.KindReservations && parkID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "park_id is required for reservation uploads"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot open uploaded file"})
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reading upload failed", "details": err.Error()})
	}

	log.Infof("[Upload] processing %s file %q (%d bytes)", kind, fileHeader.Filename, len(data))

	rows, err := ingest.ReadRows(data, fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot parse file", "details": err.Error()})
	}

	validation := ingest.ValidateStructure(rows, kind)
	if !validation.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "invalid file",
			"details":    validation.Errors,
			"validation": validation,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), uploadTimeout)
	defer cancel()

	if kind == ingest.KindReservations {
		known, err := h.Parks.Exists(ctx, parkID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "park lookup failed", "details": err.Error()})
		}
		if !known {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown park_id"})
		}
	}

	var result reconcile.Result
	var skipped []ingest.SkippedRow
	switch kind {
	case ingest.KindReservations:
		recs, sk := ingest.ParseReservations(rows)
		skipped = sk
		result = h.Engine.UpsertReservations(ctx, recs, parkID)
	case ingest.KindCash:
		recs, sk := ingest.ParseCashTransactions(rows)
		skipped = sk
		result = h.Engine.ApplyCash(ctx, recs)
	case ingest.KindDeliveries:
		recs, sk := ingest.ParseDeliveries(rows)
		skipped = sk
		result = h.Engine.ApplyDeliveries(ctx, recs)
	case ingest.KindCollections:
		recs, sk := ingest.ParseCollections(rows)
		skipped = sk
		result = h.Engine.ApplyCollections(ctx, recs)
	}
	if skipped == nil {
		skipped = make([]ingest.SkippedRow, 0)
	}

	_ = service.PublishUploadProcessed(ctx, queue.UploadProcessedEvent{
		Kind:        string(kind),
		FileName:    fileHeader.Filename,
		ParkID:      parkID,
		Parsed:      result.Parsed,
		Inserted:    result.Inserted,
		Updated:     result.Updated,
		NotFound:    result.NotFound,
		Skipped:     len(skipped),
		ErrorCount:  len(result.Errors),
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    string(kind) + " processed",
		"data":       uploadData(kind, result, skipped),
		"validation": validation,
	})
}

// uploadData shapes the result tally per kind: reservation uploads can
// insert, the other kinds only update existing reservations and report
// unmatched rows as notFound.
func uploadData(kind ingest.Kind, result reconcile.Result, skipped []ingest.SkippedRow) echo.Map {
	data := echo.Map{
		"parsed":  result.Parsed,
		"updated": result.Updated,
		"skipped": skipped,
		"errors":  result.Errors,
	}
	if kind == ingest.KindReservations {
		data["inserted"] = result.Inserted
	} else {
		data["notFound"] = result.NotFound
	}
	return data
}
