package routes

import (
	"net/http"
	"strings"
	"testing"

	"textile-qc/inspections/internal/models/dtos"
)

func TestInspections_CreateAndGet(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodPost, "/api/inspections",
		`{"id": "client", "customer": "ACME", "pass": 1, "major": "2.5", "hole": "x", "inspectionDate": "2024-06-03"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created map[string]any
	decodeJSON(t, rr, &created)

	id, _ := created["id"].(string)
	if id == "" || id == "client" {
		t.Fatalf("Expected server assigned id, got %v", created["id"])
	}
	if created["inspectionStatus"] != "Pass" {
		t.Errorf("Expected status Pass, got %v", created["inspectionStatus"])
	}
	if created["major"] != 2.5 || created["hole"] != float64(0) {
		t.Errorf("Unexpected coercion: major=%v hole=%v", created["major"], created["hole"])
	}
	if created["year"] != float64(2024) || created["month"] != "June" {
		t.Errorf("Unexpected year/month: %v %v", created["year"], created["month"])
	}

	rr = doRequest(t, h, http.MethodGet, "/api/inspections/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var got map[string]any
	decodeJSON(t, rr, &got)
	if got["id"] != id || got["customer"] != "ACME" {
		t.Errorf("Unexpected record: %v", got)
	}
	if rr.Header().Get("X-Response-Time") == "" {
		t.Error("Expected X-Response-Time header")
	}
}

func TestInspections_CreateInvalidBody(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	for _, body := range []string{`{"customer": `, `[1, 2]`, `null`, `{} {}`} {
		rr := doRequest(t, h, http.MethodPost, "/api/inspections", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rr.Code)
		}
	}

	rr := doRequest(t, h, http.MethodPost, "/api/inspections", `{"customer": {"name": "ACME"}}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for object customer, got %d", rr.Code)
	}
}

func TestInspections_GetMissing(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodGet, "/api/inspections/00000000-0000-0000-0000-000000000000", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rr.Code)
	}
	var body dtos.ErrorResponse
	decodeJSON(t, rr, &body)
	if body.Error != "Inspection not found" {
		t.Errorf("Unexpected error message %q", body.Error)
	}
}

func TestInspections_ListEmpty(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodGet, "/api/inspections", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", rr.Body.String())
	}
}

func TestInspections_ImportPartialSuccess(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodPost, "/api/inspections/import",
		`[{"customer": "A", "pass": 1}, {"customer": {"x": 1}}, {"fail": "1", "major": "abc"}]`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result dtos.ImportResult
	decodeJSON(t, rr, &result)
	if result.SuccessCount != 2 || result.FailureCount != 1 {
		t.Fatalf("Expected 2/1, got %d/%d", result.SuccessCount, result.FailureCount)
	}
	if len(result.Errors) != 1 || result.Errors[0].Index != 1 {
		t.Fatalf("Unexpected errors: %+v", result.Errors)
	}
	original, ok := result.Errors[0].OriginalData.(map[string]any)
	if !ok || original["customer"] == nil {
		t.Errorf("Expected original item echoed back, got %v", result.Errors[0].OriginalData)
	}

	var list []map[string]any
	decodeJSON(t, doRequest(t, h, http.MethodGet, "/api/inspections", ""), &list)
	if len(list) != 2 {
		t.Errorf("Expected 2 stored records, got %d", len(list))
	}
}

func TestInspections_BulkAlias(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodPost, "/api/inspections/bulk", `[{"pending": 1}]`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var result dtos.ImportResult
	decodeJSON(t, rr, &result)
	if result.SuccessCount != 1 {
		t.Errorf("Expected 1 success, got %d", result.SuccessCount)
	}
}

func TestInspections_ImportRejectsNonArray(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	for _, body := range []string{`{"customer": "A"}`, `[]`, `"rows"`} {
		rr := doRequest(t, h, http.MethodPost, "/api/inspections/import", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rr.Code)
			continue
		}
		var resp dtos.ErrorResponse
		decodeJSON(t, rr, &resp)
		if resp.Error != "No data provided" {
			t.Errorf("%s: unexpected message %q", body, resp.Error)
		}
	}

	rr := doRequest(t, h, http.MethodPost, "/api/inspections/import", `[{"a": 1}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rr.Code)
	}
}

func TestInspections_ImportAtomic(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodPost, "/api/inspections/import?mode=atomic", `[{"pass": 1}, {"year": "someday"}]`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
	var result dtos.ImportResult
	decodeJSON(t, rr, &result)
	if result.SuccessCount != 0 || result.FailureCount != 1 || result.Errors[0].Index != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}

	var list []map[string]any
	decodeJSON(t, doRequest(t, h, http.MethodGet, "/api/inspections", ""), &list)
	if len(list) != 0 {
		t.Errorf("Expected nothing stored, got %d", len(list))
	}

	rr = doRequest(t, h, http.MethodPost, "/api/inspections/import?mode=atomic", `[{"pass": 1}, {"fail": 1}]`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	decodeJSON(t, doRequest(t, h, http.MethodGet, "/api/inspections", ""), &list)
	if len(list) != 2 {
		t.Errorf("Expected 2 stored records, got %d", len(list))
	}
}

func TestInspections_Update(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	var created map[string]any
	decodeJSON(t, doRequest(t, h, http.MethodPost, "/api/inspections", `{"customer": "ACME", "sampleSize": 50}`), &created)
	id := created["id"].(string)

	rr := doRequest(t, h, http.MethodPut, "/api/inspections/"+id, `{"sampleSize": "80", "inspectorName": "Sana"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var updated map[string]any
	decodeJSON(t, rr, &updated)
	if updated["sampleSize"] != float64(80) || updated["inspectorName"] != "Sana" || updated["customer"] != "ACME" {
		t.Errorf("Unexpected update result: %v", updated)
	}

	rr = doRequest(t, h, http.MethodPut, "/api/inspections/"+id, `{"inspectionDate": "not a date"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad date, got %d", rr.Code)
	}

	rr = doRequest(t, h, http.MethodPut, "/api/inspections/"+id, `{"sampleSize": `)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad JSON, got %d", rr.Code)
	}

	rr = doRequest(t, h, http.MethodPut, "/api/inspections/00000000-0000-0000-0000-000000000000", `{"sampleSize": 1}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

func TestInspections_Delete(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	var created map[string]any
	decodeJSON(t, doRequest(t, h, http.MethodPost, "/api/inspections", `{}`), &created)
	id := created["id"].(string)

	rr := doRequest(t, h, http.MethodDelete, "/api/inspections/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var msg dtos.MessageResponse
	decodeJSON(t, rr, &msg)
	if msg.Message != "Inspection deleted successfully" {
		t.Errorf("Unexpected message %q", msg.Message)
	}

	rr = doRequest(t, h, http.MethodDelete, "/api/inspections/"+id, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", rr.Code)
	}
}

func TestInspections_DeleteAll(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	doRequest(t, h, http.MethodPost, "/api/inspections/import", `[{}, {}, {}]`)

	rr := doRequest(t, h, http.MethodDelete, "/api/inspections/deleteAll", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var msg dtos.MessageResponse
	decodeJSON(t, rr, &msg)
	if msg.Message != "All inspections deleted successfully!" {
		t.Errorf("Unexpected message %q", msg.Message)
	}
	if msg.DeletedCount == nil || *msg.DeletedCount != 3 {
		t.Errorf("Expected deletedCount 3, got %v", msg.DeletedCount)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/inspections", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("Expected empty list after deleteAll, got %s", rr.Body.String())
	}
}

func TestInspections_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	h, _ := setupTestRouter(t, cfg)

	body := `[{"customer": "` + strings.Repeat("x", 200) + `"}]`
	rr := doRequest(t, h, http.MethodPost, "/api/inspections/import", body)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rr.Code)
	}
}

func TestInspections_StorageFailureHidesDetails(t *testing.T) {
	store := setupTestStore(t)
	deps := setupTestDeps(t, store)
	h := RegisterRoutes(testConfig(), deps, store.SQL, testNow)

	store.Close()

	rr := doRequest(t, h, http.MethodGet, "/api/inspections", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	var body dtos.ErrorResponse
	decodeJSON(t, rr, &body)
	if body.Error != "Server error" {
		t.Errorf("Expected generic message, got %q", body.Error)
	}

	rr = doRequest(t, h, http.MethodPost, "/api/inspections", `{"customer": "ACME"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	decodeJSON(t, rr, &body)
	if body.Error != "Failed to save inspection" {
		t.Errorf("Unexpected message %q", body.Error)
	}
}

func TestInspections_OutOfRangeEpochDate(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	for _, body := range []string{`{"customer": "B", "inspectionDate": -1e15}`, `{"customer": "B", "inspectionDate": 1e15}`} {
		rr := doRequest(t, h, http.MethodPost, "/api/inspections", body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("%s: expected 201, got %d: %s", body, rr.Code, rr.Body.String())
		}
		var created map[string]any
		decodeJSON(t, rr, &created)
		if created["year"] != float64(2025) || created["month"] != "February" {
			t.Errorf("%s: expected fallback to now, got year=%v month=%v", body, created["year"], created["month"])
		}

		rr = doRequest(t, h, http.MethodGet, "/api/inspections/"+created["id"].(string), "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected stored record to read back, got %d", body, rr.Code)
		}
		var got map[string]any
		decodeJSON(t, rr, &got)
		if got["year"] != float64(2025) {
			t.Errorf("%s: stored year %v", body, got["year"])
		}

		rr = doRequest(t, h, http.MethodPut, "/api/inspections/"+created["id"].(string), `{"inspectionDate": 1e15}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for out of range date on update, got %d", rr.Code)
		}
	}
}

func TestInspections_NegativeMetricsStoredAsZero(t *testing.T) {
	h, _ := setupTestRouter(t, testConfig())

	rr := doRequest(t, h, http.MethodPost, "/api/inspections", `{"major": -5, "dpi": "-2.5"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rr.Code)
	}
	var created map[string]any
	decodeJSON(t, rr, &created)
	if created["major"] != float64(0) || created["dpi"] != float64(0) {
		t.Errorf("Expected clamped metrics, got major=%v dpi=%v", created["major"], created["dpi"])
	}
}
