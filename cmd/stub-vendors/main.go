// Command stub-vendors runs in-memory stand-ins for the three external
// vendors (record store, scrape service, checkout provider) so the full
// pipeline can be exercised locally without credentials. All scrape
// results are hardcoded.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhaveles/airbnboptimizer/internal/payment"
	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

// stubRunDelay is how long a stub scrape run stays RUNNING so the
// client-side polling loop is actually exercised.
const stubRunDelay = 6 * time.Second

var stubItem = map[string]any{
	"id":              "12345678",
	"name":            "Cozy Loft in the Old Town",
	"roomType":        "Entire loft",
	"amenities":       []string{"Wifi", "Kitchen", "Washer", "Dedicated workspace"},
	"stars":           4.87,
	"location":        map[string]float64{"lat": 52.52, "lng": 13.405},
	"city":            "Berlin",
	"numberOfGuests":  4,
	"bedLabel":        "2 beds",
	"bathroomLabel":   "1 bath",
	"bedrooms":        1,
	"seoHeading":      "Loft in Berlin",
	"primaryHost": map[string]any{
		"id":                    987654,
		"firstName":             "Mara",
		"isSuperhost":           true,
		"responseRateWithoutNa": "100%",
		"responseTimeWithoutNa": "within an hour",
	},
	"photos": []map[string]string{
		{"caption": "Sunlit living room", "large": "https://img.example/1.jpg"},
		{"caption": "Queen bed with linen", "large": "https://img.example/2.jpg"},
	},
	"reviews": map[string]any{"reviewsCount": 132},
	"reviewDetailsInterface": map[string]any{
		"reviewSummary": []map[string]any{
			{"localizedRating": 4.9},
			{"localizedRating": 4.8},
			{"localizedRating": 4.9},
			{"localizedRating": 4.95},
			{"localizedRating": 4.85},
			{"localizedRating": 4.7},
		},
	},
	"sectionedDescription": map[string]string{
		"heading":     "Loft in Berlin",
		"description": "A bright loft two minutes from the Spree with fast wifi and a full kitchen.",
	},
}

type stubRun struct {
	startedAt time.Time
	datasetID string
}

type stubVendors struct {
	mu     sync.Mutex
	runs   map[string]stubRun
	nextID int
	store  *tablestore.MemoryStore
	secret string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *stubVendors) handleStartRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.nextID++
	runID := fmt.Sprintf("run%06d", s.nextID)
	datasetID := fmt.Sprintf("ds%06d", s.nextID)
	s.runs[runID] = stubRun{startedAt: time.Now(), datasetID: datasetID}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": map[string]string{
			"id":               runID,
			"status":           "RUNNING",
			"defaultDatasetId": datasetID,
		},
	})
}

func (s *stubVendors) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	s.mu.Lock()
	run, ok := s.runs[runID]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}

	status := "RUNNING"
	if time.Since(run.startedAt) > stubRunDelay {
		status = "SUCCEEDED"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]string{"id": runID, "status": status},
	})
}

func (s *stubVendors) handleDatasetItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []any{stubItem})
}

// Record store endpoints mimic the tabular vendor's REST shape over the
// shared in-memory store.

func (s *stubVendors) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []struct {
			Fields map[string]any `json:"fields"`
		} `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Records) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad create payload"})
		return
	}
	rec, err := s.store.Create(r.Context(), req.Records[0].Fields)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": []map[string]any{{"id": rec.ID, "fields": rec.Fields}},
	})
}

func (s *stubVendors) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	rec, err := s.store.Find(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": rec.ID, "fields": rec.Fields})
}

func (s *stubVendors) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	var req struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad update payload"})
		return
	}
	rec, err := s.store.Update(r.Context(), id, req.Fields)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": rec.ID, "fields": rec.Fields})
}

func (s *stubVendors) handleListRecords(w http.ResponseWriter, r *http.Request) {
	formula := r.URL.Query().Get("filterByFormula")
	records := []map[string]any{}
	if sessionID := sessionIDFromFormula(formula); sessionID != "" {
		if rec, err := s.store.FindByCheckoutSession(r.Context(), sessionID); err == nil {
			records = append(records, map[string]any{"id": rec.ID, "fields": rec.Fields})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// sessionIDFromFormula extracts the quoted value from
// "{Checkout Session ID} = 'cs_x'".
func sessionIDFromFormula(formula string) string {
	first := strings.Index(formula, "'")
	last := strings.LastIndex(formula, "'")
	if first < 0 || last <= first {
		return ""
	}
	return formula[first+1 : last]
}

// handleCreateCheckout fabricates a checkout session and immediately
// prints the signed webhook delivery a completed payment would produce,
// ready to curl at the real server.
func (s *stubVendors) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad form"})
		return
	}
	recordID := r.PostForm.Get("metadata[recordId]")

	s.mu.Lock()
	s.nextID++
	sessionID := fmt.Sprintf("cs_stub_%06d", s.nextID)
	s.mu.Unlock()

	event := map[string]any{
		"id":   fmt.Sprintf("evt_stub_%s", sessionID),
		"type": payment.EventCheckoutCompleted,
		"data": map[string]any{
			"object": map[string]any{
				"id":             sessionID,
				"customer_email": r.PostForm.Get("customer_email"),
				"metadata":       map[string]string{"recordId": recordID},
			},
		},
	}
	payload, _ := json.Marshal(event)
	sig := payment.SignPayload(payload, s.secret, time.Now())
	log.Printf("stub checkout %s for %s; deliver webhook with:\n  curl -X POST -H \"Stripe-Signature: %s\" -d '%s' http://localhost:8080/api/payment-webhook",
		sessionID, recordID, sig, payload)

	writeJSON(w, http.StatusOK, map[string]string{
		"id":  sessionID,
		"url": "http://localhost:9090/stub-checkout/" + sessionID,
	})
}

func main() {
	log.Println("WARNING: stub vendor APIs for local testing only; scrape results are hardcoded")

	secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if secret == "" {
		secret = "whsec_stub"
	}

	s := &stubVendors{
		runs:   map[string]stubRun{},
		store:  tablestore.NewMemoryStore(),
		secret: secret,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	// Scrape vendor.
	r.Post("/v2/acts/{actorID}/runs", s.handleStartRun)
	r.Get("/v2/actor-runs/{runID}", s.handleRunStatus)
	r.Get("/v2/datasets/{datasetID}/items", s.handleDatasetItems)

	// Record store vendor.
	r.Post("/v0/{baseID}/{table}", s.handleCreateRecord)
	r.Get("/v0/{baseID}/{table}/{recordID}", s.handleGetRecord)
	r.Patch("/v0/{baseID}/{table}/{recordID}", s.handleUpdateRecord)
	r.Get("/v0/{baseID}/{table}", s.handleListRecords)

	// Checkout vendor.
	r.Post("/v1/checkout/sessions", s.handleCreateCheckout)

	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	log.Printf("stub vendors listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
