package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/payment"
	"github.com/mhaveles/airbnboptimizer/internal/pipeline"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/httputil"
	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

// maxWebhookBody bounds the raw webhook payload read into memory.
const maxWebhookBody = 1 << 20

// Handlers holds the API endpoint implementations.
type Handlers struct {
	svc           *pipeline.Service
	normalizer    *pipeline.URLNormalizer
	webhookSecret string
}

// NewHandlers wires the endpoints to the pipeline.
func NewHandlers(svc *pipeline.Service, normalizer *pipeline.URLNormalizer, webhookSecret string) *Handlers {
	return &Handlers{
		svc:           svc,
		normalizer:    normalizer,
		webhookSecret: webhookSecret,
	}
}

// HandleNormalizeURL canonicalizes a submitted listing URL.
//
//	POST /api/normalize-url {"url": "..."}
func (h *Handlers) HandleNormalizeURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		httputil.BadRequest(w, "URL is required")
		return
	}

	normalized, err := h.normalizer.Normalize(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidURL) {
			httputil.BadRequest(w, "Unable to normalize URL. Please check the link and try again.")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to normalize URL")
		return
	}

	httputil.OK(w, map[string]string{"normalizedUrl": normalized})
}

// HandleAnalyze starts a scrape and creates the listing record.
//
//	POST /api/analyze {"airbnbUrl": "...", "email": "...", "email_source": "...", "utm_*": "..."}
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if !httputil.Decode(w, r, &req) {
		return
	}

	listingURL, _ := req["airbnbUrl"].(string)
	if listingURL == "" {
		httputil.BadRequest(w, "airbnbUrl is required")
		return
	}

	in := pipeline.SubmitInput{ListingURL: listingURL, UTM: map[string]string{}}
	if v, ok := req["email"].(string); ok {
		in.Email = v
	}
	if v, ok := req["email_source"].(string); ok {
		in.EmailSource = v
	}
	for key, val := range req {
		if s, ok := val.(string); ok {
			in.UTM[key] = s
		}
	}

	recordID, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to start analysis")
		return
	}

	httputil.OK(w, map[string]string{
		"status":   "success",
		"recordId": recordID,
	})
}

// HandlePollStatus advances and reports the free pipeline.
//
//	GET /api/poll-status?recordId=recXXX
func (h *Handlers) HandlePollStatus(w http.ResponseWriter, r *http.Request) {
	recordID := r.URL.Query().Get("recordId")
	if !domain.ValidRecordID(recordID) {
		httputil.BadRequest(w, "Valid recordId is required")
		return
	}

	result, err := h.svc.PollStatus(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, tablestore.ErrNotFound) {
			httputil.NotFound(w, "Record not found. Please try analyzing your listing again.")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to check status")
		return
	}

	httputil.OK(w, result)
}

// HandleGetRecord returns the stored analysis for a record.
//
//	GET /api/get-record?recordId=recXXX
func (h *Handlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	recordID := r.URL.Query().Get("recordId")
	if recordID == "" {
		httputil.BadRequest(w, "Record ID is required")
		return
	}
	if !domain.ValidRecordID(recordID) {
		httputil.BadRequest(w, "Invalid record ID format")
		return
	}

	listing, err := h.svc.GetRecord(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, tablestore.ErrNotFound) {
			httputil.NotFound(w, "Record not found. Please try analyzing your listing again.")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to fetch record")
		return
	}

	if listing.FreemiumAnalysis == "" && listing.PaidDescription == "" {
		httputil.NotFound(w, "No content found for this record")
		return
	}

	httputil.OK(w, map[string]any{
		"success":            true,
		"recordId":           listing.ID,
		"recommendations":    listing.FreemiumAnalysis,
		"premiumDescription": listing.PaidDescription,
		"email":              listing.Email,
	})
}

// HandleSaveEmail attaches a contact email to a record.
//
//	POST /api/save-email {"email": "...", "recordId": "recXXX"}
func (h *Handlers) HandleSaveEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		RecordID string `json:"recordId"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		httputil.BadRequest(w, "Email is required")
		return
	}
	if !pipeline.ValidEmail(req.Email) {
		httputil.BadRequest(w, "Invalid email format")
		return
	}
	if req.RecordID == "" {
		httputil.BadRequest(w, "Record ID is required")
		return
	}
	if !domain.ValidRecordID(req.RecordID) {
		httputil.BadRequest(w, "Invalid record ID format")
		return
	}

	if err := h.svc.SaveEmail(r.Context(), req.RecordID, req.Email); err != nil {
		if errors.Is(err, tablestore.ErrNotFound) {
			httputil.NotFound(w, "Record not found. Please try analyzing your listing again.")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to save email")
		return
	}

	httputil.OK(w, map[string]any{
		"success": true,
		"message": "Email saved successfully",
	})
}

// HandleCreateCheckout opens a hosted checkout session.
//
//	POST /api/create-checkout {"priceId": "...", "recordId": "recXXX", "email": "..."}
func (h *Handlers) HandleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PriceID  string `json:"priceId"`
		RecordID string `json:"recordId"`
		Email    string `json:"email"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.PriceID == "" {
		httputil.BadRequest(w, "Price ID is required")
		return
	}
	if req.RecordID == "" {
		httputil.BadRequest(w, "Record ID is required")
		return
	}

	url, err := h.svc.CreateCheckout(r.Context(), req.PriceID, req.RecordID, req.Email)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidRecordID) {
			httputil.BadRequest(w, "Invalid record ID format")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to create checkout session")
		return
	}

	httputil.OK(w, map[string]string{"url": url})
}

// HandlePaymentWebhook verifies and processes checkout webhooks.
//
//	POST /api/payment-webhook
func (h *Handlers) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httputil.BadRequest(w, "Failed to read request body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		httputil.BadRequest(w, "Missing signature header")
		return
	}

	event, err := payment.ConstructEvent(body, sig, h.webhookSecret)
	if err != nil {
		httputil.BadRequest(w, "Invalid signature")
		return
	}

	result, err := h.svc.HandleCheckoutCompleted(r.Context(), event)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidRecordID) {
			httputil.BadRequest(w, "No recordId in metadata")
			return
		}
		if errors.Is(err, tablestore.ErrNotFound) {
			httputil.NotFound(w, "Record not found")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Webhook handler failed")
		return
	}

	if !result.Handled {
		httputil.OK(w, map[string]bool{"received": true})
		return
	}
	httputil.OK(w, map[string]any{
		"success":             true,
		"record_id":           result.RecordID,
		"checkout_session_id": result.SessionID,
	})
}

// HandleGenerateDescription advances the paid pipeline one step.
//
//	POST /api/generate-description {"recordId": "recXXX"}
func (h *Handlers) HandleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordID string `json:"recordId"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	if !domain.ValidRecordID(req.RecordID) {
		httputil.BadRequest(w, "Valid recordId is required")
		return
	}

	result, err := h.svc.GenerateDescription(r.Context(), req.RecordID)
	if err != nil {
		if errors.Is(err, pipeline.ErrLocked) {
			// Another poller is mid-step; the client just polls again.
			httputil.OK(w, pipeline.DescriptionResult{Status: "analyzing"})
			return
		}
		if errors.Is(err, tablestore.ErrNotFound) {
			httputil.NotFound(w, "Record not found")
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to generate description")
		return
	}

	httputil.OK(w, result)
}

// HandlePollDescription looks up description readiness by session id.
//
//	GET /api/poll-description?session_id=cs_XXX
func (h *Handlers) HandlePollDescription(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httputil.BadRequest(w, "Session ID is required")
		return
	}

	lookup, err := h.svc.PollDescription(r.Context(), sessionID)
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to poll description")
		return
	}

	switch {
	case !lookup.Found:
		httputil.OK(w, map[string]any{
			"success": false,
			"found":   false,
			"message": "No record found yet",
		})
	case !lookup.HasDescription:
		httputil.OK(w, map[string]any{
			"success":        false,
			"found":          true,
			"hasDescription": false,
			"message":        "Record found, but description is still being generated",
		})
	default:
		httputil.OK(w, map[string]any{
			"success":        true,
			"found":          true,
			"hasDescription": true,
			"recordId":       lookup.RecordID,
			"description":    lookup.Description,
			"email":          lookup.Email,
		})
	}
}
