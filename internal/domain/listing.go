package domain

import "fmt"

// Field names as stored in the external record table. The table is
// schemaless; these constants are the only registry of what we read/write.
const (
	FieldListingURL   = "Listing URL"
	FieldStatus       = "Status"
	FieldRunID        = "Scrape Run ID"
	FieldDatasetID    = "Scrape Dataset ID"
	FieldDateCaptured = "Date Captured"

	FieldHeadline          = "Headline"
	FieldPropertyType      = "Property Type"
	FieldAmenitiesList     = "Amenities List"
	FieldOverallRating     = "Overall Rating"
	FieldLatLong           = "Latitude, Longitude"
	FieldCity              = "City"
	FieldMaximumGuests     = "Maximum Guests"
	FieldNumberOfBeds      = "Number of Beds"
	FieldBathrooms         = "Bathrooms"
	FieldBedrooms          = "Bedrooms"
	FieldHostName          = "Host Name"
	FieldHostID            = "Host ID"
	FieldDescription       = "Description"
	FieldCoverPhotoURL     = "Cover Photo URL"
	FieldCoverPhotoCaption = "Cover Photo Caption"
	FieldNumberOfReviews   = "Number of Reviews"
	FieldAccuracyRating    = "Accuracy Rating"
	FieldCommunication     = "Communication Rating"
	FieldCleanliness       = "Cleanliness Rating"
	FieldLocationRating    = "Location Rating"
	FieldCheckInRating     = "Check In Rating"
	FieldValueRating       = "Value Rating"
	FieldSEOHeading        = "SEO heading"
	FieldSuperhost         = "Superhost Status"
	FieldPhotoNotes        = "Photo Notes"

	FieldFreemiumAnalysis  = "Freemium AI Response"
	FieldDescriptionPrompt = "Description Prompt"
	FieldPaidDescription   = "Paid Description"

	FieldEmail           = "Email"
	FieldEmailSource     = "Email Source"
	FieldEmailCapturedAt = "Email Captured At"
	FieldEmailSentAt     = "Email Sent At"

	FieldCheckoutSessionID = "Checkout Session ID"
)

// RecordIDPrefix is the fixed prefix of record identifiers issued by the
// external store.
const RecordIDPrefix = "rec"

// ValidRecordID reports whether id looks like a store-issued record id.
func ValidRecordID(id string) bool {
	return len(id) >= 10 && id[:3] == RecordIDPrefix
}

// Listing is the typed view of a listing record's fields.
type Listing struct {
	ID         string
	ListingURL string
	Status     Status
	RunID      string
	DatasetID  string

	Headline          string
	PropertyType      string
	AmenitiesList     string
	OverallRating     *float64
	LatLong           string
	City              string
	MaximumGuests     *int
	NumberOfBeds      *int
	Bathrooms         *int
	Bedrooms          *int
	HostName          string
	HostID            string
	Description       string
	CoverPhotoURL     string
	CoverPhotoCaption string
	NumberOfReviews   *int
	AccuracyRating    *float64
	Communication     *float64
	Cleanliness       *float64
	LocationRating    *float64
	CheckInRating     *float64
	ValueRating       *float64
	SEOHeading        string
	Superhost         string
	PhotoNotes        string

	FreemiumAnalysis  string
	DescriptionPrompt string
	PaidDescription   string

	Email             string
	CheckoutSessionID string
}

// ListingFromFields builds the typed view from a loose field map. Numbers
// arrive as float64 (JSON) or as int (memory store); both are accepted.
func ListingFromFields(id string, f map[string]any) *Listing {
	return &Listing{
		ID:         id,
		ListingURL: str(f, FieldListingURL),
		Status:     Status(str(f, FieldStatus)),
		RunID:      str(f, FieldRunID),
		DatasetID:  str(f, FieldDatasetID),

		Headline:          str(f, FieldHeadline),
		PropertyType:      str(f, FieldPropertyType),
		AmenitiesList:     str(f, FieldAmenitiesList),
		OverallRating:     num(f, FieldOverallRating),
		LatLong:           str(f, FieldLatLong),
		City:              str(f, FieldCity),
		MaximumGuests:     intNum(f, FieldMaximumGuests),
		NumberOfBeds:      intNum(f, FieldNumberOfBeds),
		Bathrooms:         intNum(f, FieldBathrooms),
		Bedrooms:          intNum(f, FieldBedrooms),
		HostName:          str(f, FieldHostName),
		HostID:            str(f, FieldHostID),
		Description:       str(f, FieldDescription),
		CoverPhotoURL:     str(f, FieldCoverPhotoURL),
		CoverPhotoCaption: str(f, FieldCoverPhotoCaption),
		NumberOfReviews:   intNum(f, FieldNumberOfReviews),
		AccuracyRating:    num(f, FieldAccuracyRating),
		Communication:     num(f, FieldCommunication),
		Cleanliness:       num(f, FieldCleanliness),
		LocationRating:    num(f, FieldLocationRating),
		CheckInRating:     num(f, FieldCheckInRating),
		ValueRating:       num(f, FieldValueRating),
		SEOHeading:        str(f, FieldSEOHeading),
		Superhost:         str(f, FieldSuperhost),
		PhotoNotes:        str(f, FieldPhotoNotes),

		FreemiumAnalysis:  str(f, FieldFreemiumAnalysis),
		DescriptionPrompt: str(f, FieldDescriptionPrompt),
		PaidDescription:   str(f, FieldPaidDescription),

		Email:             str(f, FieldEmail),
		CheckoutSessionID: str(f, FieldCheckoutSessionID),
	}
}

func str(f map[string]any, key string) string {
	if v, ok := f[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func num(f map[string]any, key string) *float64 {
	v, ok := f[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f64 := float64(n)
		return &f64
	case int:
		f64 := float64(n)
		return &f64
	case int64:
		f64 := float64(n)
		return &f64
	}
	return nil
}

func intNum(f map[string]any, key string) *int {
	n := num(f, key)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}
