package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func sampleListing() *domain.Listing {
	return &domain.Listing{
		ID:              "recaaaaaaaaaaaaaa",
		Headline:        "Cozy Loft in Berlin",
		PropertyType:    "Entire loft",
		City:            "Berlin",
		LatLong:         "52.52, 13.405",
		Bedrooms:        ptrI(1),
		Bathrooms:       ptrI(1),
		NumberOfBeds:    ptrI(2),
		MaximumGuests:   ptrI(3),
		OverallRating:   ptrF(4.87),
		NumberOfReviews: ptrI(112),
		Superhost:       "Yes",
		CheckInRating:   ptrF(4.9),
		Communication:   ptrF(4.95),
		Cleanliness:     ptrF(4.8),
		LocationRating:  ptrF(4.7),
		ValueRating:     ptrF(4.6),
		AccuracyRating:  ptrF(4.85),
		AmenitiesList:   "Wifi, Kitchen, Washer",
		Description:     "A bright loft near Alexanderplatz.",
		SEOHeading:      "Loft in the heart of Berlin",
		HostID:          "12345678",
		FreemiumAnalysis: "# Cover Recommendation\nPhoto: Bright living room",
	}
}

func TestBuildFreemiumUserMessage(t *testing.T) {
	msg := buildFreemiumUserMessage(sampleListing())

	assert.Contains(t, msg, "listing_id: 12345678")
	assert.Contains(t, msg, "title: Cozy Loft in Berlin")
	assert.Contains(t, msg, "property_type: Entire loft")
	assert.Contains(t, msg, "lat_long: 52.52, 13.405")
	assert.Contains(t, msg, "rating: 4.87")
	assert.Contains(t, msg, "reviews: 112")
	assert.Contains(t, msg, "superhost: Yes")
	assert.Contains(t, msg, "amenities: Wifi, Kitchen, Washer")
	assert.Contains(t, msg, "description:\nA bright loft near Alexanderplatz.")

	// Response rate/time are not retained past the scrape.
	assert.Contains(t, msg, "host_response_rate: \n")
	assert.Contains(t, msg, "host_response_time: \n")
}

func TestBuildFreemiumUserMessageSparse(t *testing.T) {
	msg := buildFreemiumUserMessage(&domain.Listing{Headline: "Bare Listing"})

	// Absent numerics render as empty values, not zeros.
	assert.Contains(t, msg, "bedrooms: \n")
	assert.Contains(t, msg, "rating: \n")
	assert.NotContains(t, msg, "rating: 0")
}

func TestBuildFreemiumPhotoMessage(t *testing.T) {
	msg := buildFreemiumPhotoMessage("1. Living room - https://img/1.jpg")
	assert.Contains(t, msg, "Here are the listing photos for you to analyze.")
	assert.Contains(t, msg, "1. Living room - https://img/1.jpg")
}

func TestBuildAnalyzerUserMessage(t *testing.T) {
	msg, err := buildAnalyzerUserMessage(sampleListing())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg), &got))

	assert.Equal(t, "Cozy Loft in Berlin", got["title"])
	assert.Equal(t, "A bright loft near Alexanderplatz.", got["host_description"])
	assert.Equal(t, "Loft in the heart of Berlin", got["host_seo_heading"])
	assert.Equal(t, "# Cover Recommendation\nPhoto: Bright living room", got["ao_freemium_recommendation"])
	assert.Equal(t, "Berlin", got["city"])
	assert.Equal(t, "52.52, 13.405", got["latitude_longitude"])
	assert.Equal(t, "Entire loft", got["property_type"])
	assert.Equal(t, float64(3), got["guest_capacity"])
	assert.Equal(t, "2", got["num_beds"])
	assert.Equal(t, "1", got["num_bathrooms"])
	assert.Equal(t, float64(1), got["num_bedrooms"])

	stats, ok := got["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4.87, stats["overall_rating"])
	assert.Equal(t, 4.85, stats["accuracy_rating"])
	assert.Equal(t, 4.95, stats["communication_rating"])
	assert.Equal(t, 4.8, stats["cleanliness_rating"])
	assert.Equal(t, 4.7, stats["location_rating"])
	assert.Equal(t, 4.9, stats["checkin_rating"])
	assert.Equal(t, 4.6, stats["value_rating"])
}

func TestBuildWriterPropertyMessage(t *testing.T) {
	msg, err := buildWriterPropertyMessage(sampleListing())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"beds": "2",
		"bedrooms": "1",
		"bathrooms": "1",
		"property_type": "Entire loft",
		"guest_capacity": "3",
		"city": "Berlin"
	}`, msg)
}

func TestFmtHelpers(t *testing.T) {
	assert.Equal(t, "", fmtFloat(nil))
	assert.Equal(t, "4.5", fmtFloat(ptrF(4.5)))
	assert.Equal(t, "", fmtInt(nil))
	assert.Equal(t, "7", fmtInt(ptrI(7)))
}
