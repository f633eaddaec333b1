package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleItem() Item {
	item := Item{
		ID:        "12345678",
		Name:      "Cozy Loft in the Old Town",
		RoomType:  "Entire loft",
		Amenities: []string{"Wifi", "Kitchen", "Washer"},
		Stars:     floatPtr(4.87),
		Location:  &LatLng{Lat: 52.52, Lng: 13.405},
		City:      "Berlin",
		Guests:    intPtr(4),
		BedLabel:  "2 beds",
		BathLabel: "1.5 baths",
		Bedrooms:  intPtr(1),
		PrimaryHost: &Host{
			ID:           987654,
			FirstName:    "Mara",
			IsSuperhost:  true,
			ResponseRate: "100%",
			ResponseTime: "within an hour",
		},
		Photos: []Photo{
			{Caption: "Sunlit living room", Large: "https://img.example/1.jpg"},
			{Caption: "", Large: "https://img.example/2.jpg"},
		},
		SEOHeading: "Loft in Berlin",
	}
	item.Reviews = &struct {
		ReviewsCount *int `json:"reviewsCount"`
	}{ReviewsCount: intPtr(132)}
	item.ReviewDetails = &struct {
		ReviewSummary []RatingEntry `json:"reviewSummary"`
	}{ReviewSummary: []RatingEntry{
		{LocalizedRating: floatPtr(4.9)},  // accuracy
		{LocalizedRating: floatPtr(4.8)},  // communication
		{LocalizedRating: floatPtr(4.95)}, // cleanliness
		{LocalizedRating: floatPtr(4.7)},  // location
		{LocalizedRating: floatPtr(4.85)}, // check-in
		{LocalizedRating: floatPtr(4.6)},  // value
	}}
	item.SectionedDescription = &struct {
		Heading     string `json:"heading"`
		Description string `json:"description"`
	}{Heading: "Loft in Berlin", Description: "A bright loft by the Spree."}
	return item
}

func TestMapItem(t *testing.T) {
	fields := MapItem(sampleItem())

	assert.Equal(t, "Cozy Loft in the Old Town", fields[domain.FieldHeadline])
	assert.Equal(t, "Entire loft", fields[domain.FieldPropertyType])
	assert.Equal(t, "Wifi, Kitchen, Washer", fields[domain.FieldAmenitiesList])
	assert.Equal(t, 4.87, fields[domain.FieldOverallRating])
	assert.Equal(t, "52.52, 13.405", fields[domain.FieldLatLong])
	assert.Equal(t, 4, fields[domain.FieldMaximumGuests])
	assert.Equal(t, 2, fields[domain.FieldNumberOfBeds])
	assert.Equal(t, 1, fields[domain.FieldBathrooms], "1.5 baths parses its leading integer")
	assert.Equal(t, "Mara", fields[domain.FieldHostName])
	assert.Equal(t, "987654", fields[domain.FieldHostID])
	assert.Equal(t, "Yes", fields[domain.FieldSuperhost])
	assert.Equal(t, "A bright loft by the Spree.", fields[domain.FieldDescription])
	assert.Equal(t, "https://img.example/1.jpg", fields[domain.FieldCoverPhotoURL])
	assert.Equal(t, "Sunlit living room", fields[domain.FieldCoverPhotoCaption])
	assert.Equal(t, 132, fields[domain.FieldNumberOfReviews])
	assert.Equal(t, "Loft in Berlin", fields[domain.FieldSEOHeading])
}

func TestMapItemRatingOrder(t *testing.T) {
	fields := MapItem(sampleItem())

	// Sub-ratings arrive as positional slots, not named keys.
	assert.Equal(t, 4.9, fields[domain.FieldAccuracyRating])
	assert.Equal(t, 4.8, fields[domain.FieldCommunication])
	assert.Equal(t, 4.95, fields[domain.FieldCleanliness])
	assert.Equal(t, 4.7, fields[domain.FieldLocationRating])
	assert.Equal(t, 4.85, fields[domain.FieldCheckInRating])
	assert.Equal(t, 4.6, fields[domain.FieldValueRating])
}

func TestMapItemPhotoNotes(t *testing.T) {
	fields := MapItem(sampleItem())

	notes, ok := fields[domain.FieldPhotoNotes].(string)
	require.True(t, ok)
	assert.Equal(t,
		"1. Sunlit living room - https://img.example/1.jpg\n2. No caption - https://img.example/2.jpg",
		notes)
}

func TestMapItemSparse(t *testing.T) {
	fields := MapItem(Item{Name: "Bare listing"})

	assert.Equal(t, "Bare listing", fields[domain.FieldHeadline])
	assert.Equal(t, "No", fields[domain.FieldSuperhost])
	assert.Equal(t, "", fields[domain.FieldPhotoNotes])

	// Absent numbers are omitted entirely, not zeroed.
	_, hasRating := fields[domain.FieldOverallRating]
	assert.False(t, hasRating)
	_, hasBeds := fields[domain.FieldNumberOfBeds]
	assert.False(t, hasBeds)
}

func TestMapItemSEOHeadingFallback(t *testing.T) {
	item := sampleItem()
	item.SEOHeading = ""
	fields := MapItem(item)
	assert.Equal(t, "Loft in Berlin", fields[domain.FieldSEOHeading], "falls back to the sectioned heading")
}

func TestParseLeadingInt(t *testing.T) {
	cases := []struct {
		label string
		want  int
		ok    bool
	}{
		{"2 beds", 2, true},
		{"1.5 baths", 1, true},
		{"10 beds", 10, true},
		{"Half-bath", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseLeadingInt(tc.label)
		assert.Equal(t, tc.ok, ok, tc.label)
		if ok {
			assert.Equal(t, tc.want, got, tc.label)
		}
	}
}

func TestExtractPromptExtras(t *testing.T) {
	extras := ExtractPromptExtras(sampleItem())
	assert.Equal(t, "12345678", extras.ListingID)
	assert.Equal(t, "100%", extras.HostResponseRate)
	assert.Equal(t, "within an hour", extras.HostResponseTime)

	assert.Equal(t, PromptExtras{}, ExtractPromptExtras(Item{}))
}
