package scrape

// Run statuses reported by the scrape vendor.
const (
	RunStatusReady     = "READY"
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
	RunStatusAborted   = "ABORTED"
	RunStatusTimedOut  = "TIMED-OUT"
)

// RunActive reports whether a run is still in progress.
func RunActive(status string) bool {
	return status == RunStatusReady || status == RunStatusRunning
}

// RunFailed reports whether a run ended without producing a dataset.
func RunFailed(status string) bool {
	switch status {
	case RunStatusFailed, RunStatusAborted, RunStatusTimedOut:
		return true
	}
	return false
}

// Job identifies a started scrape run and its output dataset.
type Job struct {
	RunID     string
	DatasetID string
}

// Item is the raw scraped listing as returned by the vendor dataset.
// Only the fields the mapper and prompts consume are declared.
type Item struct {
	ID          any      `json:"id"`
	Name        string   `json:"name"`
	RoomType    string   `json:"roomType"`
	Amenities   []string `json:"amenities"`
	Stars       *float64 `json:"stars"`
	Location    *LatLng  `json:"location"`
	City        string   `json:"city"`
	Guests      *int     `json:"numberOfGuests"`
	BedLabel    string   `json:"bedLabel"`
	BathLabel   string   `json:"bathroomLabel"`
	Bedrooms    *int     `json:"bedrooms"`
	PrimaryHost *Host    `json:"primaryHost"`
	Photos      []Photo  `json:"photos"`
	Reviews     *struct {
		ReviewsCount *int `json:"reviewsCount"`
	} `json:"reviews"`
	ReviewDetails *struct {
		ReviewSummary []RatingEntry `json:"reviewSummary"`
	} `json:"reviewDetailsInterface"`
	SectionedDescription *struct {
		Heading     string `json:"heading"`
		Description string `json:"description"`
	} `json:"sectionedDescription"`
	SEOHeading string `json:"seoHeading"`
}

// LatLng is a point on the map.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Host is the listing's primary host as scraped.
type Host struct {
	ID           any    `json:"id"`
	FirstName    string `json:"firstName"`
	IsSuperhost  bool   `json:"isSuperhost"`
	ResponseRate string `json:"responseRateWithoutNa"`
	ResponseTime string `json:"responseTimeWithoutNa"`
}

// Photo is one listing photo.
type Photo struct {
	Caption string `json:"caption"`
	Large   string `json:"large"`
}

// RatingEntry is one sub-rating slot. The vendor emits these in a fixed
// order: accuracy, communication, cleanliness, location, check-in, value.
type RatingEntry struct {
	LocalizedRating *float64 `json:"localizedRating"`
}
