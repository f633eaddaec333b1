package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
)

var leadingInt = regexp.MustCompile(`^(\d+)`)

// parseLeadingInt pulls the number out of vendor labels like "2 beds" or
// "1.5 baths". Labels without a leading digit map to no value.
func parseLeadingInt(label string) (int, bool) {
	m := leadingInt.FindString(label)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ratingByIndex returns the sub-rating at a fixed slot in the vendor's
// review summary, which arrives in a stable order.
func ratingByIndex(entries []RatingEntry, index int) *float64 {
	if index >= len(entries) {
		return nil
	}
	return entries[index].LocalizedRating
}

// buildPhotoNotes formats the photo list as numbered "caption - url" lines.
func buildPhotoNotes(photos []Photo) string {
	if len(photos) == 0 {
		return ""
	}
	lines := make([]string, 0, len(photos))
	for i, p := range photos {
		caption := p.Caption
		if caption == "" {
			caption = "No caption"
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, caption, p.Large))
	}
	return strings.Join(lines, "\n")
}

// MapItem converts a raw scraped listing into tabular record fields.
// Fields whose source value is absent are omitted so the store keeps
// them unset rather than zeroed.
func MapItem(item Item) map[string]any {
	fields := map[string]any{
		domain.FieldHeadline:      item.Name,
		domain.FieldPropertyType:  item.RoomType,
		domain.FieldAmenitiesList: strings.Join(item.Amenities, ", "),
		domain.FieldCity:          item.City,
		domain.FieldSEOHeading:    item.SEOHeading,
		domain.FieldPhotoNotes:    buildPhotoNotes(item.Photos),
	}

	if item.Stars != nil {
		fields[domain.FieldOverallRating] = *item.Stars
	}
	if item.Location != nil {
		fields[domain.FieldLatLong] = fmt.Sprintf("%v, %v", item.Location.Lat, item.Location.Lng)
	} else {
		fields[domain.FieldLatLong] = ""
	}
	if item.Guests != nil {
		fields[domain.FieldMaximumGuests] = *item.Guests
	}
	if n, ok := parseLeadingInt(item.BedLabel); ok {
		fields[domain.FieldNumberOfBeds] = n
	}
	if n, ok := parseLeadingInt(item.BathLabel); ok {
		fields[domain.FieldBathrooms] = n
	}
	if item.Bedrooms != nil {
		fields[domain.FieldBedrooms] = *item.Bedrooms
	}

	if host := item.PrimaryHost; host != nil {
		fields[domain.FieldHostName] = host.FirstName
		if host.ID != nil {
			fields[domain.FieldHostID] = fmt.Sprintf("%v", host.ID)
		} else {
			fields[domain.FieldHostID] = ""
		}
		if host.IsSuperhost {
			fields[domain.FieldSuperhost] = "Yes"
		} else {
			fields[domain.FieldSuperhost] = "No"
		}
	} else {
		fields[domain.FieldHostName] = ""
		fields[domain.FieldHostID] = ""
		fields[domain.FieldSuperhost] = "No"
	}

	if sd := item.SectionedDescription; sd != nil {
		fields[domain.FieldDescription] = sd.Description
		if item.SEOHeading == "" {
			fields[domain.FieldSEOHeading] = sd.Heading
		}
	} else {
		fields[domain.FieldDescription] = ""
	}

	if len(item.Photos) > 0 {
		fields[domain.FieldCoverPhotoURL] = item.Photos[0].Large
		fields[domain.FieldCoverPhotoCaption] = item.Photos[0].Caption
	} else {
		fields[domain.FieldCoverPhotoURL] = ""
		fields[domain.FieldCoverPhotoCaption] = ""
	}

	if item.Reviews != nil && item.Reviews.ReviewsCount != nil {
		fields[domain.FieldNumberOfReviews] = *item.Reviews.ReviewsCount
	}

	if item.ReviewDetails != nil {
		summary := item.ReviewDetails.ReviewSummary
		ratingFields := []string{
			domain.FieldAccuracyRating,
			domain.FieldCommunication,
			domain.FieldCleanliness,
			domain.FieldLocationRating,
			domain.FieldCheckInRating,
			domain.FieldValueRating,
		}
		for i, name := range ratingFields {
			if v := ratingByIndex(summary, i); v != nil {
				fields[name] = *v
			}
		}
	}

	return fields
}

// PromptExtras are raw vendor values the AI prompt uses but the record
// store does not keep.
type PromptExtras struct {
	ListingID        string
	HostResponseRate string
	HostResponseTime string
}

// ExtractPromptExtras pulls prompt-only values from a raw scraped item.
func ExtractPromptExtras(item Item) PromptExtras {
	extras := PromptExtras{}
	if item.ID != nil {
		extras.ListingID = fmt.Sprintf("%v", item.ID)
	}
	if host := item.PrimaryHost; host != nil {
		extras.HostResponseRate = host.ResponseRate
		extras.HostResponseTime = host.ResponseTime
	}
	return extras
}
