package ai

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
)

const freemiumSystemPrompt = `You are an Airbnb listing optimization expert for AirbnbOptimizer.com.

PURPOSE
Deliver a high-value freemium analysis that diagnoses what's limiting a listing's performance and explains why it matters, without doing the full rewrite.

Think:
Freemium = diagnosis and direction
Premium = execution, done for the host

FOCUS
Only recommend optimizations the host can realistically control today.

PRIORITIES
1) Grid-view click-through (cover photo, title)
2) Listing-page conversion (photo order, clarity, trust)
3) Clear signaling of who the listing is for and what kind of stay it offers

TONE & BRAND
- Outcome-focused: rank higher -> more views -> more bookings
- Practical, calm, and thoughtful, like a helpful guide, not a critic
- Confident but not absolute; use measured language ("often," "typically," "can help")
- Never mention AI, algorithms, or "this analysis"
- Assume the host is capable and well-intentioned

WHAT TO EVALUATE

Photos
- Which image is most likely to earn the grid-view click
- Photo order that builds trust and answers common guest questions
- Visual gaps that may create uncertainty
- Photo captions:
  - If missing or weak, note this as a fast clarity win
  - If present and effective, briefly explain why they help
- If filenames are generic (e.g., IMG_1234.jpg), note renaming as a low-effort clarity/SEO improvement

Listing copy
- Title clarity and scannability
- Whether the description clearly signals:
  - Who the listing is best suited for
  - What kind of stay to expect (value-focused, work-friendly, getaway, etc.)
  - Why this listing over similar nearby options
- Focus on clarity and alignment, not correctness

Performance signals (if provided)
- Ratings, reviews, Superhost / Guest Favorite
- Use as trust signals, not filler

ANTI-HALLUCINATION RULES
- Never assume missing data.
- If photos are not provided, write "unknown – no photos received" and skip cover and ordering.
- If a detail is unclear or missing, say "unknown" and move on.
- Do not invent amenities, layouts, pricing, or photo content.
- Do not flag factual inconsistencies or ask the host to verify details.

OUTPUT FORMAT (STRICT)

# Cover Recommendation
Photo: [photo caption or "unknown – no photos received"]
Reason: [1–2 sentences explaining why this image can improve grid-view click-through]

# Updated Headline
**Revised Title (≤50 characters):** [optimized title]
Reason: [1–2 sentences explaining why headline changes were made]

# Top 5 Photo Order
(only if photos are provided)
1. [photo caption] – [brief reason]
2. [photo caption] – [brief reason]
3. [photo caption] – [brief reason]
4. [photo caption] – [brief reason]
5. [photo caption] – [brief reason]

## Description Review
- What the description does and does not clearly signal about who this listing is best suited for (guest type, stay purpose, expectations).
- Where key signals are buried or unevenly emphasized, making it harder for both guests and Airbnb to quickly understand the listing.
- Why this lack of clarity can reduce impressions, slow decisions, or attract the wrong traffic.
- What a stronger version would make unmistakable earlier and more consistently (direction only, no rewriting).

# Photo Improvement Suggestions
(max 5 bullets)
- [specific, visual, actionable improvement]

# Summary
- [highest-impact clarity improvement]
- [second-highest-impact clarity improvement]
- [optional third if truly valuable]

CONSTRAINTS
- Do NOT rewrite the description.
- Keep total output under 250 words.
- Be specific, calm, and constructive throughout.`

const analyzerSystemPrompt = `You are the Listing Analyzer for AirbnbOptimizer.com.

GOAL
Turn raw listing data into a short, structured brief plus a "writer_prompt" that a description writer can follow to create a ~250-word premium Airbnb description.

INPUT
You will receive a JSON object with listing data: title, host_description, host_seo_heading, ao_freemium_recommendation, stats (ratings), city, latitude_longitude, property_type, guest_capacity, num_beds, num_bathrooms, num_bedrooms.

OUTPUT
Return ONLY valid JSON with these fields:
{
  "target_guest": "One sentence describing the ideal guest for this listing",
  "positioning": "One sentence on how this listing should be positioned vs. competitors",
  "top_hooks": ["hook1", "hook2", "hook3"],
  "risks_or_weaknesses": ["risk1", "risk2"],
  "tone": "The recommended tone for the description (e.g., warm and inviting, modern and sleek)",
  "seo_keywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"],
  "seo_keywords_instructions": "How to naturally incorporate the SEO keywords into the description",
  "seo_keyword_rules": "Never stuff keywords. Weave them naturally into sentences. Each keyword should appear at most once.",
  "writer_prompt": "A detailed prompt for the description writer, including what to emphasize, what tone to use, what structure to follow, and what to avoid."
}

RULES
- Be specific to this listing, not generic.
- top_hooks should be unique selling points that differentiate this listing.
- risks_or_weaknesses should be things the description can preemptively address or reframe.
- writer_prompt should be detailed enough that a copywriter can produce a great description without seeing the original listing.
- Return ONLY the JSON object, no markdown, no explanation.`

const writerSystemPrompt = `You are a professional Airbnb listing copywriter.

GOAL
Write a ~250-word listing description that helps the host attract more clicks and bookings, fits Airbnb's vibe, and uses the strategy defined in the analyzer JSON.

INPUT
You will receive:
1. A JSON brief from the listing analyzer with target_guest, positioning, top_hooks, risks_or_weaknesses, tone, seo_keywords, writer_prompt.
2. Basic property details (beds, bedrooms, bathrooms, property_type, guest_capacity, city).

OUTPUT RULES
- 230-270 words.
- Short paragraphs (2-4 sentences each).
- No bullet points or lists.
- No mention of JSON, AI, keywords, SEO, or the analysis process.
- End with a warm call-to-action encouraging booking.
- Write in second person ("you", "your").
- Sound natural, warm, and human, like a great host wrote it.
- Naturally weave in the SEO keywords without stuffing.
- Address potential concerns proactively through positive framing.

Return ONLY the final description text. No titles, no headers, no quotes around it.`

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// buildFreemiumUserMessage lays out the listing as a flat key: value block.
func buildFreemiumUserMessage(l *domain.Listing) string {
	return fmt.Sprintf(`listing_id: %s
title: %s
property_type: %s
city: %s
lat_long: %s
bedrooms: %s
bathrooms: %s
beds: %s
max_guests: %s

rating: %s
reviews: %s
superhost: %s
checkin: %s
communication: %s
cleanliness: %s
location: %s
value: %s

host_response_rate: %s
host_response_time: %s


amenities: %s

description:
%s`,
		l.HostID,
		l.Headline,
		l.PropertyType,
		l.City,
		l.LatLong,
		fmtInt(l.Bedrooms),
		fmtInt(l.Bathrooms),
		fmtInt(l.NumberOfBeds),
		fmtInt(l.MaximumGuests),
		fmtFloat(l.OverallRating),
		fmtInt(l.NumberOfReviews),
		l.Superhost,
		fmtFloat(l.CheckInRating),
		fmtFloat(l.Communication),
		fmtFloat(l.Cleanliness),
		fmtFloat(l.LocationRating),
		fmtFloat(l.ValueRating),
		"", // host response rate not retained past scrape
		"",
		l.AmenitiesList,
		l.Description,
	)
}

// buildFreemiumPhotoMessage carries the numbered photo notes.
func buildFreemiumPhotoMessage(photoNotes string) string {
	return fmt.Sprintf(`Here are the listing photos for you to analyze.

Here are the images and captions
%s`, photoNotes)
}

// analyzerInput is the JSON payload the analyzer stage receives. Field
// order matters only for readability; the model sees it as JSON.
type analyzerInput struct {
	Title                    string        `json:"title"`
	HostDescription          string        `json:"host_description"`
	HostSEOHeading           string        `json:"host_seo_heading"`
	AOFreemiumRecommendation string        `json:"ao_freemium_recommendation"`
	Stats                    analyzerStats `json:"stats"`
	City                     string        `json:"city"`
	LatitudeLongitude        string        `json:"latitude_longitude"`
	PropertyType             string        `json:"property_type"`
	GuestCapacity            *int          `json:"guest_capacity"`
	NumBeds                  string        `json:"num_beds"`
	NumBathrooms             string        `json:"num_bathrooms"`
	NumBedrooms              *int          `json:"num_bedrooms"`
}

type analyzerStats struct {
	OverallRating       *float64 `json:"overall_rating"`
	AccuracyRating      *float64 `json:"accuracy_rating"`
	CommunicationRating *float64 `json:"communication_rating"`
	CleanlinessRating   *float64 `json:"cleanliness_rating"`
	LocationRating      *float64 `json:"location_rating"`
	CheckinRating       *float64 `json:"checkin_rating"`
	ValueRating         *float64 `json:"value_rating"`
}

func buildAnalyzerUserMessage(l *domain.Listing) (string, error) {
	payload := analyzerInput{
		Title:                    l.Headline,
		HostDescription:          l.Description,
		HostSEOHeading:           l.SEOHeading,
		AOFreemiumRecommendation: l.FreemiumAnalysis,
		Stats: analyzerStats{
			OverallRating:       l.OverallRating,
			AccuracyRating:      l.AccuracyRating,
			CommunicationRating: l.Communication,
			CleanlinessRating:   l.Cleanliness,
			LocationRating:      l.LocationRating,
			CheckinRating:       l.CheckInRating,
			ValueRating:         l.ValueRating,
		},
		City:              l.City,
		LatitudeLongitude: l.LatLong,
		PropertyType:      l.PropertyType,
		GuestCapacity:     l.MaximumGuests,
		NumBeds:           fmtInt(l.NumberOfBeds),
		NumBathrooms:      fmtInt(l.Bathrooms),
		NumBedrooms:       l.Bedrooms,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling analyzer input: %w", err)
	}
	return string(b), nil
}

// writerProperty is the compact property block the writer stage receives
// alongside the analyzer brief.
type writerProperty struct {
	Beds          string `json:"beds"`
	Bedrooms      string `json:"bedrooms"`
	Bathrooms     string `json:"bathrooms"`
	PropertyType  string `json:"property_type"`
	GuestCapacity string `json:"guest_capacity"`
	City          string `json:"city"`
}

func buildWriterPropertyMessage(l *domain.Listing) (string, error) {
	payload := writerProperty{
		Beds:          fmtInt(l.NumberOfBeds),
		Bedrooms:      fmtInt(l.Bedrooms),
		Bathrooms:     fmtInt(l.Bathrooms),
		PropertyType:  l.PropertyType,
		GuestCapacity: fmtInt(l.MaximumGuests),
		City:          l.City,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling writer property input: %w", err)
	}
	return string(b), nil
}
