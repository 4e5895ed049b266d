package entity

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
)

// The regex and keyword tables below are ordered: the first match wins, so
// table order decides precedence (e.g. "cod" before "cash", "kal" before
// the numeric clock patterns it may precede).
var (
	weightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.?\d*)\s*kg`),
		regexp.MustCompile(`(\d+\.?\d*)\s*kgs`),
		regexp.MustCompile(`(\d+\.?\d*)\s*kilogram`),
		regexp.MustCompile(`(\d+\.?\d*)\s*kilos`),
	}

	packagesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*box`),
		regexp.MustCompile(`(\d+)\s*package`),
		regexp.MustCompile(`(\d+)\s*parcel`),
		regexp.MustCompile(`(\d+)\s*item`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2})\s*(am|pm)`),
		regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)?`),
		regexp.MustCompile(`(\d{1,2})\s*baje`),
	}

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[6-9]\d{9}\b`),
		regexp.MustCompile(`\+91[\s-]?[6-9]\d{9}\b`),
	}
)

var timeKeywords = []struct {
	keyword string
	value   string
}{
	{"morning", "morning"},
	{"afternoon", "afternoon"},
	{"evening", "evening"},
	{"night", "night"},
	{"kal", "tomorrow"},
	{"aaj", "today"},
	{"parso", "day_after_tomorrow"},
}

var fragileKeywords = []string{"fragile", "breakable", "handle carefully", "delicate"}

var paymentKeywords = []struct {
	keyword string
	mode    string
}{
	{"cod", "COD"},
	{"cash on delivery", "COD"},
	{"cash", "COD"},
	{"prepaid", "prepaid"},
	{"online", "prepaid"},
	{"upi", "prepaid"},
	{"card", "prepaid"},
}

var titleCaser = cases.Title(language.English)

// Extractor runs the full rule set over a query. The recognizer is
// consulted first for location spans; when it fails the extractor degrades
// to gazetteer-only matching rather than failing the query.
type Extractor struct {
	recognizer LocationRecognizer
	log        logger.Logger
}

// New creates an Extractor. A nil recognizer disables NER lookups.
func New(recognizer LocationRecognizer, log logger.Logger) *Extractor {
	if recognizer == nil {
		recognizer = NoopRecognizer{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Extractor{recognizer: recognizer, log: log}
}

// Extract pulls every supported field out of the query text. Rules never
// fail: a field with no match is simply left nil.
func (e *Extractor) Extract(ctx context.Context, text string) *Set {
	lower := strings.ToLower(text)

	set := &Set{}
	e.extractLocations(ctx, text, lower, set)
	set.WeightKg = extractWeight(lower)
	set.Packages = extractPackages(lower)
	set.PickupTime = extractTime(lower)
	set.Fragile = extractFragile(lower)
	set.PaymentMode = extractPayment(lower)
	set.PhoneNumber = extractPhone(text)
	return set
}

// extractLocations merges NER spans with gazetteer hits, deduplicates
// preserving first appearance, then assigns positionally: with two or more
// places the first is the pickup and the second the drop; with exactly one
// the surrounding cue words decide which side it lands on.
func (e *Extractor) extractLocations(ctx context.Context, text, lower string, set *Set) {
	var locations []string

	spans, err := e.recognizer.Locations(ctx, text)
	if err != nil {
		e.log.Warn("location recognizer unavailable, falling back to gazetteer", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		locations = append(locations, spans...)
	}

	for _, place := range gazetteer {
		if strings.Contains(lower, place) {
			locations = append(locations, titleCaser.String(place))
		}
	}

	seen := make(map[string]bool, len(locations))
	deduped := locations[:0]
	for _, loc := range locations {
		if !seen[loc] {
			seen[loc] = true
			deduped = append(deduped, loc)
		}
	}
	locations = deduped

	switch {
	case len(locations) >= 2:
		set.PickupLocation = &locations[0]
		set.DropLocation = &locations[1]
	case len(locations) == 1:
		if strings.Contains(lower, "pickup") || strings.Contains(lower, "se") {
			set.PickupLocation = &locations[0]
		} else if strings.Contains(lower, "drop") || strings.Contains(lower, "delivery") {
			set.DropLocation = &locations[0]
		}
	}
}

func extractWeight(lower string) *float64 {
	for _, pattern := range weightPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			if w, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &w
			}
		}
	}
	return nil
}

func extractPackages(lower string) *int {
	for _, pattern := range packagesPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}

func extractTime(lower string) *string {
	for _, kw := range timeKeywords {
		if strings.Contains(lower, kw.keyword) {
			v := kw.value
			return &v
		}
	}
	for _, pattern := range timePatterns {
		if m := pattern.FindString(lower); m != "" {
			return &m
		}
	}
	return nil
}

func extractFragile(lower string) bool {
	for _, kw := range fragileKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func extractPayment(lower string) *string {
	for _, kw := range paymentKeywords {
		if strings.Contains(lower, kw.keyword) {
			mode := kw.mode
			return &mode
		}
	}
	return nil
}

// extractPhone runs on the raw text so the +91 prefix survives
// normalization. The bare 10-digit form is tried first; the country-code
// form returns the full matched substring, prefix included.
func extractPhone(text string) *string {
	for _, pattern := range phonePatterns {
		if m := pattern.FindString(text); m != "" {
			return &m
		}
	}
	return nil
}
