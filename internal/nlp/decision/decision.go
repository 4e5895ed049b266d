// Package decision maps a classified intent plus its extracted entities to
// the next conversational action: which API to call, what to ask the user
// for, or where to hand the conversation off.
package decision

import (
	"fmt"
	"strings"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/entity"
)

// Directive is the decided next step for a query. Only the fields relevant
// to the chosen action are populated.
type Directive struct {
	NextAction     string                 `json:"next_action"`
	Message        string                 `json:"message,omitempty"`
	MissingFields  []string               `json:"missing_fields,omitempty"`
	OptionalFields []string               `json:"optional_fields,omitempty"`
	RequiredInfo   string                 `json:"required_info,omitempty"`
	APICall        string                 `json:"api_call,omitempty"`
	Parameters     map[string]interface{} `json:"parameters,omitempty"`
	CanProceed     bool                   `json:"can_proceed,omitempty"`
	TicketType     string                 `json:"ticket_type,omitempty"`
	Contact        string                 `json:"contact,omitempty"`
	NewTime        string                 `json:"new_time,omitempty"`
	Priority       string                 `json:"priority,omitempty"`
	AvailableModes []string               `json:"available_modes,omitempty"`
	UploadOptions  []string               `json:"upload_options,omitempty"`
	Intent         string                 `json:"intent,omitempty"`
}

type requirement struct {
	required    []string
	recommended []string
}

// intentRequirements declares which entity fields each intent needs before
// its action can run and which it merely benefits from. List order fixes
// the order fields appear in prompts.
var intentRequirements = map[string]requirement{
	"CHECK_RATE":            {required: []string{"pickup_location", "drop_location", "weight_kg"}, recommended: []string{"packages"}},
	"CHECK_SERVICEABILITY":  {required: []string{"drop_location"}, recommended: []string{"pickup_location"}},
	"BOOK_PICKUP":           {required: []string{"pickup_location", "drop_location", "packages"}, recommended: []string{"pickup_time", "weight_kg", "phone_number", "payment_mode"}},
	"RESCHEDULE_PICKUP":     {required: []string{"pickup_time"}, recommended: []string{"pickup_location"}},
	"TRACK_ORDER":           {},
	"CANCEL_ORDER":          {},
	"RAISE_COMPLAINT":       {},
	"CONNECT_TO_AGENT":      {},
	"PAYMENT_QUERY":         {},
	"DOCUMENT_UPLOAD_QUERY": {},
}

// fieldMessages are the human phrasings used when asking for a field.
var fieldMessages = map[string]string{
	"pickup_location": "pickup location",
	"drop_location":   "delivery location",
	"weight_kg":       "package weight (in kg)",
	"packages":        "number of packages",
	"pickup_time":     "preferred pickup time",
	"phone_number":    "contact number",
}

// Requirements returns the required and recommended entity fields for an
// intent, or ok=false for intents outside the closed set.
func Requirements(intent string) (required, recommended []string, ok bool) {
	req, known := intentRequirements[intent]
	if !known {
		return nil, nil, false
	}
	return append([]string(nil), req.required...), append([]string(nil), req.recommended...), true
}

// Decide resolves the next action for an intent and its entities. The
// classifier confidence is accepted for future thresholding but no rule
// consults it yet. Unknown intents are never an error: they route to a
// support fallback.
func Decide(intent string, entities *entity.Set, confidence float64) *Directive {
	if entities == nil {
		entities = &entity.Set{}
	}

	req, known := intentRequirements[intent]
	if known {
		var missing []string
		for _, field := range req.required {
			if !entities.Has(field) {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			return askMissingFields(intent, missing)
		}
	}

	switch intent {
	case "CHECK_RATE":
		return &Directive{
			NextAction: "CALCULATE_RATE",
			APICall:    "pricing_api",
			Parameters: map[string]interface{}{
				"from":   *entities.PickupLocation,
				"to":     *entities.DropLocation,
				"weight": *entities.WeightKg,
			},
			Message: "Fetching rate information...",
		}

	case "CHECK_SERVICEABILITY":
		return &Directive{
			NextAction: "CHECK_SERVICE_AREA",
			APICall:    "serviceability_api",
			Parameters: map[string]interface{}{
				"location": *entities.DropLocation,
			},
			Message: "Checking serviceability...",
		}

	case "BOOK_PICKUP":
		var wanted []string
		for _, field := range []string{"pickup_time", "phone_number"} {
			if !entities.Has(field) {
				wanted = append(wanted, field)
			}
		}
		if len(wanted) > 0 {
			return &Directive{
				NextAction:     "ASK_OPTIONAL_FIELDS",
				OptionalFields: wanted,
				Message:        fmt.Sprintf("I can book your pickup. Would you like to specify %s?", strings.Join(wanted, ", ")),
				CanProceed:     true,
			}
		}
		return &Directive{
			NextAction: "CREATE_BOOKING",
			APICall:    "booking_api",
			Parameters: entities.AsMap(),
			Message:    "Creating your pickup booking...",
		}

	case "TRACK_ORDER":
		d := &Directive{
			NextAction:   "ASK_TRACKING_INFO",
			Message:      "Please provide your AWB number or order ID to track",
			RequiredInfo: "awb_number",
		}
		if entities.PhoneNumber != nil {
			d.Contact = *entities.PhoneNumber
		}
		return d

	case "CANCEL_ORDER":
		return &Directive{
			NextAction:   "ASK_ORDER_ID",
			Message:      "Please provide your order ID or AWB number to cancel",
			RequiredInfo: "order_id",
		}

	case "RESCHEDULE_PICKUP":
		return &Directive{
			NextAction:   "ASK_ORDER_ID",
			Message:      "Please provide your booking ID to reschedule",
			RequiredInfo: "order_id",
			NewTime:      *entities.PickupTime,
		}

	case "RAISE_COMPLAINT":
		d := &Directive{
			NextAction: "CREATE_TICKET",
			Message:    "I will create a complaint ticket. Please describe your issue.",
			TicketType: "complaint",
		}
		if entities.PhoneNumber != nil {
			d.Contact = *entities.PhoneNumber
		}
		return d

	case "CONNECT_TO_AGENT":
		return &Directive{
			NextAction: "TRANSFER_TO_AGENT",
			Message:    "Connecting you to a customer service agent...",
			Priority:   "normal",
		}

	case "PAYMENT_QUERY":
		return &Directive{
			NextAction:     "PROVIDE_PAYMENT_INFO",
			Message:        "We accept COD, UPI, cards, and online payment. Which option would you prefer?",
			AvailableModes: []string{"COD", "UPI", "Card", "Net Banking"},
		}

	case "DOCUMENT_UPLOAD_QUERY":
		return &Directive{
			NextAction:    "PROVIDE_UPLOAD_LINK",
			Message:       "You can upload documents through our portal or app. What document do you need to upload?",
			UploadOptions: []string{"Invoice", "KYC", "GST Certificate", "ID Proof"},
		}
	}

	return &Directive{
		NextAction: "UNKNOWN",
		Message:    "I am not sure how to help with that. Please contact customer support.",
		Intent:     intent,
	}
}

// askMissingFields builds the prompt for required fields the query did not
// supply. Rescheduling has its own phrasing since the only thing it can be
// missing is the new time.
func askMissingFields(intent string, missing []string) *Directive {
	if intent == "RESCHEDULE_PICKUP" {
		return &Directive{
			NextAction:    "ASK_MISSING_FIELDS",
			MissingFields: missing,
			Message:       "When would you like to reschedule the pickup?",
		}
	}
	return &Directive{
		NextAction:    "ASK_MISSING_FIELDS",
		MissingFields: missing,
		Message:       missingFieldsMessage(missing),
	}
}

func missingFieldsMessage(missing []string) string {
	phrases := make([]string, len(missing))
	for i, field := range missing {
		if msg, ok := fieldMessages[field]; ok {
			phrases[i] = msg
		} else {
			phrases[i] = field
		}
	}

	if len(phrases) == 1 {
		return fmt.Sprintf("Please provide %s.", phrases[0])
	}
	return fmt.Sprintf("Please provide %s and %s.",
		strings.Join(phrases[:len(phrases)-1], ", "), phrases[len(phrases)-1])
}
