package entity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
)

type stubRecognizer struct {
	locations []string
	err       error
}

func (s stubRecognizer) Locations(ctx context.Context, text string) ([]string, error) {
	return s.locations, s.err
}

func newTestExtractor(t *testing.T) *Extractor {
	return New(nil, logger.NewTestLogger(t))
}

func TestExtract_Weight(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *float64
	}{
		{name: "integer kg", text: "send 10kg to delhi", expected: ptr(10.0)},
		{name: "decimal kilograms", text: "it weighs 10.5 kilograms", expected: ptr(10.5)},
		{name: "kgs suffix", text: "around 7 kgs of books", expected: ptr(7.0)},
		{name: "kilos", text: "parcel of 3 kilos", expected: ptr(3.0)},
		{name: "spelled out numbers ignored", text: "ten kg parcel", expected: nil},
		{name: "no weight", text: "book a pickup", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := newTestExtractor(t).Extract(context.Background(), tt.text)
			if tt.expected == nil {
				assert.Nil(t, set.WeightKg)
			} else {
				require.NotNil(t, set.WeightKg)
				assert.Equal(t, *tt.expected, *set.WeightKg)
			}
		})
	}
}

func TestExtract_Packages(t *testing.T) {
	tests := []struct {
		text     string
		expected *int
	}{
		{"2 boxes hai", ptr(2)},
		{"send 3 packages", ptr(3)},
		{"1 parcel to delhi", ptr(1)},
		{"5 items total", ptr(5)},
		{"2 parcels and 3 boxes", ptr(3)},
		{"1 item in 4 packages", ptr(4)},
		{"a few boxes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			set := newTestExtractor(t).Extract(context.Background(), tt.text)
			if tt.expected == nil {
				assert.Nil(t, set.Packages)
			} else {
				require.NotNil(t, set.Packages)
				assert.Equal(t, *tt.expected, *set.Packages)
			}
		})
	}
}

func TestExtract_PickupTime(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *string
	}{
		{name: "morning keyword", text: "pickup in the morning", expected: ptr("morning")},
		{name: "kal maps to tomorrow", text: "pickup kal please", expected: ptr("tomorrow")},
		{name: "aaj maps to today", text: "aaj hi chahiye", expected: ptr("today")},
		{name: "parso maps to day after", text: "parso pickup karna", expected: ptr("day_after_tomorrow")},
		{name: "keyword outranks clock time", text: "kal 5 pm pickup", expected: ptr("tomorrow")},
		{name: "am pm clock", text: "pickup at 5 pm", expected: ptr("5 pm")},
		{name: "colon clock", text: "come at 10:30", expected: ptr("10:30")},
		{name: "baje", text: "11 baje aana", expected: ptr("11 baje")},
		{name: "nothing", text: "book a pickup", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := newTestExtractor(t).Extract(context.Background(), tt.text)
			if tt.expected == nil {
				assert.Nil(t, set.PickupTime)
			} else {
				require.NotNil(t, set.PickupTime)
				assert.Equal(t, *tt.expected, *set.PickupTime)
			}
		})
	}
}

func TestExtract_Fragile(t *testing.T) {
	assert.True(t, newTestExtractor(t).Extract(context.Background(), "FRAGILE items inside").Fragile)
	assert.True(t, newTestExtractor(t).Extract(context.Background(), "please handle carefully").Fragile)
	assert.True(t, newTestExtractor(t).Extract(context.Background(), "very delicate glassware").Fragile)
	assert.False(t, newTestExtractor(t).Extract(context.Background(), "normal boxes").Fragile)
}

func TestExtract_PaymentMode(t *testing.T) {
	tests := []struct {
		text     string
		expected *string
	}{
		{"payment by cod", ptr("COD")},
		{"cash on delivery chahiye", ptr("COD")},
		{"i will pay cash", ptr("COD")},
		{"prepaid shipment", ptr("prepaid")},
		{"paid online already", ptr("prepaid")},
		{"upi accepted?", ptr("prepaid")},
		{"can i use my card", ptr("prepaid")},
		{"no payment mentioned", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			set := newTestExtractor(t).Extract(context.Background(), tt.text)
			if tt.expected == nil {
				assert.Nil(t, set.PaymentMode)
			} else {
				require.NotNil(t, set.PaymentMode)
				assert.Equal(t, *tt.expected, *set.PaymentMode)
			}
		})
	}
}

func TestExtract_PhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *string
	}{
		{name: "bare ten digits", text: "call me on 9876543210", expected: ptr("9876543210")},
		{name: "spaced country code matches bare digits", text: "number is +91 9876543210", expected: ptr("9876543210")},
		{name: "dashed country code matches bare digits", text: "reach me at +91-8123456789", expected: ptr("8123456789")},
		{name: "joined country code kept in full", text: "call +919876543210", expected: ptr("+919876543210")},
		{name: "starts below six rejected", text: "code 1234567890 here", expected: nil},
		{name: "too short", text: "otp 987654", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := newTestExtractor(t).Extract(context.Background(), tt.text)
			if tt.expected == nil {
				assert.Nil(t, set.PhoneNumber)
			} else {
				require.NotNil(t, set.PhoneNumber)
				assert.Equal(t, *tt.expected, *set.PhoneNumber)
			}
		})
	}
}

func TestExtract_Locations(t *testing.T) {
	t.Run("two places assigned positionally", func(t *testing.T) {
		set := newTestExtractor(t).Extract(context.Background(), "ship from Mumbai to Delhi")
		require.NotNil(t, set.PickupLocation)
		require.NotNil(t, set.DropLocation)
		assert.Equal(t, "Mumbai", *set.PickupLocation)
		assert.Equal(t, "Delhi", *set.DropLocation)
	})

	t.Run("gazetteer order decides position not word order", func(t *testing.T) {
		// "delhi" precedes "noida" in the gazetteer even when the query
		// mentions Noida first.
		set := newTestExtractor(t).Extract(context.Background(), "noida and delhi shipment")
		require.NotNil(t, set.PickupLocation)
		require.NotNil(t, set.DropLocation)
		assert.Equal(t, "Delhi", *set.PickupLocation)
		assert.Equal(t, "Noida", *set.DropLocation)
	})

	t.Run("single place with pickup cue", func(t *testing.T) {
		set := newTestExtractor(t).Extract(context.Background(), "pickup from Powai tomorrow")
		require.NotNil(t, set.PickupLocation)
		assert.Equal(t, "Powai", *set.PickupLocation)
		assert.Nil(t, set.DropLocation)
	})

	t.Run("single place with delivery cue", func(t *testing.T) {
		set := newTestExtractor(t).Extract(context.Background(), "delivery to Rohini")
		require.NotNil(t, set.DropLocation)
		assert.Equal(t, "Rohini", *set.DropLocation)
		assert.Nil(t, set.PickupLocation)
	})

	t.Run("single place without cue stays unassigned", func(t *testing.T) {
		set := newTestExtractor(t).Extract(context.Background(), "what about Dwarka")
		assert.Nil(t, set.PickupLocation)
		assert.Nil(t, set.DropLocation)
	})

	t.Run("multiword locality is title cased", func(t *testing.T) {
		set := newTestExtractor(t).Extract(context.Background(), "pickup navi mumbai se")
		require.NotNil(t, set.PickupLocation)
		// "mumbai" matches before "navi mumbai" in gazetteer order.
		assert.Equal(t, "Mumbai", *set.PickupLocation)
		require.NotNil(t, set.DropLocation)
		assert.Equal(t, "Navi Mumbai", *set.DropLocation)
	})
}

func TestExtract_RecognizerSpansComeFirst(t *testing.T) {
	recognizer := stubRecognizer{locations: []string{"Shivaji Nagar"}}
	extractor := New(recognizer, logger.NewNoOpLogger())

	set := extractor.Extract(context.Background(), "from shivaji nagar to mumbai")
	require.NotNil(t, set.PickupLocation)
	require.NotNil(t, set.DropLocation)
	assert.Equal(t, "Shivaji Nagar", *set.PickupLocation)
	assert.Equal(t, "Mumbai", *set.DropLocation)
}

func TestExtract_RecognizerFailureDegradesToGazetteer(t *testing.T) {
	recognizer := stubRecognizer{err: errors.New("connection refused")}
	extractor := New(recognizer, logger.NewNoOpLogger())

	set := extractor.Extract(context.Background(), "ship from mumbai to delhi")
	require.NotNil(t, set.PickupLocation)
	assert.Equal(t, "Mumbai", *set.PickupLocation)
}

func TestExtract_EndToEnd(t *testing.T) {
	set := newTestExtractor(t).Extract(context.Background(), "Pickup karna hai Andheri se Powai, 2 boxes hai")

	require.NotNil(t, set.PickupLocation)
	require.NotNil(t, set.DropLocation)
	assert.Equal(t, "Andheri", *set.PickupLocation)
	assert.Equal(t, "Powai", *set.DropLocation)
	require.NotNil(t, set.Packages)
	assert.Equal(t, 2, *set.Packages)
	assert.Nil(t, set.WeightKg)
	assert.Nil(t, set.PickupTime)
	assert.False(t, set.Fragile)
	assert.Nil(t, set.PaymentMode)
	assert.Nil(t, set.PhoneNumber)
}

func TestSet_JSONCarriesAllKeys(t *testing.T) {
	data, err := json.Marshal(&Set{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"pickup_location", "drop_location", "weight_kg", "packages",
		"pickup_time", "fragile", "payment_mode", "phone_number",
	} {
		assert.Contains(t, raw, key)
	}
}

func TestHTTPRecognizer(t *testing.T) {
	t.Run("returns locations", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ner", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var req nerRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "from Shivaji Nagar", req.Text)

			json.NewEncoder(w).Encode(nerResponse{Locations: []string{"Shivaji Nagar"}})
		}))
		defer srv.Close()

		recognizer := NewHTTPRecognizer(srv.URL, 2*time.Second, 0)
		locations, err := recognizer.Locations(context.Background(), "from Shivaji Nagar")
		require.NoError(t, err)
		assert.Equal(t, []string{"Shivaji Nagar"}, locations)
	})

	t.Run("retries then succeeds", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(nerResponse{Locations: []string{"Mumbai"}})
		}))
		defer srv.Close()

		recognizer := NewHTTPRecognizer(srv.URL, 2*time.Second, 2)
		locations, err := recognizer.Locations(context.Background(), "mumbai")
		require.NoError(t, err)
		assert.Equal(t, []string{"Mumbai"}, locations)
		assert.Equal(t, 2, attempts)
	})

	t.Run("exhausted retries fail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		recognizer := NewHTTPRecognizer(srv.URL, time.Second, 1)
		_, err := recognizer.Locations(context.Background(), "mumbai")
		assert.Error(t, err)
	})
}

func ptr[T any](v T) *T {
	return &v
}
