package sync

import (
	"encoding/json"
	"testing"
	"time"
)

const testLayout = "2006-01-02 15:04:05.000000"

func decodeJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var raw interface{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return raw
}

func TestDecodeEvents_TypedFields(t *testing.T) {
	raw := decodeJSON(t, `[{
		"purchase_code": "P-001",
		"code": "A1",
		"name": "Widget",
		"vendor_name": "Acme",
		"quantity": 3,
		"price_per_unit": 4.5,
		"total_price": 13.5,
		"purchase_time": "2025-06-01 11:58:03.000000"
	}]`)

	events, malformed := DecodeEvents(raw, testLayout)
	if malformed != 0 {
		t.Fatalf("malformed = %d, want 0", malformed)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.PurchaseCode != "P-001" || ev.Code != "A1" || ev.Quantity != 3 {
		t.Errorf("event = %+v", ev)
	}
	want := time.Date(2025, 6, 1, 11, 58, 3, 0, time.UTC)
	if ev.PurchaseTime == nil || !ev.PurchaseTime.Equal(want) {
		t.Errorf("purchase_time = %v, want %v", ev.PurchaseTime, want)
	}
}

// JSON numbers arrive as float64; quantity still decodes to an int.
func TestDecodeEvents_WeakTyping(t *testing.T) {
	raw := decodeJSON(t, `[{"code": "A1", "quantity": "7", "price_per_unit": 2}]`)

	events, malformed := DecodeEvents(raw, testLayout)
	if malformed != 0 || len(events) != 1 {
		t.Fatalf("events = %d, malformed = %d", len(events), malformed)
	}
	if events[0].Quantity != 7 {
		t.Errorf("quantity = %d, want 7", events[0].Quantity)
	}
}

func TestDecodeEvents_EmptyPurchaseTime(t *testing.T) {
	raw := decodeJSON(t, `[{"code": "A1", "quantity": 1, "purchase_time": ""}]`)

	events, malformed := DecodeEvents(raw, testLayout)
	if malformed != 0 || len(events) != 1 {
		t.Fatalf("events = %d, malformed = %d", len(events), malformed)
	}
	if events[0].PurchaseTime != nil {
		t.Errorf("purchase_time = %v, want nil", events[0].PurchaseTime)
	}
}

func TestDecodeEvents_MalformedRows(t *testing.T) {
	raw := decodeJSON(t, `[
		{"code": "A1", "quantity": 1},
		{"quantity": 2},
		{"code": "B2", "purchase_time": "not a timestamp"},
		"just a string"
	]`)

	events, malformed := DecodeEvents(raw, testLayout)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if malformed != 3 {
		t.Fatalf("malformed = %d, want 3", malformed)
	}
	if events[0].Code != "A1" {
		t.Errorf("surviving event = %+v", events[0])
	}
}

func TestDecodeEvents_NonListPayload(t *testing.T) {
	events, malformed := DecodeEvents(map[string]interface{}{"error": "nope"}, testLayout)
	if len(events) != 0 || malformed != 1 {
		t.Fatalf("events = %d, malformed = %d, want 0/1", len(events), malformed)
	}

	events, malformed = DecodeEvents(nil, testLayout)
	if len(events) != 0 || malformed != 0 {
		t.Fatalf("nil payload: events = %d, malformed = %d, want 0/0", len(events), malformed)
	}
}
