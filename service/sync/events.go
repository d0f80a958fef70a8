package sync

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// PurchaseEvent is one inbound purchase row from the remote store. Only its
// PurchaseHistory projection is owned locally.
type PurchaseEvent struct {
	PurchaseCode string     `mapstructure:"purchase_code"`
	Code         string     `mapstructure:"code"`
	Name         string     `mapstructure:"name"`
	VendorName   string     `mapstructure:"vendor_name"`
	Quantity     int        `mapstructure:"quantity"`
	PricePerUnit float64    `mapstructure:"price_per_unit"`
	TotalPrice   float64    `mapstructure:"total_price"`
	PurchaseTime *time.Time `mapstructure:"purchase_time"`
}

// purchaseTimeHook parses the store's textual purchase_time format. An empty
// string decodes to a nil timestamp rather than an error.
func purchaseTimeHook(layout string) mapstructure.DecodeHookFunc {
	timeType := reflect.TypeOf(time.Time{})
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		if to != timeType && to != reflect.PointerTo(timeType) {
			return data, nil
		}
		s := data.(string)
		if s == "" {
			return nil, nil
		}
		return time.Parse(layout, s)
	}
}

// DecodeEvents converts the verbatim JSON payload from the download phase
// into typed purchase events. Rows that cannot be decoded are counted as
// malformed and skipped; a malformed row never aborts the run.
func DecodeEvents(raw interface{}, datetimeFormat string) (events []PurchaseEvent, malformed int) {
	rows, ok := raw.([]interface{})
	if !ok {
		if raw == nil {
			return nil, 0
		}
		return nil, 1
	}

	for _, row := range rows {
		var ev PurchaseEvent
		cfg := &mapstructure.DecoderConfig{
			Result:           &ev,
			WeaklyTypedInput: true,
			DecodeHook:       purchaseTimeHook(datetimeFormat),
		}
		dec, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			malformed++
			continue
		}
		if err := dec.Decode(row); err != nil {
			malformed++
			continue
		}
		if ev.Code == "" {
			malformed++
			continue
		}
		events = append(events, ev)
	}
	return events, malformed
}
