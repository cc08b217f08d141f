package order

import (
	"strconv"
)

// envelopeStrategy returns the order object if the payload has this shape.
type envelopeStrategy func(payload map[string]any) (map[string]any, bool)

// Tried in order; first structural match wins. The flat shape comes last so a
// payload with an explicit wrapper never falls through to it.
var envelopeStrategies = []envelopeStrategy{
	directOrderObject,
	firstOfList("orders"),
	firstOfList("results"),
	flatOrderObject,
}

func extractEnvelope(payload map[string]any) (map[string]any, bool) {
	for _, strategy := range envelopeStrategies {
		if env, ok := strategy(payload); ok {
			return env, true
		}
	}
	return nil, false
}

func directOrderObject(payload map[string]any) (map[string]any, bool) {
	env, ok := payload["order"].(map[string]any)
	return env, ok
}

func firstOfList(key string) envelopeStrategy {
	return func(payload map[string]any) (map[string]any, bool) {
		list, ok := payload[key].([]any)
		if !ok || len(list) == 0 {
			return nil, false
		}
		env, ok := list[0].(map[string]any)
		return env, ok
	}
}

func flatOrderObject(payload map[string]any) (map[string]any, bool) {
	if _, hasID := payload["orderId"]; !hasID {
		return nil, false
	}
	if _, hasSerial := payload["orderSerialNumber"]; !hasSerial {
		return nil, false
	}
	return payload, true
}

// emailPaths are the known nesting locations of the customer email; first
// non-empty match wins.
var emailPaths = [][]string{
	{"orderDetails", "clientResult", "clientAccountEmail"},
	{"orderDetails", "clientDeliveryAddress", "clientEmail"},
	{"clientResult", "email"},
	{"clientEmail"},
}

func extractEmail(env map[string]any) string {
	for _, path := range emailPaths {
		if email := lookupString(env, path); email != "" {
			return email
		}
	}
	return ""
}

func lookupString(m map[string]any, path []string) string {
	current := any(m)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = obj[key]
	}
	s, _ := current.(string)
	return s
}

// stringField coerces identifiers that arrive either as JSON strings or
// numbers (Idosell is not consistent about this across endpoints).
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		// A fractional quantity is garbage, not a value to truncate.
		if v != float64(int(v)) {
			return 0
		}
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
