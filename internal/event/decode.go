package event

import "encoding/json"

// DecodePayload returns the payload as T. In-process publishes carry the typed
// struct already; payloads read back from JSON (dead-letter replays) arrive as
// maps and are converted with a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
