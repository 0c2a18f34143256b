package model

import "fmt"

// StatusMessage is one entry of the service's status message catalog
type StatusMessage struct {
	Status   string  `json:"status"`
	Category string  `json:"category"`
	HTTPCode int     `json:"httpCode"`
	Message  string  `json:"message"`
	Field    *string `json:"field,omitempty"`
}

// DecodeStatusMessage builds a StatusMessage from a decoded JSON object
func DecodeStatusMessage(data map[string]any) (*StatusMessage, error) {
	status, err := requiredString(data, "status")
	if err != nil {
		return nil, err
	}
	category, err := requiredString(data, "kategorie")
	if err != nil {
		return nil, err
	}
	httpCode, err := requiredInt(data, "httpcode")
	if err != nil {
		return nil, err
	}
	message, err := requiredString(data, "meldung")
	if err != nil {
		return nil, err
	}

	return &StatusMessage{
		Status:   status,
		Category: category,
		HTTPCode: httpCode,
		Message:  message,
		Field:    optionalString(data, "feld"),
	}, nil
}

// MemberState is an EU member state as listed by the service
type MemberState struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
	Available   bool   `json:"available"`
}

// DecodeMemberState builds a MemberState from a decoded JSON object
func DecodeMemberState(data map[string]any) (*MemberState, error) {
	code, err := requiredString(data, "alpha2")
	if err != nil {
		return nil, err
	}
	name, err := requiredString(data, "name")
	if err != nil {
		return nil, err
	}
	available, err := requiredBool(data, "verfuegbar")
	if err != nil {
		return nil, err
	}

	return &MemberState{
		CountryCode: code,
		Name:        name,
		Available:   available,
	}, nil
}

// DecodeStatusMessages decodes a list in wire order
func DecodeStatusMessages(items []map[string]any) ([]StatusMessage, error) {
	return decodeList(items, DecodeStatusMessage)
}

// DecodeMemberStates decodes a list in wire order
func DecodeMemberStates(items []map[string]any) ([]MemberState, error) {
	return decodeList(items, DecodeMemberState)
}

func decodeList[T any](items []map[string]any, decode func(map[string]any) (*T, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := decode(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, *v)
	}
	return out, nil
}
