package model

// Wire keys of the confirmation response
const (
	keyStatus           = "status"
	keyQueryTimestamp   = "anfrageZeitpunkt"
	keyID               = "id"
	keyValidFrom        = "gueltigAb"
	keyValidUntil       = "gueltigBis"
	keyResCompanyName   = "ergFirmenname"
	keyResStreet        = "ergStrasse"
	keyResPostalCode    = "ergPlz"
	keyResCity          = "ergOrt"
	comparisonKeySuffix = "Result"
)

// ConfirmationResult is the answer to a ConfirmationQuery
type ConfirmationResult struct {
	Status         StatusCode `json:"status"`
	QueryTimestamp string     `json:"queryTimestamp"`
	ID             *string    `json:"id,omitempty"`
	ValidFrom      *string    `json:"validFrom,omitempty"`
	ValidUntil     *string    `json:"validUntil,omitempty"`

	// Values reported back for the qualifying fields
	CompanyName *string `json:"companyName,omitempty"`
	Street      *string `json:"street,omitempty"`
	PostalCode  *string `json:"postalCode,omitempty"`
	City        *string `json:"city,omitempty"`

	// Comparison outcomes for the qualifying fields
	CompanyNameResult *ComparisonResult `json:"companyNameResult,omitempty"`
	StreetResult      *ComparisonResult `json:"streetResult,omitempty"`
	PostalCodeResult  *ComparisonResult `json:"postalCodeResult,omitempty"`
	CityResult        *ComparisonResult `json:"cityResult,omitempty"`
}

// IsValid returns true only for VALID and VALID_QUALIFIED_SPECIAL
func (r *ConfirmationResult) IsValid() bool {
	return r.Status.IsValid()
}

// DecodeConfirmationResult builds a ConfirmationResult from a decoded JSON object.
//
// status and anfrageZeitpunkt are required; an unknown status is an error.
// Comparison outcomes are taken from the keys suffixed with "Result" only,
// and unknown letters leave the outcome nil.
func DecodeConfirmationResult(data map[string]any) (*ConfirmationResult, error) {
	rawStatus, err := requiredString(data, keyStatus)
	if err != nil {
		return nil, err
	}
	status, ok := ParseStatusCode(rawStatus)
	if !ok {
		return nil, NewDecodeError(keyStatus, "unknown status code "+rawStatus, nil)
	}

	timestamp, err := requiredString(data, keyQueryTimestamp)
	if err != nil {
		return nil, err
	}

	return &ConfirmationResult{
		Status:         status,
		QueryTimestamp: timestamp,
		ID:             optionalString(data, keyID),
		ValidFrom:      optionalString(data, keyValidFrom),
		ValidUntil:     optionalString(data, keyValidUntil),

		CompanyName: optionalString(data, keyResCompanyName),
		Street:      optionalString(data, keyResStreet),
		PostalCode:  optionalString(data, keyResPostalCode),
		City:        optionalString(data, keyResCity),

		CompanyNameResult: optionalComparison(data, keyResCompanyName+comparisonKeySuffix),
		StreetResult:      optionalComparison(data, keyResStreet+comparisonKeySuffix),
		PostalCodeResult:  optionalComparison(data, keyResPostalCode+comparisonKeySuffix),
		CityResult:        optionalComparison(data, keyResCity+comparisonKeySuffix),
	}, nil
}
