package model

import "encoding/json"

// Wire keys of the confirmation request
const (
	keyOwnVatID     = "anfragendeUstid"
	keyForeignVatID = "angefragteUstid"
	keyCompanyName  = "firmenname"
	keyCity         = "ort"
	keyStreet       = "strasse"
	keyPostalCode   = "plz"
)

// ConfirmationQuery is a request to confirm a foreign VAT ID.
// Nil optional fields are omitted from the payload.
type ConfirmationQuery struct {
	OwnVatID     string
	ForeignVatID string
	CompanyName  *string
	City         *string
	Street       *string
	PostalCode   *string
}

// QueryOption sets an optional field of a qualified query
type QueryOption func(*ConfirmationQuery)

// WithStreet adds the street to a qualified query
func WithStreet(street string) QueryOption {
	return func(q *ConfirmationQuery) {
		q.Street = &street
	}
}

// WithPostalCode adds the postal code to a qualified query
func WithPostalCode(postalCode string) QueryOption {
	return func(q *ConfirmationQuery) {
		q.PostalCode = &postalCode
	}
}

// NewSimpleQuery creates a query without qualifying company data
func NewSimpleQuery(ownVatID, foreignVatID string) ConfirmationQuery {
	return ConfirmationQuery{
		OwnVatID:     ownVatID,
		ForeignVatID: foreignVatID,
	}
}

// NewQualifiedQuery creates a query that also compares company name and city,
// and optionally street and postal code
func NewQualifiedQuery(ownVatID, foreignVatID, companyName, city string, opts ...QueryOption) ConfirmationQuery {
	q := ConfirmationQuery{
		OwnVatID:     ownVatID,
		ForeignVatID: foreignVatID,
		CompanyName:  &companyName,
		City:         &city,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// IsQualified reports whether any qualifying field is set
func (q ConfirmationQuery) IsQualified() bool {
	return q.CompanyName != nil || q.City != nil || q.Street != nil || q.PostalCode != nil
}

// ToMap returns the wire payload
func (q ConfirmationQuery) ToMap() map[string]string {
	data := map[string]string{
		keyOwnVatID:     q.OwnVatID,
		keyForeignVatID: q.ForeignVatID,
	}

	if q.CompanyName != nil {
		data[keyCompanyName] = *q.CompanyName
	}
	if q.City != nil {
		data[keyCity] = *q.City
	}
	if q.Street != nil {
		data[keyStreet] = *q.Street
	}
	if q.PostalCode != nil {
		data[keyPostalCode] = *q.PostalCode
	}

	return data
}

// MarshalJSON encodes the query in wire format
func (q ConfirmationQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.ToMap())
}
