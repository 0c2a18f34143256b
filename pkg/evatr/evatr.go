// Package evatr provides a client for the German eVatR service
// (Bundeszentralamt für Steuern) that confirms foreign EU VAT identification numbers.
//
// Example usage:
//
//	client := evatr.NewClient()
//	query := evatr.NewQualifiedQuery("DE123456789", "ATU12345678", "Test GmbH", "Wien")
//	result, err := client.VerifyVatID(ctx, query)
//	if err != nil {
//	    if evatr.IsService(err) {
//	        // transient, the caller may retry later
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Println(result.IsValid())
//
// The client never retries, caches or rate-limits; those are caller concerns.
package evatr

import (
	"github.com/rezonia/evatr-go/internal/client"
	"github.com/rezonia/evatr-go/internal/model"
)

// Re-export core types for public API
type (
	Client             = client.Client
	ClientOption       = client.ClientOption
	HTTPDoer           = client.HTTPDoer
	StatusError        = client.StatusError
	ConfirmationQuery  = model.ConfirmationQuery
	QueryOption        = model.QueryOption
	ConfirmationResult = model.ConfirmationResult
	StatusMessage      = model.StatusMessage
	MemberState        = model.MemberState
	StatusCode         = model.StatusCode
	ComparisonResult   = model.ComparisonResult
)

// Re-export error types
type (
	Error       = model.Error
	Kind        = model.Kind
	DecodeError = model.DecodeError
)

// Re-export error kinds
const (
	KindTransport  = model.KindTransport
	KindValidation = model.KindValidation
	KindForbidden  = model.KindForbidden
	KindNotFound   = model.KindNotFound
	KindService    = model.KindService
	KindOther      = model.KindOther
)

// Re-export comparison outcomes
const (
	ComparisonMatch        = model.ComparisonMatch
	ComparisonMismatch     = model.ComparisonMismatch
	ComparisonNotRequested = model.ComparisonNotRequested
	ComparisonNotProvided  = model.ComparisonNotProvided
)

// Re-export the status codes callers usually branch on
const (
	StatusValid                 = model.StatusValid
	StatusValidFuture           = model.StatusValidFuture
	StatusValidPast             = model.StatusValidPast
	StatusValidQualifiedSpecial = model.StatusValidQualifiedSpecial
)

const DefaultBaseURL = client.DefaultBaseURL

// Re-export constructors and helpers
var (
	NewClient      = client.NewClient
	WithHTTPClient = client.WithHTTPClient
	WithBaseURL    = client.WithBaseURL
	WithTimeout    = client.WithTimeout
	WithUserAgent  = client.WithUserAgent

	NewSimpleQuery    = model.NewSimpleQuery
	NewQualifiedQuery = model.NewQualifiedQuery
	WithStreet        = model.WithStreet
	WithPostalCode    = model.WithPostalCode

	ParseStatusCode       = model.ParseStatusCode
	ParseComparisonResult = model.ParseComparisonResult
	StatusCodes           = model.StatusCodes

	KindOf       = model.KindOf
	IsTransport  = model.IsTransport
	IsValidation = model.IsValidation
	IsForbidden  = model.IsForbidden
	IsNotFound   = model.IsNotFound
	IsService    = model.IsService
)
