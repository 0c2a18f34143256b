package server

import (
	"github.com/rezonia/evatr-go/internal/model"
)

// VerifyRequest is the body of the verify endpoint.
// VAT IDs are passed through unchecked, the upstream service validates them.
type VerifyRequest struct {
	OwnVatID     string  `json:"ownVatId" binding:"required"`
	ForeignVatID string  `json:"foreignVatId" binding:"required"`
	CompanyName  *string `json:"companyName,omitempty"`
	City         *string `json:"city,omitempty"`
	Street       *string `json:"street,omitempty"`
	PostalCode   *string `json:"postalCode,omitempty"`
}

// VerifyResponse is the response for the verify endpoint
type VerifyResponse struct {
	*model.ConfirmationResult
	Valid      bool   `json:"valid"`
	StatusName string `json:"statusName"`
}

// StatusMessagesResponse is the response for the status messages endpoint
type StatusMessagesResponse struct {
	Messages []model.StatusMessage `json:"messages"`
}

// MemberStatesResponse is the response for the member states endpoint
type MemberStatesResponse struct {
	MemberStates []model.MemberState `json:"memberStates"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Status    string `json:"status,omitempty"`
	HTTPCode  int    `json:"httpCode,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
