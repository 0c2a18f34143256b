package model

// StatusCode is an internal status code reported by the eVatR service
type StatusCode string

// 200 OK
const (
	StatusValid                 StatusCode = "evatr-0000"
	StatusValidFuture           StatusCode = "evatr-2002"
	StatusValidPast             StatusCode = "evatr-2006"
	StatusValidQualifiedSpecial StatusCode = "evatr-2008"
)

// 400 Bad Request
const (
	StatusFieldMissing               StatusCode = "evatr-0002"
	StatusOwnVatIDInvalid            StatusCode = "evatr-0004"
	StatusForeignVatIDInvalid        StatusCode = "evatr-0005"
	StatusMaxQueriesReached          StatusCode = "evatr-0008"
	StatusForeignVatIDSchemaMismatch StatusCode = "evatr-0012"
	StatusInvalidCountryCode         StatusCode = "evatr-2003"
)

// 403 Forbidden
const (
	StatusUnauthorized StatusCode = "evatr-0006"
	StatusFaultyCall   StatusCode = "evatr-0007"
)

// 404 Not Found
const (
	StatusForeignVatIDNotAllocated StatusCode = "evatr-2001"
	StatusOwnVatIDNotValid         StatusCode = "evatr-2005"
)

// 500 Internal Server Error
const (
	StatusProcessingUnavailable2004 StatusCode = "evatr-2004"
	StatusProcessingUnavailable2011 StatusCode = "evatr-2011"
	StatusProcessingUnavailable3011 StatusCode = "evatr-3011"
)

// 503 Service Unavailable
const (
	StatusServiceUnavailable0011 StatusCode = "evatr-0011"
	StatusServiceUnavailable1001 StatusCode = "evatr-1001"
	StatusServiceUnavailable1002 StatusCode = "evatr-1002"
	StatusServiceUnavailable1003 StatusCode = "evatr-1003"
	StatusServiceUnavailable1004 StatusCode = "evatr-1004"
)

type statusEntry struct {
	code      StatusCode
	name      string
	httpClass int
}

// statusCatalog is the registry in declaration order
var statusCatalog = []statusEntry{
	{StatusValid, "VALID", 200},
	{StatusValidFuture, "VALID_FUTURE", 200},
	{StatusValidPast, "VALID_PAST", 200},
	{StatusValidQualifiedSpecial, "VALID_QUALIFIED_SPECIAL", 200},

	{StatusFieldMissing, "FIELD_MISSING", 400},
	{StatusOwnVatIDInvalid, "OWN_VAT_ID_INVALID", 400},
	{StatusForeignVatIDInvalid, "FOREIGN_VAT_ID_INVALID", 400},
	{StatusMaxQueriesReached, "MAX_QUERIES_REACHED", 400},
	{StatusForeignVatIDSchemaMismatch, "FOREIGN_VAT_ID_SCHEMA_MISMATCH", 400},
	{StatusInvalidCountryCode, "INVALID_COUNTRY_CODE", 400},

	{StatusUnauthorized, "UNAUTHORIZED", 403},
	{StatusFaultyCall, "FAULTY_CALL", 403},

	{StatusForeignVatIDNotAllocated, "FOREIGN_VAT_ID_NOT_ALLOCATED", 404},
	{StatusOwnVatIDNotValid, "OWN_VAT_ID_NOT_VALID", 404},

	{StatusProcessingUnavailable2004, "PROCESSING_UNAVAILABLE_2004", 500},
	{StatusProcessingUnavailable2011, "PROCESSING_UNAVAILABLE_2011", 500},
	{StatusProcessingUnavailable3011, "PROCESSING_UNAVAILABLE_3011", 500},

	{StatusServiceUnavailable0011, "SERVICE_UNAVAILABLE_0011", 503},
	{StatusServiceUnavailable1001, "SERVICE_UNAVAILABLE_1001", 503},
	{StatusServiceUnavailable1002, "SERVICE_UNAVAILABLE_1002", 503},
	{StatusServiceUnavailable1003, "SERVICE_UNAVAILABLE_1003", 503},
	{StatusServiceUnavailable1004, "SERVICE_UNAVAILABLE_1004", 503},
}

var statusIndex = func() map[StatusCode]statusEntry {
	idx := make(map[StatusCode]statusEntry, len(statusCatalog))
	for _, e := range statusCatalog {
		idx[e.code] = e
	}
	return idx
}()

// ParseStatusCode looks up a wire value in the registry.
// The second return value is false for unknown codes.
func ParseStatusCode(s string) (StatusCode, bool) {
	e, ok := statusIndex[StatusCode(s)]
	if !ok {
		return "", false
	}
	return e.code, true
}

// StatusCodes returns all known status codes in registry order
func StatusCodes() []StatusCode {
	codes := make([]StatusCode, 0, len(statusCatalog))
	for _, e := range statusCatalog {
		codes = append(codes, e.code)
	}
	return codes
}

// Known reports whether the code is part of the registry
func (s StatusCode) Known() bool {
	_, ok := statusIndex[s]
	return ok
}

// Name returns the symbolic name, e.g. VALID_PAST. Unknown codes return "UNKNOWN".
func (s StatusCode) Name() string {
	if e, ok := statusIndex[s]; ok {
		return e.name
	}
	return "UNKNOWN"
}

// HTTPClass returns the HTTP status the service pairs with this code, or 0 if unknown
func (s StatusCode) HTTPClass() int {
	return statusIndex[s].httpClass
}

// IsValid reports whether the code confirms a currently valid VAT ID
func (s StatusCode) IsValid() bool {
	return s == StatusValid || s == StatusValidQualifiedSpecial
}

func (s StatusCode) String() string {
	return string(s)
}
