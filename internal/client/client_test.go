package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/evatr-go/internal/client"
	"github.com/rezonia/evatr-go/internal/model"
)

// newTestClient starts a server that answers every request with the given status and body
func newTestClient(t *testing.T, status int, body string) (*client.Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.contentType = r.Header.Get("Content-Type")
		captured.accept = r.Header.Get("Accept")
		captured.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return client.NewClient(client.WithBaseURL(srv.URL + "/app")), captured
}

type capturedRequest struct {
	method      string
	path        string
	contentType string
	accept      string
	body        []byte
}

func TestNewClient_Defaults(t *testing.T) {
	c := client.NewClient()
	assert.Equal(t, "https://api.evatr.vies.bzst.de/app", c.BaseURL())

	c = client.NewClient(client.WithBaseURL("https://staging.example.org/app/"))
	assert.Equal(t, "https://staging.example.org/app", c.BaseURL())
}

func TestVerifyVatID_SimpleQuery(t *testing.T) {
	c, req := newTestClient(t, http.StatusOK,
		`{"status":"evatr-0000","anfrageZeitpunkt":"2026-02-17T10:00:00Z","id":"abc-123"}`)

	result, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))
	require.NoError(t, err)

	assert.Equal(t, model.StatusValid, result.Status)
	assert.Equal(t, "2026-02-17T10:00:00Z", result.QueryTimestamp)
	require.NotNil(t, result.ID)
	assert.Equal(t, "abc-123", *result.ID)
	assert.True(t, result.IsValid())

	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/app/v1/abfrage", req.path)
	assert.Equal(t, "application/json", req.contentType)
	assert.Equal(t, "application/json", req.accept)
	assert.JSONEq(t, `{"anfragendeUstid":"DE123456789","angefragteUstid":"ATU12345678"}`, string(req.body))
}

func TestVerifyVatID_QualifiedQuery(t *testing.T) {
	c, req := newTestClient(t, http.StatusOK, `{
		"status": "evatr-0000",
		"anfrageZeitpunkt": "2026-02-17T10:00:00Z",
		"ergFirmenname": "Test GmbH",
		"ergOrt": "Berlin",
		"ergStrasse": "Teststr. 1",
		"ergPlz": "10115",
		"ergFirmennameResult": "A",
		"ergOrtResult": "A",
		"ergStrasseResult": "B",
		"ergPlzResult": "C"
	}`)

	query := model.NewQualifiedQuery("DE123456789", "ATU12345678", "Test GmbH", "Berlin",
		model.WithStreet("Teststr. 1"), model.WithPostalCode("10115"))
	result, err := c.VerifyVatID(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, "Test GmbH", *result.CompanyName)
	assert.Equal(t, model.ComparisonMatch, *result.CompanyNameResult)
	assert.Equal(t, model.ComparisonMatch, *result.CityResult)
	assert.Equal(t, model.ComparisonMismatch, *result.StreetResult)
	assert.Equal(t, model.ComparisonNotRequested, *result.PostalCodeResult)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(req.body, &sent))
	assert.Equal(t, query.ToMap(), sent)
}

func TestVerifyVatID_NonValidResult(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK,
		`{"status":"evatr-2006","anfrageZeitpunkt":"2026-02-17T10:00:00Z","gueltigAb":"2020-01-01","gueltigBis":"2024-12-31"}`)

	result, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))
	require.NoError(t, err)

	assert.Equal(t, model.StatusValidPast, result.Status)
	assert.False(t, result.IsValid())
	assert.Equal(t, "2020-01-01", *result.ValidFrom)
	assert.Equal(t, "2024-12-31", *result.ValidUntil)
}

func TestVerifyVatID_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		httpCode   int
		body       string
		wantKind   model.Kind
		wantStatus model.StatusCode
		wantMsg    string
	}{
		{
			name:       "validation",
			httpCode:   400,
			body:       `{"status":"evatr-0004","meldung":"Die anfragende USt-IdNr. ist syntaktisch inkorrekt."}`,
			wantKind:   model.KindValidation,
			wantStatus: model.StatusOwnVatIDInvalid,
			wantMsg:    "Die anfragende USt-IdNr. ist syntaktisch inkorrekt.",
		},
		{
			name:       "forbidden",
			httpCode:   403,
			body:       `{"status":"evatr-0006","meldung":"Nicht berechtigt."}`,
			wantKind:   model.KindForbidden,
			wantStatus: model.StatusUnauthorized,
			wantMsg:    "Nicht berechtigt.",
		},
		{
			name:       "not found",
			httpCode:   404,
			body:       `{"status":"evatr-2001","meldung":"Die angefragte USt-IdNr. ist nicht vergeben."}`,
			wantKind:   model.KindNotFound,
			wantStatus: model.StatusForeignVatIDNotAllocated,
			wantMsg:    "Die angefragte USt-IdNr. ist nicht vergeben.",
		},
		{
			name:       "internal server error",
			httpCode:   500,
			body:       `{"status":"evatr-2004","meldung":"Verarbeitung nicht möglich."}`,
			wantKind:   model.KindService,
			wantStatus: model.StatusProcessingUnavailable2004,
			wantMsg:    "Verarbeitung nicht möglich.",
		},
		{
			name:       "service unavailable",
			httpCode:   503,
			body:       `{"status":"evatr-1001","meldung":"Service temporär nicht verfügbar."}`,
			wantKind:   model.KindService,
			wantStatus: model.StatusServiceUnavailable1001,
			wantMsg:    "Service temporär nicht verfügbar.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.httpCode, tt.body)

			_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))
			require.Error(t, err)

			var e *model.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.httpCode, e.HTTPCode)
			require.NotNil(t, e.Status)
			assert.Equal(t, tt.wantStatus, *e.Status)
			assert.Equal(t, tt.wantMsg, e.Message)

			var se *client.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.httpCode, se.StatusCode)
			assert.Equal(t, tt.body, string(se.Body))
		})
	}
}

func TestVerifyVatID_ErrorWithoutPayload(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadGateway, `<html>Bad Gateway</html>`)

	_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))

	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, model.KindService, e.Kind)
	assert.Nil(t, e.Status)
	assert.Equal(t, 502, e.HTTPCode)
	assert.Contains(t, e.Message, "502 Bad Gateway")
	assert.True(t, e.Retryable())
}

func TestVerifyVatID_ErrorWithUnknownStatus(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadRequest, `{"status":"evatr-9999","meldung":"Neu."}`)

	_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))

	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, model.KindValidation, e.Kind)
	assert.Nil(t, e.Status)
	assert.Equal(t, "Neu.", e.Message)
}

func TestVerifyVatID_ErrorWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, http.StatusForbidden, `{"status":"evatr-0007"}`)

	_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))

	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, model.KindForbidden, e.Kind)
	assert.Equal(t, model.StatusFaultyCall, *e.Status)
	assert.Contains(t, e.Message, "403 Forbidden")
}

func TestVerifyVatID_OtherStatusFallsBackToBaseKind(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusConflict, http.StatusTooManyRequests} {
		c, _ := newTestClient(t, code, `{"status":"evatr-0008","meldung":"Zu viele Anfragen."}`)

		_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))

		var e *model.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, model.KindOther, e.Kind, "code %d", code)
		assert.Equal(t, code, e.HTTPCode)
		assert.Equal(t, model.StatusMaxQueriesReached, *e.Status)
	}
}

func TestVerifyVatID_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := client.NewClient(client.WithBaseURL(url))
	_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))

	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, model.KindTransport, e.Kind)
	assert.Equal(t, 0, e.HTTPCode)
	assert.Nil(t, e.Status)
	assert.NotNil(t, e.Cause)
	assert.Equal(t, e.Cause.Error(), e.Message)
}

func TestVerifyVatID_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := client.NewClient(client.WithBaseURL(srv.URL), client.WithTimeout(50*time.Millisecond))
	_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))

	assert.True(t, model.IsTransport(err))
}

func TestVerifyVatID_ContextCanceled(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.VerifyVatID(ctx, model.NewSimpleQuery("DE123456789", "ATU12345678"))
	assert.True(t, model.IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyVatID_MalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `not json`},
		{"unknown status", `{"status":"evatr-9999","anfrageZeitpunkt":"t"}`},
		{"missing timestamp", `{"status":"evatr-0000"}`},
		{"array", `[]`},
		{"null", `null`},
		{"trailing data", `{"status":"evatr-0000","anfrageZeitpunkt":"t"} trailing garbage {`},
		{"two objects", `{"status":"evatr-0000","anfrageZeitpunkt":"t"}{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.StatusOK, tt.body)

			_, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))
			require.Error(t, err)

			var decErr *model.DecodeError
			assert.ErrorAs(t, err, &decErr)

			var e *model.Error
			assert.False(t, errors.As(err, &e))
		})
	}
}

func TestVerifyVatID_TrailingWhitespace(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, "{\"status\":\"evatr-0000\",\"anfrageZeitpunkt\":\"t\"}\n  \n")

	result, err := c.VerifyVatID(context.Background(), model.NewSimpleQuery("DE123456789", "ATU12345678"))
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}

func TestListEndpoints_MalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null", `null`},
		{"object", `{}`},
		{"trailing data", `[] garbage`},
		{"two arrays", `[][]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.StatusOK, tt.body)
			var decErr *model.DecodeError

			states, err := c.MemberStates(context.Background())
			require.Error(t, err)
			assert.Nil(t, states)
			assert.ErrorAs(t, err, &decErr)

			messages, err := c.StatusMessages(context.Background())
			require.Error(t, err)
			assert.Nil(t, messages)
			assert.ErrorAs(t, err, &decErr)
		})
	}
}

func TestStatusMessages(t *testing.T) {
	c, req := newTestClient(t, http.StatusOK, `[
		{"status":"evatr-0000","kategorie":"success","httpcode":200,"meldung":"Die angefragte USt-IdNr. ist gültig."},
		{"status":"evatr-0002","kategorie":"error","httpcode":400,"feld":"anfragendeUstid","meldung":"Pflichtfeld fehlt."}
	]`)

	messages, err := c.StatusMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/app/v1/info/statusmeldungen", req.path)
	assert.Empty(t, req.contentType)

	assert.Equal(t, "evatr-0000", messages[0].Status)
	assert.Equal(t, 200, messages[0].HTTPCode)
	assert.Nil(t, messages[0].Field)
	require.NotNil(t, messages[1].Field)
	assert.Equal(t, "anfragendeUstid", *messages[1].Field)
}

func TestMemberStates(t *testing.T) {
	c, req := newTestClient(t, http.StatusOK, `[
		{"alpha2":"AT","name":"Österreich","verfuegbar":true},
		{"alpha2":"FR","name":"Frankreich","verfuegbar":false}
	]`)

	states, err := c.MemberStates(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, "/app/v1/info/eu_mitgliedstaaten", req.path)
	assert.Equal(t, "AT", states[0].CountryCode)
	assert.Equal(t, "Österreich", states[0].Name)
	assert.True(t, states[0].Available)
	assert.False(t, states[1].Available)
}

func TestMemberStates_Empty(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `[]`)

	states, err := c.MemberStates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestMemberStates_ServiceError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusServiceUnavailable, `{"status":"evatr-0011","meldung":"Wartung."}`)

	_, err := c.MemberStates(context.Background())
	assert.True(t, model.IsService(err))
}

// doerFunc adapts a function to client.HTTPDoer
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClient(t *testing.T) {
	var gotURL string
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusOK)
		_, _ = rec.WriteString(`[{"alpha2":"DE","name":"Deutschland","verfuegbar":true}]`)
		return rec.Result(), nil
	})

	c := client.NewClient(client.WithHTTPClient(doer), client.WithUserAgent("test"))
	states, err := c.MemberStates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://api.evatr.vies.bzst.de/app/v1/info/eu_mitgliedstaaten", gotURL)
	require.Len(t, states, 1)
	assert.Equal(t, "DE", states[0].CountryCode)
}

func TestWithHTTPClient_Error(t *testing.T) {
	cause := errors.New("proxy refused")
	c := client.NewClient(client.WithHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, cause
	})))

	_, err := c.StatusMessages(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsTransport(err))
	assert.ErrorIs(t, err, cause)
}

// failingReader returns data once and then fails
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestErrorResponse_BodyReadFailure(t *testing.T) {
	readErr := errors.New("connection reset")
	c := client.NewClient(client.WithHTTPClient(doerFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(&failingReader{data: []byte(`{"status":"evatr-`), err: readErr}),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})))

	_, err := c.MemberStates(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsService(err))
	assert.ErrorIs(t, err, readErr)

	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, []byte(`{"status":"evatr-`), se.Body)
	assert.Equal(t, readErr, se.BodyErr)

	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Nil(t, e.Status)
}

func TestErrorResponse_CleanEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadGateway, "")

	_, err := c.MemberStates(context.Background())
	require.Error(t, err)

	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, se.Body)
	assert.NoError(t, se.BodyErr)
}
