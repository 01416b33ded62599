package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ScrapeRequest is the body sent to POST /scrape. Values are the raw form
// input; max_leads is forwarded as the string the user typed.
type ScrapeRequest struct {
	City     string `json:"city"`
	Query    string `json:"query"`
	MaxLeads string `json:"max_leads"`
}

// NewScrapeRequest builds a request from raw form values without trimming,
// coercion or validation.
func NewScrapeRequest(city, query, maxLeads string) ScrapeRequest {
	return ScrapeRequest{
		City:     city,
		Query:    query,
		MaxLeads: maxLeads,
	}
}

// StatusSuccess is the only status value that marks a finished job.
const StatusSuccess = "success"

var (
	// ErrInvalidPayload is returned for bodies that are not JSON
	ErrInvalidPayload = errors.New("response is not valid JSON")
	// ErrNullPayload is returned for a literal null body
	ErrNullPayload = errors.New("response payload is null")
	// ErrMissingSummary is returned when a success body has no summary
	ErrMissingSummary = errors.New("success response without summary")
)

var jsonNull = []byte("null")

// Summary describes a finished scrape job
type Summary struct {
	Message    string
	TotalLeads int
}

// ScrapeResponse covers both the success and failure shapes returned by
// POST /scrape. Fields are looked up by exact key; a field of the wrong
// type reads as empty. The summary is only decoded on request.
type ScrapeResponse struct {
	Status   string
	Message  string
	Filename string
	summary  json.RawMessage
}

// ParseScrapeResponse reads a POST /scrape body. Any valid JSON value other
// than null is accepted; values that are not objects carry no fields.
func ParseScrapeResponse(body []byte) (*ScrapeResponse, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, ErrInvalidPayload
	}
	if bytes.Equal(body, jsonNull) {
		return nil, ErrNullPayload
	}

	resp := &ScrapeResponse{}
	fields, ok := objectFields(body)
	if !ok {
		return resp, nil
	}
	resp.Status = stringField(fields, "status")
	resp.Message = stringField(fields, "message")
	resp.Filename = stringField(fields, "filename")
	resp.summary = fields["summary"]
	return resp, nil
}

// IsSuccess reports whether the body carries the success marker.
func (r *ScrapeResponse) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}

// Summary decodes the summary object. total_leads may be any JSON number,
// or a string holding one; fractions are truncated.
func (r *ScrapeResponse) Summary() (*Summary, error) {
	raw := bytes.TrimSpace(r.summary)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil, ErrMissingSummary
	}

	s := &Summary{}
	fields, ok := objectFields(raw)
	if !ok {
		return s, nil
	}
	s.Message = stringField(fields, "message")
	s.TotalLeads = intField(fields, "total_leads")
	return s, nil
}

func objectFields(raw []byte) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var v string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

func intField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int(f)
}
