package models

import "time"

// Case is an adverse-event report. Country holds an ISO 3166-1 alpha-2
// code or is empty.
type Case struct {
	ID             string    `json:"id"`
	ReportedByID   string    `json:"reportedById"`
	ReportedByName string    `json:"reportedByName"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	Country        string    `json:"country"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CaseInput carries the client-supplied fields of a new case.
type CaseInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	ReportedByName string   `json:"reportedByName"`
	Country        string   `json:"country"`
}

// CaseUpdate is a partial update; nil fields are left unchanged.
type CaseUpdate struct {
	Title       *string
	Description *string
}
