package domain

import "time"

// FormSubmission is a denormalized copy of one Google Form response. Rows are
// written once by the webhook and never updated or deleted. The JSON tags
// match the camelCase projection the dashboard consumes.
type FormSubmission struct {
	ID               int64     `json:"id"`
	Timestamp        string    `json:"timestamp"`
	Role             string    `json:"role"`
	Dials            int       `json:"dials"`
	PickUps          int       `json:"pickUps"`
	DQs              int       `json:"dqs"`
	ApptsPitched     int       `json:"apptsPitched"`
	ApptsSet         int       `json:"apptsSet"`
	HybridCloser     string    `json:"hybridCloser"`
	CallsScheduled   int       `json:"callsScheduled"`
	LiveCalls        int       `json:"liveCalls"`
	ProspectEmail    string    `json:"prospectEmail"`
	CallDate         string    `json:"callDate"`
	OfferMade        string    `json:"offerMade"`
	CallOutcome      string    `json:"callOutcome"`
	CashCollected    float64   `json:"cashCollected"`
	RevenueGenerated float64   `json:"revenueGenerated"`
	CallNotes        string    `json:"callNotes"`
	CloserName       string    `json:"closerName"`
	SetterName       string    `json:"setterName"`
	FathomLink       string    `json:"fathomLink"`
	CreatedAt        time.Time `json:"createdAt"`
}
