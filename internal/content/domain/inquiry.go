package domain

import (
	"strings"
	"time"
)

type InquiryStatus string

const (
	StatusNew       InquiryStatus = "new"
	StatusContacted InquiryStatus = "contacted"
	StatusConverted InquiryStatus = "converted"
	StatusClosed    InquiryStatus = "closed"
)

// InquiryStatuses lists every status in lifecycle order.
var InquiryStatuses = []InquiryStatus{StatusNew, StatusContacted, StatusConverted, StatusClosed}

type InquirySource string

const (
	SourceContactForm  InquirySource = "contact_form"
	SourceInquiryModal InquirySource = "inquiry_modal"
	SourceProjectPage  InquirySource = "project_page"
	SourceWebsite      InquirySource = "website"
)

var InquirySources = []InquirySource{SourceContactForm, SourceInquiryModal, SourceProjectPage, SourceWebsite}

// Inquiry is a lead captured from the public site.
type Inquiry struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	Email       string        `json:"email,omitempty"`
	ProjectType string        `json:"project_type,omitempty"`
	Message     string        `json:"message"`
	Source      InquirySource `json:"source"`
	Status      InquiryStatus `json:"status"`
	Notes       string        `json:"notes"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// InquiryFilter narrows the admin inquiry list. Zero values mean "any".
type InquiryFilter struct {
	Status InquiryStatus
	Source InquirySource
	Search string
	Limit  int
}

// InquiryStats counts inquiries per status.
type InquiryStats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Converted int `json:"converted"`
	Closed    int `json:"closed"`
}

// Add increments the bucket for status.
func (s *InquiryStats) Add(status InquiryStatus, n int) {
	s.Total += n
	switch status {
	case StatusNew:
		s.New += n
	case StatusContacted:
		s.Contacted += n
	case StatusConverted:
		s.Converted += n
	case StatusClosed:
		s.Closed += n
	}
}

func ParseInquiryStatus(s string) (InquiryStatus, error) {
	st := InquiryStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range InquiryStatuses {
		if v == st {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s InquirySource) Valid() bool {
	for _, v := range InquirySources {
		if v == s {
			return true
		}
	}
	return false
}

var transitions = map[InquiryStatus][]InquiryStatus{
	StatusNew:       {StatusContacted, StatusClosed},
	StatusContacted: {StatusConverted, StatusClosed},
	StatusConverted: nil,
	StatusClosed:    nil,
}

// CanTransition reports whether from -> to is an allowed lifecycle move.
// Staying in the same status is always allowed and changes nothing.
func CanTransition(from, to InquiryStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s InquiryStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Transition applies a status change to q in place. RespondedAt is stamped the
// first time q lands on contacted and is never cleared afterwards.
func (q *Inquiry) Transition(to InquiryStatus, now time.Time) error {
	if _, ok := transitions[to]; !ok {
		return ErrInvalidStatus
	}
	if !CanTransition(q.Status, to) {
		return ErrInvalidTransition
	}
	if q.Status == to {
		return nil
	}
	q.Status = to
	if to == StatusContacted && q.RespondedAt == nil {
		t := now
		q.RespondedAt = &t
	}
	q.UpdatedAt = now
	return nil
}
