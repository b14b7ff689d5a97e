// Package model defines the core domain types for the workshop registration system.
package model

import "time"

// DefaultMaxParticipants is the capacity given to a topic created without one.
const DefaultMaxParticipants = 15

// Event is a workshop day (or series) created by an administrator.
// Events are addressed internally by ID and publicly by UUID.
type Event struct {
	ID          string    `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	URL    string `json:"url,omitempty"`
	APIURL string `json:"apiUrl,omitempty"`
	Slots  []Slot `json:"slots,omitzero"`
}

// Slot is a scheduled time block within an event.
type Slot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RegistrationCount int     `json:"registrationCount"`
	APIURL            string  `json:"apiUrl,omitempty"`
	Event             *Event  `json:"event,omitempty"`
	Topics            []Topic `json:"topics,omitzero"`
}

// Topic is a capacity-limited session within a slot.
type Topic struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	MaxParticipants int       `json:"maxParticipants"`
	SlotID          string    `json:"slotId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	RegistrationCount int            `json:"registrationCount"`
	APIURL            string         `json:"apiUrl,omitempty"`
	Slot              *Slot          `json:"slot,omitempty"`
	Registrations     []Registration `json:"registrations,omitzero"`
}

// Remaining returns the number of open places.
func (t *Topic) Remaining() int {
	if n := t.MaxParticipants - t.RegistrationCount; n > 0 {
		return n
	}
	return 0
}

// IsFull returns true when no places remain.
func (t *Topic) IsFull() bool {
	return t.RegistrationCount >= t.MaxParticipants
}

// Registration is an attendee's claim on one topic within one slot.
type Registration struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	Organization *string   `json:"organization"`
	SlotID       string    `json:"slotId"`
	TopicID      string    `json:"topicId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	APIURL string `json:"apiUrl,omitempty"`
	Slot   *Slot  `json:"slot,omitempty"`
	Topic  *Topic `json:"topic,omitempty"`
}

// BookingOutcome tells whether a booking inserted a new registration or
// moved an existing one to another topic.
type BookingOutcome string

const (
	BookingCreated BookingOutcome = "created"
	BookingUpdated BookingOutcome = "updated"
)

// RegistrationFilter narrows a registration listing. Empty fields match all.
type RegistrationFilter struct {
	Email   string
	EventID string
}

// SummaryLine is one row of the confirmation email.
type SummaryLine struct {
	Event string `json:"event"`
	Slot  string `json:"slot"`
	Topic string `json:"topic"`
	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
}

// Summary is everything the notifier needs to send a confirmation email.
type Summary struct {
	Email    string
	Name     string
	Lines    []SummaryLine
	IsUpdate bool
}

// SummaryLineFor builds an email line from a registration loaded with its
// slot, event and topic.
func SummaryLineFor(reg *Registration) SummaryLine {
	var line SummaryLine
	if reg.Slot != nil {
		line.Slot = reg.Slot.Name
		if line.Slot == "" {
			line.Slot = reg.Slot.Time
		}
		line.Date = reg.Slot.Date
		line.Time = reg.Slot.Time
		if reg.Slot.Event != nil {
			line.Event = reg.Slot.Event.Name
		}
	}
	if reg.Topic != nil {
		line.Topic = reg.Topic.Title
	}
	return line
}

// EnrollmentResult is the outcome of replacing an attendee's selections
// within an event. Errors is keyed by slot ID.
type EnrollmentResult struct {
	Registrations []Registration    `json:"registrations"`
	Errors        map[string]string `json:"errors,omitempty"`
	Replaced      int               `json:"replaced"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges operations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries an admin bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
