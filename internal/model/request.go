package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxTopicCapacity bounds maxParticipants on a single topic.
const MaxTopicCapacity = 10_000

// EventRequest is the payload for creating or updating an event.
type EventRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// Normalize trims whitespace and turns a blank description into nil.
func (r *EventRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = trimOptional(r.Description)
}

func (r EventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("event name is required"), validation.Length(1, 200)),
	)
}

// CreateSlotRequest is the payload for creating a slot.
type CreateSlotRequest struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	EventID string `json:"eventId"`
}

func (r *CreateSlotRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.EventID = strings.TrimSpace(r.EventID)
}

func (r CreateSlotRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Date, validation.Required),
		validation.Field(&r.Time, validation.Required),
		validation.Field(&r.EventID, validation.Required),
	)
}

// UpdateSlotRequest is the payload for editing a slot. A slot never moves
// between events.
type UpdateSlotRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time"`
}

func (r *UpdateSlotRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
}

func (r UpdateSlotRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Date, validation.Required),
		validation.Field(&r.Time, validation.Required),
	)
}

// TopicRequest is the payload for creating or updating a topic.
type TopicRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Instructor      string `json:"instructor"`
	MaxParticipants int    `json:"maxParticipants"`
	SlotID          string `json:"slotId"`
}

// Normalize trims text fields and applies the default capacity when none
// was given.
func (r *TopicRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Instructor = strings.TrimSpace(r.Instructor)
	r.SlotID = strings.TrimSpace(r.SlotID)
	if r.MaxParticipants == 0 {
		r.MaxParticipants = DefaultMaxParticipants
	}
}

func (r TopicRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Instructor, validation.Required),
		validation.Field(&r.SlotID, validation.Required),
		validation.Field(&r.MaxParticipants, validation.Min(1), validation.Max(MaxTopicCapacity)),
	)
}

// RegisterRequest is the payload an attendee submits to claim a topic.
type RegisterRequest struct {
	Email        string  `json:"email"`
	Name         *string `json:"name"`
	Organization *string `json:"organization"`
	SlotID       string  `json:"slotId"`
	TopicID      string  `json:"topicId"`
	IsUpdate     bool    `json:"isUpdate"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = trimOptional(r.Name)
	r.Organization = trimOptional(r.Organization)
	r.SlotID = strings.TrimSpace(r.SlotID)
	r.TopicID = strings.TrimSpace(r.TopicID)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.SlotID, validation.Required),
		validation.Field(&r.TopicID, validation.Required),
	)
}

// EnrollmentRequest replaces every registration an attendee holds within
// one event. Selections maps slot ID to topic ID.
type EnrollmentRequest struct {
	Email        string            `json:"email"`
	Name         *string           `json:"name"`
	Organization *string           `json:"organization"`
	Selections   map[string]string `json:"selections"`
}

func (r *EnrollmentRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = trimOptional(r.Name)
	r.Organization = trimOptional(r.Organization)
	cleaned := make(map[string]string, len(r.Selections))
	for slotID, topicID := range r.Selections {
		cleaned[strings.TrimSpace(slotID)] = strings.TrimSpace(topicID)
	}
	r.Selections = cleaned
}

func (r EnrollmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Selections, validation.Required, validation.Each(validation.Required)),
	)
}

// SummaryRequest asks for a confirmation email to be sent right away.
type SummaryRequest struct {
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	Registrations []SummaryLine `json:"registrations"`
	IsUpdate      bool          `json:"isUpdate"`
}

func (r SummaryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Registrations, validation.NotNil),
	)
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// NormalizeEmail trims and lower-cases an address so that lookups by
// (email, slot) are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
