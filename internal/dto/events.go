package dto

// EventRequest is the payload for creating or replacing an event.
// Date accepts RFC3339 or YYYY-MM-DD.
type EventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date" example:"2024-06-01T18:00:00Z"`
	Location     string `json:"location"`
	MaxAttendees int    `json:"maxAttendees"`
}

// UserRef is a populated user reference (creator or attendee)
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// EventResponse represents an event in responses. Creator is populated on
// reads; AttendeeCount is only set on the detail route.
type EventResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Date          string   `json:"date"`
	Location      string   `json:"location"`
	MaxAttendees  int      `json:"maxAttendees"`
	CreatorID     string   `json:"creatorId"`
	Creator       *UserRef `json:"creator,omitempty"`
	Attendees     []string `json:"attendees"`
	AttendeeCount *int     `json:"attendeeCount,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}
