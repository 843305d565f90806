package notify

import "fmt"

// Subjects
const (
	SubjectWelcome        = "Welcome to Events Management System"
	SubjectUpdated        = "Event Updated"
	SubjectCancelled      = "Event Cancelled"
	SubjectRegistration   = "Event Registration"
	SubjectUnregistration = "Event Unregistration"
)

func Welcome(to, fullName string) Message {
	return Message{
		To:      to,
		Subject: SubjectWelcome,
		Text:    fmt.Sprintf("Hello %s,\n\nWelcome to Events Management System!\n\nBest wishes!", fullName),
	}
}

// EventUpdated builds one message per attendee address.
func EventUpdated(recipients []string, title string) []Message {
	return broadcast(recipients, SubjectUpdated,
		fmt.Sprintf("Hello,\n\nThe event %s was updated.\n\nBest wishes!", title))
}

// EventCancelled builds one message per former attendee address.
func EventCancelled(recipients []string, title string) []Message {
	return broadcast(recipients, SubjectCancelled,
		fmt.Sprintf("Hello,\n\nThe event %s was cancelled.\n\nBest wishes!", title))
}

func RegistrationConfirmed(to, fullName, title string) Message {
	return Message{
		To:      to,
		Subject: SubjectRegistration,
		Text: fmt.Sprintf("Hello %s,\n\nWe are writing to confirm that you registered for %s event.\n\nBest regards!",
			fullName, title),
	}
}

// RegistrationReceived tells the creator that attendeeName joined their event.
func RegistrationReceived(to, creatorName, attendeeName, title string) Message {
	return Message{
		To:      to,
		Subject: SubjectRegistration,
		Text: fmt.Sprintf("Hello %s,\n\nWe are writing to notify you that %s registered for %s event.\n\nBest regards!",
			creatorName, attendeeName, title),
	}
}

func Unregistered(to, fullName, title string) Message {
	return Message{
		To:      to,
		Subject: SubjectUnregistration,
		Text: fmt.Sprintf("Hello %s,\n\nWe are writing to confirm that you were unregistered from %s event.\n\nBest regards!",
			fullName, title),
	}
}

func broadcast(recipients []string, subject, text string) []Message {
	msgs := make([]Message, 0, len(recipients))
	for _, to := range recipients {
		msgs = append(msgs, Message{To: to, Subject: subject, Text: text})
	}
	return msgs
}
