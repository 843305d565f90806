package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/notify"
	"ATRAX_BACK-END/internal/store/memory"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *fakeNotifier) Enqueue(msgs ...notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msgs...)
}

func (n *fakeNotifier) take() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.msgs
	n.msgs = nil
	return out
}

type stubSigner struct{}

func (stubSigner) Sign(id uuid.UUID) (string, error) { return "token-" + id.String(), nil }

type fixture struct {
	store    *memory.Store
	notifier *fakeNotifier
	creds    *Credentials
	auth     *AuthService
	events   *EventService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := memory.New()
	n := &fakeNotifier{}
	creds := NewCredentials(s)
	creds.cost = 4 // bcrypt.MinCost keeps tests fast
	return &fixture{
		store:    s,
		notifier: n,
		creds:    creds,
		auth:     NewAuthService(creds, stubSigner{}, n, logger),
		events:   NewEventService(s, s, n, logger),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.creds.CreateUser(context.Background(), name+"@example.com", "pw-"+name, name)
	require.NoError(t, err)
	return u
}

func fields(title string, capacity int) models.EventFields {
	return models.EventFields{
		Title:        title,
		Description:  "desc",
		Date:         time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		Location:     "Hall A",
		MaxAttendees: capacity,
	}
}

func subjects(msgs []notify.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Subject)
	}
	return out
}
