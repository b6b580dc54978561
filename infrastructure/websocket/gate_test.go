package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	participants map[[2]int64]bool
	err          error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{participants: make(map[[2]int64]bool)}
}

func (r *fakeEventRepo) addParticipant(eventID, userID int64) {
	r.participants[[2]int64{eventID, userID}] = true
}

func (r *fakeEventRepo) removeParticipant(eventID, userID int64) {
	delete(r.participants, [2]int64{eventID, userID})
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error { return nil }

func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeEventRepo) Exists(ctx context.Context, id int64) (bool, error) { return true, nil }

func (r *fakeEventRepo) ExistsParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.participants[[2]int64{eventID, userID}], nil
}

func (r *fakeEventRepo) AddParticipant(ctx context.Context, eventID, userID int64) error {
	r.addParticipant(eventID, userID)
	return nil
}

func (r *fakeEventRepo) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	r.removeParticipant(eventID, userID)
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)
	return log
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		topic       string
		wantSection string
		wantEventID int64
		wantOK      bool
	}{
		{"room/chat/1", "chat", 1, true},
		{"room/chat/42", "chat", 42, true},
		{"room/tasks/7", "tasks", 7, true},
		{"room/checklist/123", "checklist", 123, true},
		{"room/chat/0", "", 0, false},
		{"room/chat/01", "", 0, false},
		{"room/chat/-1", "", 0, false},
		{"room/chat/abc", "", 0, false},
		{"room/chat/", "", 0, false},
		{"room/polls/1", "", 0, false},
		{"chat/1", "", 0, false},
		{"room/chat/1/images", "", 0, false},
		{"", "", 0, false},
		{"room/chat/1 ", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			section, eventID, ok := ParseTopic(tt.topic)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSection, section)
			assert.Equal(t, tt.wantEventID, eventID)
		})
	}
}

func TestGateAuthorizeParticipant(t *testing.T) {
	repo := newFakeEventRepo()
	repo.addParticipant(5, 10)

	gate := NewGate(repo, testLogger(t))

	assert.True(t, gate.Authorize(context.Background(), 10, "room/chat/5"))
	assert.True(t, gate.Authorize(context.Background(), 10, "room/tasks/5"))
	assert.False(t, gate.Authorize(context.Background(), 11, "room/chat/5"))
	assert.False(t, gate.Authorize(context.Background(), 10, "room/chat/6"))
}

func TestGateAuthorizeMalformedTopic(t *testing.T) {
	repo := newFakeEventRepo()
	repo.addParticipant(5, 10)

	gate := NewGate(repo, testLogger(t))

	assert.False(t, gate.Authorize(context.Background(), 10, "room/chat/05"))
	assert.False(t, gate.Authorize(context.Background(), 10, "whatever"))
}

func TestGateFailsClosedOnRepositoryError(t *testing.T) {
	repo := newFakeEventRepo()
	repo.addParticipant(5, 10)
	repo.err = errors.New("connection refused")

	gate := NewGate(repo, testLogger(t))

	assert.False(t, gate.Authorize(context.Background(), 10, "room/chat/5"))
}

func TestGateSeesMembershipChanges(t *testing.T) {
	repo := newFakeEventRepo()
	gate := NewGate(repo, testLogger(t))

	assert.False(t, gate.Authorize(context.Background(), 10, "room/chat/5"))

	repo.addParticipant(5, 10)
	assert.True(t, gate.Authorize(context.Background(), 10, "room/chat/5"))

	repo.removeParticipant(5, 10)
	assert.False(t, gate.Authorize(context.Background(), 10, "room/chat/5"))
}
