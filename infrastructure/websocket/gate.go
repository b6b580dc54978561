package websocket

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/hilthontt/eventra/domain/repository"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

// topicPattern accepts room topics of the form room/<section>/<eventId>.
// Event ids are positive and carry no leading zeroes.
var topicPattern = regexp.MustCompile(`^room/(chat|tasks|checklist)/([1-9][0-9]*)$`)

const authorizeTimeout = 5 * time.Second

// Gate decides whether a user may subscribe to a room topic. Every
// subscribe goes back to the database; membership is never cached, so a
// user removed from an event cannot join new rooms with stale state.
type Gate struct {
	events repository.EventRepository
	logger *logger.Logger
}

func NewGate(events repository.EventRepository, logger *logger.Logger) *Gate {
	return &Gate{
		events: events,
		logger: logger,
	}
}

// ParseTopic validates the topic shape and extracts the event id.
// Malformed topics are rejected without touching storage.
func ParseTopic(topic string) (section string, eventID int64, ok bool) {
	matches := topicPattern.FindStringSubmatch(topic)
	if matches == nil {
		return "", 0, false
	}

	eventID, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return "", 0, false
	}

	return matches[1], eventID, true
}

// Authorize reports whether userID may subscribe to topic. Any failure,
// including a storage error or an event that does not exist, denies the
// subscription. Denials are logged server-side and never explained to
// the client.
func (g *Gate) Authorize(ctx context.Context, userID int64, topic string) bool {
	_, eventID, ok := ParseTopic(topic)
	if !ok {
		g.logger.Debug("rejecting malformed topic",
			zap.String("topic", topic),
			zap.Int64("userId", userID))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, authorizeTimeout)
	defer cancel()

	isParticipant, err := g.events.ExistsParticipant(ctx, eventID, userID)
	if err != nil {
		g.logger.Error("membership check failed, denying subscription",
			zap.Int64("eventId", eventID),
			zap.Int64("userId", userID),
			zap.Error(err))
		return false
	}

	if !isParticipant {
		g.logger.Debug("denying subscription for non-participant",
			zap.Int64("eventId", eventID),
			zap.Int64("userId", userID))
		return false
	}

	return true
}
