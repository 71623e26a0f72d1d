package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/models"
)

func TestNotificationListener_HandleRoutesEvents(t *testing.T) {
	refresher := &refresherStub{}
	listener := NewNotificationListener(nil, refresher, "moderation:events", 0, nil)

	listener.Handle(context.Background(), `{"type":"DEGREE_SUBMITTED"}`)
	listener.Handle(context.Background(), `{"type":"PARTNER_REGISTERED"}`)

	require.Equal(t, []models.EntityType{models.EntityDegree, models.EntityPartner}, refresher.calls)
}

func TestNotificationListener_HandleIgnoresUnroutedAndMalformed(t *testing.T) {
	refresher := &refresherStub{}
	listener := NewNotificationListener(nil, refresher, "moderation:events", 0, nil)

	listener.Handle(context.Background(), `{"type":"UNKNOWN_EVENT"}`)
	listener.Handle(context.Background(), `not json`)

	require.Zero(t, refresher.callCount())
}
