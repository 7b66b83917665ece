package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"social-service/internal/mocks"
	"social-service/internal/telemetry"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.social", "social-service", "test")

	userID := int64(7)
	publisher.On("Publish", mock.Anything, "audit.social", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(telemetry.AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.EventType == "audit_log" &&
			envelope.SchemaVersion == 1 &&
			envelope.Service == "social-service" &&
			envelope.RequestID == "req-1" &&
			envelope.UserID != nil && *envelope.UserID == 7 &&
			envelope.Payload.Level == "info" &&
			envelope.Payload.Text == "signed in"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "info", "signed in", "req-1", &userID)
	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterIsNoop(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	emitter.Emit(context.Background(), "info", "ignored", "req-1", nil)
}

func TestEmitNilPublisherIsNoop(t *testing.T) {
	emitter := telemetry.NewAuditEmitter(nil, "audit.social", "social-service", "test")
	emitter.Emit(context.Background(), "info", "ignored", "req-1", nil)
}
