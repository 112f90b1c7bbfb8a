package leads

import (
	"context"
	"time"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
	"github.com/google/uuid"
)

// Lead is a fully-qualified prospect record.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Platform   string    `json:"platform"`
	CapturedAt time.Time `json:"captured_at"`
}

// NewLead builds a lead record from completed slots.
func NewLead(slots model.LeadSlots) Lead {
	return Lead{
		ID:         uuid.NewString(),
		Name:       slots.Name,
		Email:      slots.Email,
		Platform:   slots.Platform,
		CapturedAt: time.Now().UTC(),
	}
}

// CaptureSink receives captured leads. The turn graph fires it exactly once
// per session, when all three slots first become non-empty.
type CaptureSink interface {
	Capture(ctx context.Context, lead Lead) error
}

// LogSink records captured leads in the service log. Stand-in for a CRM
// integration.
type LogSink struct{}

func (LogSink) Capture(ctx context.Context, lead Lead) error {
	logx.Info().
		Str("lead_id", lead.ID).
		Str("name", lead.Name).
		Str("email", lead.Email).
		Str("platform", lead.Platform).
		Msg("Lead captured")
	return nil
}

var _ CaptureSink = LogSink{}
