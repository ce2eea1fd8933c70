package aftercare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/flosclinic/benmeibot/internal/database"
)

// Store is the slice of the data layer the sweep needs.
type Store interface {
	ListScheduledAftercare(ctx context.Context) ([]database.AftercareSchedule, error)
	UpdateAftercareStatus(ctx context.Context, id int64, status string) error
}

// Pusher delivers messages to a LINE user outside the reply window.
type Pusher interface {
	Push(ctx context.Context, to string, messages ...messaging_api.MessageInterface) error
}

// Sweeper runs the daily follow-up pass over scheduled aftercare entries.
type Sweeper struct {
	store       Store
	pusher      Pusher
	clinicPhone string
	logger      *slog.Logger
}

// NewSweeper creates a Sweeper. clinicPhone goes on the care card's contact
// button.
func NewSweeper(store Store, pusher Pusher, clinicPhone string, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:       store,
		pusher:      pusher,
		clinicPhone: clinicPhone,
		logger:      logger.With("component", "aftercare_sweeper"),
	}
}

// Sweep sends a care card to every scheduled entry whose elapsed days since
// treatment match one of its follow-up offsets, then marks entries past their
// last offset as completed. Completion does not depend on the push succeeding;
// an entry past its final offset is retired either way. Running the sweep more
// than once a day cannot double-send already-completed entries; same-day
// replays of still-scheduled entries are the one duplicate source, so schedule
// it once daily.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) error {
	schedules, err := s.store.ListScheduledAftercare(ctx)
	if err != nil {
		return fmt.Errorf("failed to load aftercare schedules: %w", err)
	}

	var sent, completed int
	for _, sched := range schedules {
		elapsed := now.Sub(sched.TreatmentDate)
		if elapsed < 0 {
			continue
		}
		daysSince := int(elapsed.Hours() / 24)

		if !sched.FollowUpDays.Contains(daysSince) {
			continue
		}

		msg := MessageForDay(sched.TreatmentName, daysSince)
		card := Card(sched.UserName, sched.TreatmentName, daysSince, msg, s.clinicPhone)
		if err := s.pusher.Push(ctx, sched.UserID, card); err != nil {
			s.logger.ErrorContext(ctx, "Failed to push aftercare message",
				"schedule_id", sched.ID, "user_id", sched.UserID, "day", daysSince, "error", err)
		} else {
			sent++
			s.logger.InfoContext(ctx, "Sent aftercare message",
				"schedule_id", sched.ID, "treatment", sched.TreatmentName, "day", daysSince)
		}

		// Entries past their last offset are retired even when the push
		// failed, otherwise they would stay scheduled forever.
		if daysSince >= sched.FollowUpDays.Max() {
			if err := s.store.UpdateAftercareStatus(ctx, sched.ID, database.AftercareStatusCompleted); err != nil {
				s.logger.ErrorContext(ctx, "Failed to mark aftercare schedule completed",
					"schedule_id", sched.ID, "error", err)
				continue
			}
			completed++
		}
	}

	s.logger.InfoContext(ctx, "Aftercare sweep finished",
		"checked", len(schedules), "sent", sent, "completed", completed)
	return nil
}
