package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Minute)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, s.AddJob("sweep", "0 0 7 * * *", noop))
	require.NoError(t, s.AddJob("archive", "@monthly", noop))
	assert.Error(t, s.AddJob("sweep", "0 0 7 * * *", noop), "duplicate names are rejected")
	assert.Error(t, s.AddJob("broken", "not a cron", noop))
	assert.Equal(t, []string{"archive", "sweep"}, s.JobNames())
}

func TestScheduler_RunsJobsUnderTimeout(t *testing.T) {
	s := NewScheduler(zap.NewNop(), 5*time.Second)
	deadlines := make(chan time.Duration, 1)
	require.NoError(t, s.AddJob("tick", "@every 1s", func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now()
		}
		select {
		case deadlines <- time.Until(deadline):
		default:
		}
		return errors.New("logged, not fatal")
	}))

	s.Start()
	defer s.Stop()

	select {
	case left := <-deadlines:
		assert.Greater(t, left, time.Duration(0))
		assert.LessOrEqual(t, left, 5*time.Second)
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultJobTimeout, NewScheduler(zap.NewNop(), 0).timeout)
}

type fakeAdmins struct {
	ids []uuid.UUID
	err error
}

func (f fakeAdmins) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.ids, f.err
}

type fakeReminders struct {
	seen    []uuid.UUID
	failFor uuid.UUID
}

func (f *fakeReminders) Due(ctx context.Context, days int) (*domain.RemindersDTO, error) {
	adminID, ok := auth.AdminIDFromContext(ctx)
	if !ok {
		return nil, errors.New("no admin in context")
	}
	f.seen = append(f.seen, adminID)
	if adminID == f.failFor {
		return nil, errors.New("database is down")
	}
	return &domain.RemindersDTO{
		WindowDays: days,
		Enquiries:  []domain.EnquiryReminderDTO{{EnquiryID: uuid.New(), Subject: "Boundary query"}},
	}, nil
}

func TestReminderJob_SweepsEveryAdmin(t *testing.T) {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	reminders := &fakeReminders{failFor: second}
	job := NewReminderJob(fakeAdmins{ids: []uuid.UUID{first, second, third}}, reminders, zap.NewNop(), 30)

	swept, failed, err := job.sweep(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, swept)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []uuid.UUID{first, second, third}, reminders.seen)
}

func TestReminderJob_ListFailure(t *testing.T) {
	reminders := &fakeReminders{}
	job := NewReminderJob(fakeAdmins{err: errors.New("boom")}, reminders, zap.NewNop(), 30)

	assert.Error(t, job.Run(t.Context()))
	assert.Empty(t, reminders.seen)
}

type fakeArchiver struct {
	start, end time.Time
	calls      int
}

func (f *fakeArchiver) ArchiveMonth(ctx context.Context, start, end time.Time) (*service.ArchiveResult, error) {
	f.calls++
	f.start, f.end = start, end
	return &service.ArchiveResult{Month: start.Format("2006-01")}, nil
}

func TestArchiveJob_ArchivesPreviousMonth(t *testing.T) {
	archiver := &fakeArchiver{}
	job := NewArchiveJob(archiver, zap.NewNop())
	job.now = func() time.Time { return time.Date(2024, time.March, 1, 2, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Run(t.Context()))

	require.Equal(t, 1, archiver.calls)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), archiver.start)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), archiver.end)
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Minute)

	require.NoError(t, RegisterReminderJob(s, fakeAdmins{}, &fakeReminders{}, zap.NewNop(), "0 0 7 * * *", 30))
	require.NoError(t, RegisterArchiveJob(s, &fakeArchiver{}, zap.NewNop(), "0 0 3 1 * *"))
	assert.ElementsMatch(t, []string{ReminderJobName, ArchiveJobName}, s.JobNames())
}
