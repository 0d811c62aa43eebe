package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
)

// Reminder kinds for vehicle compliance dates
const (
	ReminderInsurance  = "insurance"
	ReminderPollution  = "pollution"
	ReminderServiceDue = "service"
)

// DefaultReminderDays is the look-ahead window when none is requested
const DefaultReminderDays = 30

// instrumentServiceInterval is how long an instrument may go unserviced
const instrumentServiceInterval = 365 * 24 * time.Hour

// ReminderService finds upcoming vehicle compliance dates, overdue
// instrument servicing and due enquiry follow-ups
type ReminderService struct {
	vehicleRepo    *repository.VehicleRepository
	instrumentRepo *repository.InstrumentRepository
	enquiryRepo    *repository.EnquiryRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	vehicleRepo *repository.VehicleRepository,
	instrumentRepo *repository.InstrumentRepository,
	enquiryRepo *repository.EnquiryRepository,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		vehicleRepo:    vehicleRepo,
		instrumentRepo: instrumentRepo,
		enquiryRepo:    enquiryRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Due returns everything needing attention within days from now. Dates
// already past are included.
func (s *ReminderService) Due(ctx context.Context, days int) (*domain.RemindersDTO, error) {
	if days <= 0 {
		days = DefaultReminderDays
	}
	now := s.now().UTC()
	until := now.AddDate(0, 0, days)

	vehicles, err := s.vehicleRepo.ComplianceDue(ctx, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle reminders: %w", err)
	}
	instruments, err := s.instrumentRepo.ServiceOverdue(ctx, now.Add(-instrumentServiceInterval))
	if err != nil {
		return nil, fmt.Errorf("failed to load instrument reminders: %w", err)
	}
	enquiries, err := s.enquiryRepo.FollowUpsDue(ctx, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load enquiry reminders: %w", err)
	}

	out := &domain.RemindersDTO{
		WindowDays:  days,
		Vehicles:    vehicleReminders(vehicles, now, until),
		Instruments: make([]domain.InstrumentReminderDTO, 0, len(instruments)),
		Enquiries:   make([]domain.EnquiryReminderDTO, 0, len(enquiries)),
	}
	for _, i := range instruments {
		out.Instruments = append(out.Instruments, domain.InstrumentReminderDTO{
			InstrumentID:   i.ID,
			Name:           i.Name,
			SerialNumber:   i.SerialNumber,
			LastServicedOn: i.LastServicedOn,
		})
	}
	for _, e := range enquiries {
		out.Enquiries = append(out.Enquiries, domain.EnquiryReminderDTO{
			EnquiryID:    e.ID,
			Subject:      e.Subject,
			Status:       string(e.Status),
			FollowUpDate: *e.FollowUpDate,
		})
	}
	return out, nil
}

// vehicleReminders emits one reminder per compliance date on or before
// until, soonest first
func vehicleReminders(vehicles []domain.Vehicle, now, until time.Time) []domain.VehicleReminderDTO {
	out := make([]domain.VehicleReminderDTO, 0, len(vehicles))
	for _, v := range vehicles {
		dates := []struct {
			kind string
			date *time.Time
		}{
			{ReminderInsurance, v.InsuranceExpiry},
			{ReminderPollution, v.PollutionExpiry},
			{ReminderServiceDue, v.ServiceDueDate},
		}
		for _, d := range dates {
			if d.date == nil || d.date.After(until) {
				continue
			}
			out = append(out, domain.VehicleReminderDTO{
				VehicleID:          v.ID,
				Name:               v.Name,
				RegistrationNumber: v.RegistrationNumber,
				Kind:               d.kind,
				DueDate:            *d.date,
				DaysLeft:           daysBetween(now, *d.date),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// daysBetween counts whole days from from to to; negative when overdue
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
