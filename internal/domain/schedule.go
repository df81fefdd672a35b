package domain

import (
	"fmt"
	"time"
)

// Schedule holds the four dates of a presentation. A valid schedule satisfies
// ticketSaleAvailabilityDate < ticketAvailabilityDate < openDate <= startDate.
type Schedule struct {
	TicketSaleAvailabilityDate time.Time `json:"ticket_sale_availability_date"`
	TicketAvailabilityDate     time.Time `json:"ticket_availability_date"`
	OpenDate                   time.Time `json:"open_date"`
	StartDate                  time.Time `json:"start_date"`
}

const (
	fieldSaleDate         = "ticketSaleAvailabilityDate"
	fieldAvailabilityDate = "ticketAvailabilityDate"
	fieldOpenDate         = "openDate"
	fieldStartDate        = "startDate"
)

type datedField struct {
	name string
	at   time.Time
}

func (s Schedule) fields() []datedField {
	return []datedField{
		{fieldSaleDate, s.TicketSaleAvailabilityDate},
		{fieldAvailabilityDate, s.TicketAvailabilityDate},
		{fieldOpenDate, s.OpenDate},
		{fieldStartDate, s.StartDate},
	}
}

// Violations lists every broken ordering, pairwise, so a caller sees the whole
// picture in one response.
func (s Schedule) Violations() []string {
	var out []string

	fields := s.fields()
	for _, f := range fields {
		if f.at.IsZero() {
			out = append(out, fmt.Sprintf("%s is required", f.name))
		}
	}
	if len(out) > 0 {
		return out
	}

	for i := 0; i < len(fields); i++ {
		for j := i + 1; j < len(fields); j++ {
			a, b := fields[i], fields[j]
			if a.name == fieldOpenDate && b.name == fieldStartDate {
				if a.at.After(b.at) {
					out = append(out, fmt.Sprintf("%s <= %s", a.name, b.name))
				}
				continue
			}
			if !a.at.Before(b.at) {
				out = append(out, fmt.Sprintf("%s < %s", a.name, b.name))
			}
		}
	}

	return out
}

func (s Schedule) Validate() error {
	if v := s.Violations(); len(v) > 0 {
		return Validation(v...)
	}

	return nil
}

// IssuanceWindow is the half-open interval [OpensAt, ClosesAt) in which tickets
// can be issued. SaleOpensAt never lies after OpensAt on a valid schedule.
type IssuanceWindow struct {
	SaleOpensAt time.Time
	OpensAt     time.Time
	ClosesAt    time.Time
}

func (s Schedule) IssuanceWindow() IssuanceWindow {
	return IssuanceWindow{
		SaleOpensAt: s.TicketSaleAvailabilityDate,
		OpensAt:     s.TicketAvailabilityDate,
		ClosesAt:    s.StartDate,
	}
}

func (w IssuanceWindow) Contains(now time.Time) bool {
	return w.Check(now) == nil
}

func (w IssuanceWindow) Check(now time.Time) error {
	if now.Before(w.SaleOpensAt) || now.Before(w.OpensAt) {
		return InvalidState("tickets not yet available")
	}
	if !now.Before(w.ClosesAt) {
		return InvalidState("event already started")
	}

	return nil
}

const day = 24 * time.Hour

// ScheduleOnSale returns a schedule whose issuance window contains now.
func ScheduleOnSale(now time.Time) Schedule {
	return Schedule{
		TicketSaleAvailabilityDate: now.Add(-2 * day),
		TicketAvailabilityDate:     now.Add(-day),
		OpenDate:                   now.Add(day),
		StartDate:                  now.Add(2 * day),
	}
}

// ScheduleUpcoming returns a schedule whose sale has opened but whose tickets
// become issuable only tomorrow.
func ScheduleUpcoming(now time.Time) Schedule {
	return Schedule{
		TicketSaleAvailabilityDate: now,
		TicketAvailabilityDate:     now.Add(day),
		OpenDate:                   now.Add(2 * day),
		StartDate:                  now.Add(3 * day),
	}
}
