package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPresentation() Presentation {
	return Presentation{
		Place:       "Teatro Colon",
		City:        "Bogota",
		Capacity:    300,
		Price:       50,
		Latitude:    4.5981,
		Longitude:   -74.0758,
		Description: "Opening night",
		Schedule:    ScheduleOnSale(refNow),
	}
}

func TestPresentationValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validPresentation().Validate())
	})

	t.Run("free presentation", func(t *testing.T) {
		p := validPresentation()
		p.Price = 0
		assert.NoError(t, p.Validate())
	})

	t.Run("attribute and date violations reported together", func(t *testing.T) {
		p := validPresentation()
		p.Capacity = 0
		p.Latitude = 91
		p.TicketAvailabilityDate = p.StartDate.Add(time.Hour)

		err := p.Validate()
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))

		violations := Violations(err)
		require.Len(t, violations, 4)
		assert.Contains(t, violations[0], "capacity")
		assert.Contains(t, violations[1], "latitude")
		assert.Contains(t, violations, "ticketAvailabilityDate < startDate")
	})
}

func TestPresentationApplyRevalidatesMergedResult(t *testing.T) {
	t.Parallel()

	p := validPresentation()
	start := p.TicketAvailabilityDate.Add(-time.Minute)

	merged := p.Apply(PresentationPatch{StartDate: &start})

	assert.Equal(t, p.Place, merged.Place)
	assert.Equal(t, start, merged.StartDate)
	assert.Equal(t, KindValidation, KindOf(merged.Validate()))
}

func TestPresentationStillRelevant(t *testing.T) {
	t.Parallel()

	p := validPresentation()

	p.OpenDate = refNow.Add(-RelevanceWindow)
	assert.True(t, p.StillRelevant(refNow))

	p.OpenDate = refNow.Add(-RelevanceWindow - time.Second)
	assert.False(t, p.StillRelevant(refNow))

	p.OpenDate = refNow.Add(time.Hour)
	assert.True(t, p.StillRelevant(refNow))
}
