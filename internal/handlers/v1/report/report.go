package report

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
)

// PeriodInput selects a half open date range.
type PeriodInput struct {
	handlerutil.OwnerHeader
	From string `query:"from" required:"true" doc:"Inclusive start, RFC3339 or YYYY-MM-DD"`
	To   string `query:"to" required:"true" doc:"Exclusive end, RFC3339 or YYYY-MM-DD"`
}

func (p *PeriodInput) parse() (time.Time, time.Time, error) {
	from, err := handlerutil.ParseDate("from", p.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := handlerutil.ParseDate("to", p.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, huma.NewError(http.StatusBadRequest, "from must be before to")
	}
	return from, to, nil
}
