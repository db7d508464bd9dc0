package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes worth their own label; the rest become pg_<code>.
var pgErrorLabels = map[string]string{
	"23505": "unique_violation",
	"23514": "check_violation",
	"40001": "serialization_failure",
	"40P01": "deadlock",
	"57014": "query_canceled",
}

// ObserveDB times fn under the logical op name. A nil *Prom just runs fn.
// A missing row is an outcome, not a failure, so it is timed as "ok" but
// still counted under its own label.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()

	status := "ok"

	if err != nil {
		label := classifyDBErr(err)
		p.DbErrorsTotal.WithLabelValues(op, label).Inc()

		if label != "no_rows" {
			status = "error"
		}
	}

	p.DbQueryDuration.WithLabelValues(op, status).Observe(elapsed)

	return err
}

func classifyDBErr(err error) string {
	if errors.Is(err, pgx.ErrNoRows) {
		return "no_rows"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if label, ok := pgErrorLabels[pgErr.Code]; ok {
			return label
		}
		return "pg_" + pgErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
