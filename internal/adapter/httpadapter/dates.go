package httpadapter

import (
	"time"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

// dueDateLayouts are tried in order. Layouts without a zone are read as UTC;
// the short ones are what <input type="datetime-local"> and type="date" send.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDueDate returns nil for an empty string.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, l := range dueDateLayouts {
		t, err := time.Parse(l, s)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.Validation("dueDate must be an ISO-8601 date")
}
