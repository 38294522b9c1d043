package wizard

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewCaseNumber returns a report id like HB-2026-7ZQ4M1KD: the year plus
// the tail of a ULID, whose random part keeps ids from colliding.
func NewCaseNumber() string {
	return caseNumberAt(time.Now())
}

func caseNumberAt(t time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
	return fmt.Sprintf("HB-%d-%s", t.Year(), id[len(id)-8:])
}
