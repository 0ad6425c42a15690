// Package quota tracks the daily allowance of billed song searches.
package quota

import (
	"time"

	"rifflingua-go/cache"
	"rifflingua-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// DefaultDailyLimit is the number of new-song searches allowed per day.
const DefaultDailyLimit = 2

const (
	recordKey  = "daily"
	dateLayout = "2006-01-02"
)

// Record is the single persisted ledger state.
type Record struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Ledger counts billed searches per calendar day. The count resets lazily:
// a stored record from another day reads as zero and is only rewritten on
// the next ConsumeCredit.
//
// ConsumeCredit is a plain read-modify-write. Two concurrent callers may
// both observe the same count; the limit is a soft anti-abuse guard.
type Ledger struct {
	store cache.Store
	limit int
	now   func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used to decide "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLimit overrides the daily limit.
func WithLimit(limit int) Option {
	return func(l *Ledger) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// NewLedger creates a ledger persisted in store.
func NewLedger(store cache.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		limit: DefaultDailyLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the daily limit.
func (l *Ledger) Limit() int {
	return l.limit
}

func (l *Ledger) today() string {
	return l.now().Format(dateLayout)
}

// current returns today's record. Read failures count as no credit used.
func (l *Ledger) current() Record {
	today := l.today()

	var rec Record
	found, err := cache.LookupJSON(l.store, recordKey, &rec)
	if err != nil {
		log.Warnf("%s Failed to read quota record, assuming none used: %v", logcolors.LogQuota, err)
		return Record{Date: today}
	}
	if !found || rec.Date != today || rec.Count < 0 {
		return Record{Date: today}
	}
	return rec
}

// Remaining returns how many billed searches are left today.
func (l *Ledger) Remaining() int {
	remaining := l.limit - l.current().Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanSearch reports whether at least one credit is left today.
func (l *Ledger) CanSearch() bool {
	return l.Remaining() > 0
}

// ConsumeCredit spends one credit. It returns false, without writing, when
// today's credits are already exhausted. A failed write is logged and the
// credit is still granted.
func (l *Ledger) ConsumeCredit() bool {
	rec := l.current()
	if rec.Count >= l.limit {
		log.Infof("%s Daily limit reached (%d/%d)", logcolors.LogQuota, rec.Count, l.limit)
		return false
	}

	rec.Count++
	if err := cache.SetJSON(l.store, recordKey, rec); err != nil {
		log.Errorf("%s Failed to persist quota record: %v", logcolors.LogQuota, err)
		return true
	}

	log.Infof("%s Credit used, remaining today: %d", logcolors.LogQuota, l.limit-rec.Count)
	return true
}

// Reset sets today's count back to zero.
func (l *Ledger) Reset() error {
	if err := cache.SetJSON(l.store, recordKey, Record{Date: l.today()}); err != nil {
		return err
	}
	log.Infof("%s Daily limit reset", logcolors.LogQuota)
	return nil
}

// Snapshot returns today's effective record without persisting anything.
func (l *Ledger) Snapshot() Record {
	return l.current()
}
