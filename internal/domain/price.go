package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// IntervalEnd is the upper bound of a price interval. It is either open
// (the interval is the book's current price) or closed at an exclusive
// instant. A closed end never reopens.
type IntervalEnd struct {
	at     time.Time
	closed bool
}

// OpenEnd returns an unbounded interval end.
func OpenEnd() IntervalEnd {
	return IntervalEnd{}
}

// ClosedEnd returns an interval end closed at the given exclusive instant.
func ClosedEnd(at time.Time) IntervalEnd {
	return IntervalEnd{at: at.UTC(), closed: true}
}

// IsOpen reports whether the end is unbounded.
func (e IntervalEnd) IsOpen() bool {
	return !e.closed
}

// At returns the exclusive upper bound and whether the end is closed.
func (e IntervalEnd) At() (time.Time, bool) {
	return e.at, e.closed
}

// PriceInterval represents one price valid over [EffectiveFrom, End).
type PriceInterval struct {
	ID            string
	BookID        string
	Price         decimal.Decimal
	EffectiveFrom time.Time
	End           IntervalEnd
	CreatedAt     time.Time
}

// Contains reports whether instant falls inside [EffectiveFrom, End).
// The lower bound is inclusive, the upper bound exclusive.
func (p PriceInterval) Contains(instant time.Time) bool {
	if instant.Before(p.EffectiveFrom) {
		return false
	}

	until, closed := p.End.At()
	if !closed {
		return true
	}

	return instant.Before(until)
}

// Ledger holds the ordered price intervals of one book and is the only
// place where interval invariants are enforced: at most one open interval,
// a gap-free non-overlapping chain, and strictly positive length for every
// closed interval. Mutations go through Append and ChangePrice; closed
// intervals are never touched again.
type Ledger struct {
	bookID    string
	intervals []PriceInterval
}

// NewLedger builds a ledger from a book's stored intervals. The input may
// arrive in any order; the ledger keeps it ascending by EffectiveFrom.
func NewLedger(bookID string, intervals []PriceInterval) *Ledger {
	sorted := make([]PriceInterval, len(intervals))
	copy(sorted, intervals)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom)
	})

	return &Ledger{bookID: bookID, intervals: sorted}
}

// BookID returns the book this ledger belongs to.
func (l *Ledger) BookID() string {
	return l.bookID
}

// Current returns the open interval.
func (l *Ledger) Current() (PriceInterval, error) {
	for i := len(l.intervals) - 1; i >= 0; i-- {
		if l.intervals[i].End.IsOpen() {
			return l.intervals[i], nil
		}
	}

	return PriceInterval{}, ErrNoCurrentPrice
}

// At returns the interval whose range contains instant. An instant before
// the first recorded interval resolves to nothing: the ledger never
// extrapolates a price outside its recorded ranges.
func (l *Ledger) At(instant time.Time) (PriceInterval, error) {
	for _, iv := range l.intervals {
		if iv.Contains(instant) {
			return iv, nil
		}
	}

	return PriceInterval{}, ErrNoPriceAtDate
}

// History returns all intervals ascending by EffectiveFrom. An unpriced
// book yields an empty history, not an error.
func (l *Ledger) History() []PriceInterval {
	out := make([]PriceInterval, len(l.intervals))
	copy(out, l.intervals)

	return out
}

// Append records a new open interval with no predecessor to close. It
// fails when an open interval already exists or when effectiveFrom would
// overlap the most recent interval.
func (l *Ledger) Append(id string, price decimal.Decimal, effectiveFrom, now time.Time) (PriceInterval, error) {
	if err := ValidatePrice(price); err != nil {
		return PriceInterval{}, err
	}

	if err := ValidateTimestamp(effectiveFrom); err != nil {
		return PriceInterval{}, err
	}

	if last, ok := l.last(); ok {
		until, closed := last.End.At()
		if !closed {
			return PriceInterval{}, ErrPriceConflict
		}

		if effectiveFrom.Before(until) {
			return PriceInterval{}, ErrPriceConflict
		}
	}

	interval := PriceInterval{
		ID:            id,
		BookID:        l.bookID,
		Price:         price,
		EffectiveFrom: effectiveFrom.UTC(),
		End:           OpenEnd(),
		CreatedAt:     now.UTC(),
	}

	l.intervals = append(l.intervals, interval)

	return interval, nil
}

// ChangePrice closes the open interval at effectiveAt and opens a new one
// with the given price, as a single step: between the two returned
// intervals there is neither a gap nor an overlap. effectiveAt must fall
// strictly after the open interval's EffectiveFrom; closing at the same
// instant would leave a zero-length closed interval behind.
func (l *Ledger) ChangePrice(newID string, price decimal.Decimal, effectiveAt, now time.Time) (closed, opened PriceInterval, err error) {
	if err := ValidatePrice(price); err != nil {
		return PriceInterval{}, PriceInterval{}, err
	}

	if err := ValidateTimestamp(effectiveAt); err != nil {
		return PriceInterval{}, PriceInterval{}, err
	}

	current, err := l.Current()
	if err != nil {
		return PriceInterval{}, PriceInterval{}, err
	}

	if !effectiveAt.After(current.EffectiveFrom) {
		return PriceInterval{}, PriceInterval{}, ErrPriceConflict
	}

	for i := range l.intervals {
		if l.intervals[i].ID != current.ID {
			continue
		}

		l.intervals[i].End = ClosedEnd(effectiveAt)
		closed = l.intervals[i]

		break
	}

	opened = PriceInterval{
		ID:            newID,
		BookID:        l.bookID,
		Price:         price,
		EffectiveFrom: effectiveAt.UTC(),
		End:           OpenEnd(),
		CreatedAt:     now.UTC(),
	}

	l.intervals = append(l.intervals, opened)

	return closed, opened, nil
}

func (l *Ledger) last() (PriceInterval, bool) {
	if len(l.intervals) == 0 {
		return PriceInterval{}, false
	}

	return l.intervals[len(l.intervals)-1], true
}
