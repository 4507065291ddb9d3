package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/pleimann/stampcam/internal/watermark"
)

// DefaultAddress is shown when no address is configured
const DefaultAddress = "Yayasan Widya Dharma, Sukasada, Kabupaten Buleleng, Bali, 81161"

// Default patterns: 24 hour time, dd/mm/yyyy date and the weekday name. %A is Indonesian.
const (
	DefaultTimePattern = "%H:%M"
	DefaultDatePattern = "%d/%m/%Y"
	DefaultDayPattern  = "%A"
)

var weekdays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// Weekday returns the Indonesian name of d
func Weekday(d time.Weekday) string {
	return weekdays[d%7]
}

var indonesianWeekday = strftime.AppendFunc(func(b []byte, t time.Time) []byte {
	return append(b, Weekday(t.Weekday())...)
})

// Clock derives time, date and day from the current time. A non-empty fixed field replaces
// the derived value.
type Clock struct {
	time, date, day *strftime.Strftime

	mu    sync.RWMutex
	fixed Fields
}

// Fields are the text fields of the block
type Fields struct {
	Time string
	Date string
	Day  string
}

// NewClock compiles the three patterns; empty patterns use the defaults
func NewClock(timePattern, datePattern, dayPattern string) (*Clock, error) {
	c := &Clock{}
	var err error
	if c.time, err = compile(timePattern, DefaultTimePattern); err != nil {
		return nil, err
	}
	if c.date, err = compile(datePattern, DefaultDatePattern); err != nil {
		return nil, err
	}
	if c.day, err = compile(dayPattern, DefaultDayPattern); err != nil {
		return nil, err
	}
	return c, nil
}

func compile(pattern, fallback string) (*strftime.Strftime, error) {
	if pattern == "" {
		pattern = fallback
	}
	p, err := strftime.New(pattern, strftime.WithSpecification('A', indonesianWeekday))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return p, nil
}

// Fields formats now, honouring fixed overrides
func (c *Clock) Fields(now time.Time) Fields {
	f := Fields{
		Time: c.time.FormatString(now),
		Date: c.date.FormatString(now),
		Day:  c.day.FormatString(now),
	}
	fixed := c.Fixed()
	if fixed.Time != "" {
		f.Time = fixed.Time
	}
	if fixed.Date != "" {
		f.Date = fixed.Date
	}
	if fixed.Day != "" {
		f.Day = fixed.Day
	}
	return f
}

// Fixed returns the overrides
func (c *Clock) Fixed() Fields {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fixed
}

// SetFixed replaces the overrides; an empty field goes back to the clock
func (c *Clock) SetFixed(f Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixed = f
}

// Apply writes the clock fields for now into snap, leaving address, logo and corner alone
func (c *Clock) Apply(snap *Snapshot, now time.Time) {
	f := c.Fields(now)
	snap.Content.Time = f.Time
	snap.Content.Date = f.Date
	snap.Content.Day = f.Day
}

// Run refreshes the store's clock fields every interval until ctx is cancelled
func (c *Clock) Run(ctx context.Context, store *Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			store.Update(func(s *Snapshot) { c.Apply(s, now) })
		}
	}
}

var defaultClock = mustClock()

func mustClock() *Clock {
	c, err := NewClock("", "", "")
	if err != nil {
		panic(err)
	}
	return c
}

// FromClock is the default content at now: HH:MM, dd/mm/yyyy and the Indonesian weekday.
// An empty address uses DefaultAddress.
func FromClock(now time.Time, address string) watermark.Content {
	if address == "" {
		address = DefaultAddress
	}
	f := defaultClock.Fields(now)
	return watermark.Content{
		Time:    f.Time,
		Date:    f.Date,
		Day:     f.Day,
		Address: address,
	}
}
