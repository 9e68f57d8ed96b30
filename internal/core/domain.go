package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	Bank    SourceType = "bank"
	EWallet SourceType = "ewallet"
	Cash    SourceType = "cash"
)

type (
	SourceType string

	// Date is a calendar date normalized to midnight UTC. Window
	// membership (today / this month / this year) is decided on UTC
	// calendar components, never on the host timezone.
	Date struct {
		time.Time
	}

	Money struct {
		Rupiah int64
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}

	Source struct {
		ID   string     `json:"id"`
		Name string     `json:"name"`
		Type SourceType `json:"type"`
		Icon string     `json:"icon"`
	}

	// Expense embeds full copies of its category and source as they were
	// at creation time. Renaming or deleting either later never rewrites
	// historical expenses.
	Expense struct {
		ID        string    `json:"id"`
		Date      Date      `json:"date"`
		Amount    Money     `json:"amount"`
		Category  Category  `json:"category"`
		Source    Source    `json:"source"`
		Notes     string    `json:"notes,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyCategory = errors.New("missing category")
	ErrEmptySource   = errors.New("missing source")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidType   = errors.New("invalid source type")
	ErrNotesTooLong  = errors.New("notes too long (max 500 characters)")
	ErrNameTooLong   = errors.New("name too long (max 100 characters)")
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (st SourceType) Valid() bool {
	switch st {
	case Bank, EWallet, Cash:
		return true
	default:
		return false
	}
}

// Icon returns the glyph associated with the source type.
func (st SourceType) Icon() string {
	switch st {
	case Bank:
		return "🏦"
	case EWallet:
		return "📱"
	default:
		return "💵"
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("empty category id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	if !colorRe.MatchString(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (s Source) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("empty source id")
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > 100 {
		return ErrNameTooLong
	}
	if !s.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("empty expense id")
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category.ID) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Source.ID) == "" {
		return ErrEmptySource
	}
	if len(e.Notes) > 500 {
		return ErrNotesTooLong
	}
	return nil
}
