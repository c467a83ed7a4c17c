package core

import (
	"errors"
	"strings"
	"time"
)

// Payment frequencies supported for debts and reminders.
const (
	Weekly    PaymentFrequency = "weekly"
	Biweekly  PaymentFrequency = "biweekly"
	Monthly   PaymentFrequency = "monthly"
	Quarterly PaymentFrequency = "quarterly"
	Yearly    PaymentFrequency = "yearly"
)

// Auto-save frequencies for goals. AutoSaveNone disables the schedule.
const (
	AutoSaveNone      AutoSaveFrequency = "none"
	AutoSaveWeekly    AutoSaveFrequency = "weekly"
	AutoSaveBiweekly  AutoSaveFrequency = "biweekly"
	AutoSaveMonthly   AutoSaveFrequency = "monthly"
	AutoSaveQuarterly AutoSaveFrequency = "quarterly"
)

// Transaction types.
const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Debt kinds, mirroring the loan products users register.
const (
	CreditCard   DebtKind = "credit_card"
	PersonalLoan DebtKind = "personal_loan"
	Mortgage     DebtKind = "mortgage"
	AutoLoan     DebtKind = "auto_loan"
	StudentLoan  DebtKind = "student_loan"
	BusinessLoan DebtKind = "business_loan"
	OtherDebt    DebtKind = "other"
)

type (
	PaymentFrequency  string
	AutoSaveFrequency string
	TransactionType   string
	DebtKind          string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Debt is an amortizing liability with a scheduled recurring payment.
	Debt struct {
		ID               int64
		Name             string
		Description      string
		Kind             DebtKind
		Creditor         string
		AccountNumber    string
		Principal        Money
		CurrentBalance   Money
		InterestRate     float64 // nominal annual percentage rate
		PaymentAmount    Money
		PaymentFrequency PaymentFrequency
		MinimumPayment   Money // zero means not set
		NextPaymentDate  Date  // optional
		StartDate        Date  // optional
		ReminderDays     int
		AutoReminder     bool
		Active           bool
		PaidOffDate      Date // set by MarkAsPaid
		PaymentHistory   []Payment
	}

	// Payment is a single application against a debt. Immutable once recorded.
	Payment struct {
		ID          int64
		DebtID      int64
		Amount      Money
		Date        Date
		Description string
	}

	// Goal is a savings target, optionally fed by an auto-save schedule.
	Goal struct {
		ID                int64
		Name              string
		Description       string
		Category          string
		TargetAmount      Money
		CurrentAmount     Money
		Deadline          Date // optional
		AutoSaveEnabled   bool
		AutoSaveAmount    Money
		AutoSaveFrequency AutoSaveFrequency
		AutoSaveDay       int // day of month 1..28, monthly schedule only
		LastAutoSave      time.Time
		Active            bool
	}

	// Budget is a spending ceiling for one category in one calendar month.
	// Spent amounts are derived from transactions, never stored.
	Budget struct {
		ID       int64
		Category string
		Limit    Money
		Month    string // YYYY-MM
	}

	// Transaction is a single income or expense record.
	Transaction struct {
		ID          int64
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
		Date        Date
	}

	// Reminder is a recurring payment notice, independent of debts and goals
	// except for the auto-maintained ones carrying a DebtID.
	Reminder struct {
		ID               int64
		Name             string
		Amount           Money
		Category         string
		Frequency        PaymentFrequency
		NextDueDate      Date
		NotifyDaysBefore int
		Active           bool
		DebtID           int64 // zero for standalone reminders
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyCategory       = errors.New("empty category")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrDuplicateBudget     = errors.New("budget already exists for category and month")
	ErrIndeterminateResult = errors.New("indeterminate result: payment does not cover interest")
	ErrNotFound            = errors.New("record not found")
)

// Months returns the number of months covered by one payment at this
// frequency. The weekly value deliberately matches the dashboard's 0.23
// approximation rather than 12/52.
func (f PaymentFrequency) Months() float64 {
	switch f {
	case Weekly:
		return 0.23
	case Biweekly:
		return 0.5
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	default:
		return 0
	}
}

func (f PaymentFrequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

func (f AutoSaveFrequency) Valid() bool {
	switch f {
	case AutoSaveNone, AutoSaveWeekly, AutoSaveBiweekly, AutoSaveMonthly, AutoSaveQuarterly:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (k DebtKind) Valid() bool {
	switch k {
	case CreditCard, PersonalLoan, Mortgage, AutoLoan, StudentLoan, BusinessLoan, OtherDebt:
		return true
	}
	return false
}

// NewDate creates a new Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// IsEmpty reports whether the date is unset (optional dates are zero).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// MarshalJSON emits the date as YYYY-MM-DD, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD, null, or the empty string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// DaysUntil returns the number of whole days from today until d, negative
// when d is in the past. Both values are compared at day granularity.
func (d Date) DaysUntil(today time.Time) int {
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Time.Sub(from).Hours() / 24)
}

// MonthKey returns the YYYY-MM key for the date, used for budget matching.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// ValidMonthKey reports whether s is a well-formed YYYY-MM month key.
func ValidMonthKey(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) IsZero() bool { return m.Cents == 0 }

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns m minus o. The result may be negative; callers clamp where
// the domain requires it.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	if !d.Kind.Valid() {
		return errors.New("invalid debt kind")
	}
	if err := d.Principal.Validate(); err != nil {
		return err
	}
	if d.CurrentBalance.Cents < 0 {
		return ErrInvalidAmount
	}
	if d.CurrentBalance.Cents > d.Principal.Cents {
		return errors.New("current balance exceeds principal")
	}
	if d.InterestRate < 0 {
		return errors.New("negative interest rate")
	}
	if d.PaymentAmount.Cents < 0 || d.MinimumPayment.Cents < 0 {
		return ErrInvalidAmount
	}
	if !d.PaymentFrequency.Valid() {
		return ErrInvalidFrequency
	}
	if d.ReminderDays < 0 || d.ReminderDays > 30 {
		return errors.New("reminder days out of range")
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.AutoSaveFrequency.Valid() {
		return ErrInvalidFrequency
	}
	if g.AutoSaveEnabled {
		if err := g.AutoSaveAmount.Validate(); err != nil {
			return err
		}
		if g.AutoSaveFrequency == AutoSaveNone {
			return ErrInvalidFrequency
		}
		if g.AutoSaveFrequency == AutoSaveMonthly && (g.AutoSaveDay < 1 || g.AutoSaveDay > 28) {
			return ErrInvalidDay
		}
	}
	return nil
}

// Completed reports whether the goal has reached its target.
func (g Goal) Completed() bool {
	return g.TargetAmount.Cents > 0 && g.CurrentAmount.Cents >= g.TargetAmount.Cents
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if !ValidMonthKey(b.Month) {
		return ErrInvalidMonth
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return errors.New("invalid transaction type")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (p Payment) Validate() error {
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if err := r.NextDueDate.Validate(); err != nil {
		return err
	}
	if r.NotifyDaysBefore < 0 || r.NotifyDaysBefore > 30 {
		return errors.New("notify days out of range")
	}
	return nil
}
