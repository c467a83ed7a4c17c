package http

import (
	"time"

	"finanzas/internal/core"
)

const dateLayout = "2006-01-02"

// Wire representations. Amounts travel as decimal numbers and dates as
// YYYY-MM-DD strings; conversion to cents and core.Date happens here and
// nowhere deeper.

type debtJSON struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	Kind             string        `json:"type"`
	Creditor         string        `json:"creditor,omitempty"`
	AccountNumber    string        `json:"accountNumber,omitempty"`
	Principal        float64       `json:"totalAmount"`
	CurrentBalance   float64       `json:"currentBalance"`
	InterestRate     float64       `json:"interestRate"`
	PaymentAmount    float64       `json:"paymentAmount"`
	PaymentFrequency string        `json:"paymentFrequency"`
	MinimumPayment   float64       `json:"minimumPayment,omitempty"`
	NextPaymentDate  string        `json:"nextPaymentDate,omitempty"`
	StartDate        string        `json:"startDate,omitempty"`
	ReminderDays     int           `json:"reminderDays"`
	AutoReminder     bool          `json:"autoReminder"`
	Active           bool          `json:"isActive"`
	PaidOffDate      string        `json:"paidOffDate,omitempty"`
	PaymentHistory   []paymentJSON `json:"paymentHistory,omitempty"`
}

type paymentJSON struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
}

type goalJSON struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Category          string  `json:"category,omitempty"`
	TargetAmount      float64 `json:"targetAmount"`
	CurrentAmount     float64 `json:"currentAmount"`
	Deadline          string  `json:"deadline,omitempty"`
	AutoSaveEnabled   bool    `json:"autoSaveEnabled"`
	AutoSaveAmount    float64 `json:"autoSaveAmount,omitempty"`
	AutoSaveFrequency string  `json:"autoSaveFrequency,omitempty"`
	AutoSaveDay       int     `json:"autoSaveDay,omitempty"`
	LastAutoSave      string  `json:"lastAutoSave,omitempty"`
	Active            bool    `json:"isActive"`
}

type budgetJSON struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Month    string  `json:"month"`
}

type transactionJSON struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
}

type reminderJSON struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	Category         string  `json:"category,omitempty"`
	Frequency        string  `json:"frequency"`
	NextDueDate      string  `json:"nextDueDate"`
	NotifyDaysBefore int     `json:"notifyDaysBefore"`
	Active           bool    `json:"isActive"`
	DebtID           int64   `json:"debtId,omitempty"`
}

func dateOut(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

func dateIn(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

func moneyIn(v float64) (core.Money, error) {
	return core.MoneyFromFloat(v)
}

func debtOut(d core.Debt) debtJSON {
	out := debtJSON{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Kind:             string(d.Kind),
		Creditor:         d.Creditor,
		AccountNumber:    d.AccountNumber,
		Principal:        d.Principal.Amount(),
		CurrentBalance:   d.CurrentBalance.Amount(),
		InterestRate:     d.InterestRate,
		PaymentAmount:    d.PaymentAmount.Amount(),
		PaymentFrequency: string(d.PaymentFrequency),
		MinimumPayment:   d.MinimumPayment.Amount(),
		NextPaymentDate:  dateOut(d.NextPaymentDate),
		StartDate:        dateOut(d.StartDate),
		ReminderDays:     d.ReminderDays,
		AutoReminder:     d.AutoReminder,
		Active:           d.Active,
		PaidOffDate:      dateOut(d.PaidOffDate),
	}
	for _, p := range d.PaymentHistory {
		out.PaymentHistory = append(out.PaymentHistory, paymentJSON{
			ID:          p.ID,
			Amount:      p.Amount.Amount(),
			Date:        dateOut(p.Date),
			Description: p.Description,
		})
	}
	return out
}

func debtIn(in debtJSON) (core.Debt, error) {
	d := core.Debt{
		ID:               in.ID,
		Name:             in.Name,
		Description:      in.Description,
		Kind:             core.DebtKind(in.Kind),
		Creditor:         in.Creditor,
		AccountNumber:    in.AccountNumber,
		InterestRate:     in.InterestRate,
		PaymentFrequency: core.PaymentFrequency(in.PaymentFrequency),
		ReminderDays:     in.ReminderDays,
		AutoReminder:     in.AutoReminder,
		Active:           in.Active,
	}
	var err error
	if d.Principal, err = moneyIn(in.Principal); err != nil {
		return core.Debt{}, err
	}
	if d.CurrentBalance, err = moneyIn(in.CurrentBalance); err != nil {
		return core.Debt{}, err
	}
	if d.PaymentAmount, err = moneyIn(in.PaymentAmount); err != nil {
		return core.Debt{}, err
	}
	if d.MinimumPayment, err = moneyIn(in.MinimumPayment); err != nil {
		return core.Debt{}, err
	}
	if d.NextPaymentDate, err = dateIn(in.NextPaymentDate); err != nil {
		return core.Debt{}, err
	}
	if d.StartDate, err = dateIn(in.StartDate); err != nil {
		return core.Debt{}, err
	}
	if d.PaidOffDate, err = dateIn(in.PaidOffDate); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func goalOut(g core.Goal) goalJSON {
	out := goalJSON{
		ID:                g.ID,
		Name:              g.Name,
		Description:       g.Description,
		Category:          g.Category,
		TargetAmount:      g.TargetAmount.Amount(),
		CurrentAmount:     g.CurrentAmount.Amount(),
		Deadline:          dateOut(g.Deadline),
		AutoSaveEnabled:   g.AutoSaveEnabled,
		AutoSaveAmount:    g.AutoSaveAmount.Amount(),
		AutoSaveFrequency: string(g.AutoSaveFrequency),
		AutoSaveDay:       g.AutoSaveDay,
		Active:            g.Active,
	}
	if !g.LastAutoSave.IsZero() {
		out.LastAutoSave = g.LastAutoSave.Format(time.RFC3339)
	}
	return out
}

func goalIn(in goalJSON) (core.Goal, error) {
	g := core.Goal{
		ID:              in.ID,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		AutoSaveEnabled: in.AutoSaveEnabled,
		AutoSaveDay:     in.AutoSaveDay,
		Active:          in.Active,
	}
	g.AutoSaveFrequency = core.AutoSaveFrequency(in.AutoSaveFrequency)
	if g.AutoSaveFrequency == "" {
		g.AutoSaveFrequency = core.AutoSaveNone
	}
	var err error
	if g.TargetAmount, err = moneyIn(in.TargetAmount); err != nil {
		return core.Goal{}, err
	}
	if g.CurrentAmount, err = moneyIn(in.CurrentAmount); err != nil {
		return core.Goal{}, err
	}
	if g.AutoSaveAmount, err = moneyIn(in.AutoSaveAmount); err != nil {
		return core.Goal{}, err
	}
	if g.Deadline, err = dateIn(in.Deadline); err != nil {
		return core.Goal{}, err
	}
	if in.LastAutoSave != "" {
		if g.LastAutoSave, err = time.Parse(time.RFC3339, in.LastAutoSave); err != nil {
			return core.Goal{}, err
		}
	}
	return g, nil
}

func budgetOut(b core.Budget) budgetJSON {
	return budgetJSON{ID: b.ID, Category: b.Category, Limit: b.Limit.Amount(), Month: b.Month}
}

func budgetIn(in budgetJSON) (core.Budget, error) {
	limit, err := moneyIn(in.Limit)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{ID: in.ID, Category: in.Category, Limit: limit, Month: in.Month}, nil
}

func transactionOut(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.Amount(),
		Category:    t.Category,
		Description: t.Description,
		Date:        dateOut(t.Date),
	}
}

func transactionIn(in transactionJSON) (core.Transaction, error) {
	t := core.Transaction{
		ID:          in.ID,
		Type:        core.TransactionType(in.Type),
		Category:    in.Category,
		Description: in.Description,
	}
	var err error
	if t.Amount, err = moneyIn(in.Amount); err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = dateIn(in.Date); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func reminderOut(r core.Reminder) reminderJSON {
	return reminderJSON{
		ID:               r.ID,
		Name:             r.Name,
		Amount:           r.Amount.Amount(),
		Category:         r.Category,
		Frequency:        string(r.Frequency),
		NextDueDate:      dateOut(r.NextDueDate),
		NotifyDaysBefore: r.NotifyDaysBefore,
		Active:           r.Active,
		DebtID:           r.DebtID,
	}
}

func reminderIn(in reminderJSON) (core.Reminder, error) {
	r := core.Reminder{
		ID:               in.ID,
		Name:             in.Name,
		Category:         in.Category,
		Frequency:        core.PaymentFrequency(in.Frequency),
		NotifyDaysBefore: in.NotifyDaysBefore,
		Active:           in.Active,
		DebtID:           in.DebtID,
	}
	var err error
	if r.Amount, err = moneyIn(in.Amount); err != nil {
		return core.Reminder{}, err
	}
	if r.NextDueDate, err = dateIn(in.NextDueDate); err != nil {
		return core.Reminder{}, err
	}
	return r, nil
}
