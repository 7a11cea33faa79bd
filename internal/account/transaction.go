package account

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies a ledger entry
type Category string

const (
	CategoryContribution Category = "contribution" // personal
	CategoryEmployer     Category = "employer"
	CategoryInterest     Category = "interest"
	CategoryIncome       Category = "income"
	CategoryTransfer     Category = "transfer"
	CategoryExpense      Category = "expense"
	CategoryRMD          Category = "rmd"
	CategoryPenalty      Category = "penalty"
	CategoryTax          Category = "tax"
	CategoryLoss         Category = "loss"
)

// IsDistribution reports whether a withdrawal of this category leaves the account
// as money the owner receives. Penalties and market losses do not.
func (c Category) IsDistribution() bool {
	return c != CategoryPenalty && c != CategoryLoss
}

// Transaction is a single immutable ledger entry. Amount is always positive;
// direction is implied by the ledger it is recorded in.
type Transaction struct {
	ID       uuid.UUID       `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Category Category        `json:"category"`
}

// NewTransaction creates a transaction with a fresh identifier
func NewTransaction(amount decimal.Decimal, date time.Time, category Category) Transaction {
	return Transaction{
		ID:       uuid.New(),
		Amount:   amount,
		Date:     date,
		Category: category,
	}
}

// ledger is a date-ordered, append-mostly list of transactions with running totals
type ledger struct {
	txs []Transaction
	cum []decimal.Decimal
}

func (l *ledger) add(tx Transaction) {
	n := len(l.txs)
	if n == 0 || !tx.Date.Before(l.txs[n-1].Date) {
		prev := decimal.Zero
		if n > 0 {
			prev = l.cum[n-1]
		}
		l.txs = append(l.txs, tx)
		l.cum = append(l.cum, prev.Add(tx.Amount))
		return
	}

	// back-dated entry: insert after any entries on the same date and rebuild totals
	i := sort.Search(n, func(i int) bool { return l.txs[i].Date.After(tx.Date) })
	l.txs = append(l.txs, Transaction{})
	copy(l.txs[i+1:], l.txs[i:])
	l.txs[i] = tx
	l.cum = append(l.cum, decimal.Zero)
	for j := i; j <= n; j++ {
		prev := decimal.Zero
		if j > 0 {
			prev = l.cum[j-1]
		}
		l.cum[j] = prev.Add(l.txs[j].Amount)
	}
}

// through sums entries dated at or before t
func (l *ledger) through(t time.Time) decimal.Decimal {
	i := sort.Search(len(l.txs), func(i int) bool { return l.txs[i].Date.After(t) })
	if i == 0 {
		return decimal.Zero
	}
	return l.cum[i-1]
}

// before sums entries dated strictly before t
func (l *ledger) before(t time.Time) decimal.Decimal {
	i := sort.Search(len(l.txs), func(i int) bool { return !l.txs[i].Date.Before(t) })
	if i == 0 {
		return decimal.Zero
	}
	return l.cum[i-1]
}

// sum totals entries in [from, to) whose category passes keep
func (l *ledger) sum(from, to time.Time, keep func(Category) bool) decimal.Decimal {
	start := sort.Search(len(l.txs), func(i int) bool { return !l.txs[i].Date.Before(from) })
	total := decimal.Zero
	for i := start; i < len(l.txs) && l.txs[i].Date.Before(to); i++ {
		if keep == nil || keep(l.txs[i].Category) {
			total = total.Add(l.txs[i].Amount)
		}
	}
	return total
}

func (l *ledger) entries() []Transaction {
	return append([]Transaction(nil), l.txs...)
}

func (l *ledger) clone() ledger {
	return ledger{
		txs: append([]Transaction(nil), l.txs...),
		cum: append([]decimal.Decimal(nil), l.cum...),
	}
}
