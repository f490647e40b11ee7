package ocr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoTransaction is returned when recognized text is not shaped like
// "<Type> <Amount> <ISO-Date>".
var ErrNoTransaction = errors.New("ocr: text is not a transaction")

// DateLayout is the ISO date the recognizer answers with.
const DateLayout = "2006-01-02"

// Transaction types accepted by the ledger form.
var TransactionTypes = []string{"sale", "purchase", "expense", "receipt"}

var transactionRe = regexp.MustCompile(`^(\S+)\s+([-+]?[\d,]*\d(?:\.\d+)?)\s+(\d{4}-\d{2}-\d{2})$`)

// Transaction is the structured form of a recognized note.
type Transaction struct {
	Type   string    `json:"type"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s", t.Type, strconv.FormatFloat(t.Amount, 'f', -1, 64), t.Date.Format(DateLayout))
}

// ParseTransaction parses recognizer output. The type word is matched
// fuzzily against TransactionTypes and returned lower case; thousands
// separators in the amount are ignored.
func ParseTransaction(text string) (Transaction, error) {
	m := transactionRe.FindStringSubmatch(CleanText(text))
	if m == nil {
		return Transaction{}, fmt.Errorf("%w: %q", ErrNoTransaction, text)
	}

	kind, score := closestType(m[1])
	if score < MinTypeSimilarity {
		return Transaction{}, fmt.Errorf("%w: unknown type %q", ErrNoTransaction, m[1])
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: amount %q: %v", ErrNoTransaction, m[2], err)
	}
	date, err := time.Parse(DateLayout, m[3])
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: date %q: %v", ErrNoTransaction, m[3], err)
	}
	return Transaction{Type: kind, Amount: amount, Date: date}, nil
}
