// Package npci decodes the packed NPCI mini-statement narrative format.
//
// Each line looks like
//
//	/MM/YY<CR|DR><narration><12-digit amount in paisa>
//
// for example "/06/24CR SALARY CREDIT000000050000".
package npci

import (
	"strings"

	"github.com/shopspring/decimal"

	"aeps-agent.backend/internal/domain/entities"
)

const (
	dateLen   = 5
	amountLen = 12
	// bodyStart is the index just past "/MM/YY".
	bodyStart = 1 + dateLen

	// DefaultNarration replaces an empty narration so no row renders blank.
	DefaultNarration = "Bank Transaction"
)

// SkipReason explains why a raw line produced no record
type SkipReason string

const (
	SkipNoLeadingSlash SkipReason = "missing leading slash"
	SkipTooShort       SkipReason = "line too short"
	SkipNoMarker       SkipReason = "missing CR/DR marker"
	SkipBadAmount      SkipReason = "non-numeric amount"
)

// SkippedLine records a line that was dropped during decoding
type SkippedLine struct {
	Index  int        `json:"index"`
	Reason SkipReason `json:"reason"`
}

// Decode turns raw statement lines into records, preserving input order.
// Malformed lines are skipped; they never abort the batch.
func Decode(lines []string) []entities.NpciTransactionRecord {
	records, _ := DecodeWithReport(lines)
	return records
}

// DecodeWithReport is Decode plus the list of skipped lines
func DecodeWithReport(lines []string) ([]entities.NpciTransactionRecord, []SkippedLine) {
	records := make([]entities.NpciTransactionRecord, 0, len(lines))
	var skipped []SkippedLine

	for i, line := range lines {
		record, reason := decodeLine(line)
		if reason != "" {
			skipped = append(skipped, SkippedLine{Index: i, Reason: reason})
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func decodeLine(line string) (entities.NpciTransactionRecord, SkipReason) {
	if !strings.HasPrefix(line, "/") {
		return entities.NpciTransactionRecord{}, SkipNoLeadingSlash
	}
	if len(line) < bodyStart+amountLen {
		return entities.NpciTransactionRecord{}, SkipTooShort
	}

	amountStart := len(line) - amountLen
	body := line[bodyStart:amountStart]

	direction, narrationStart, ok := findMarker(body)
	if !ok {
		return entities.NpciTransactionRecord{}, SkipNoMarker
	}

	amount, ok := parsePaisa(line[amountStart:])
	if !ok {
		return entities.NpciTransactionRecord{}, SkipBadAmount
	}

	narration := strings.TrimSpace(body[narrationStart:])
	if narration == "" {
		narration = DefaultNarration
	}

	return entities.NpciTransactionRecord{
		Date:      line[1:bodyStart],
		Amount:    amount,
		Direction: direction,
		Narration: narration,
	}, ""
}

// findMarker reports credit whenever CR appears anywhere in the body, even
// after a DR. Narration starts right after the chosen marker.
func findMarker(body string) (entities.Direction, int, bool) {
	if idx := strings.Index(body, "CR"); idx >= 0 {
		return entities.DirectionCredit, idx + 2, true
	}
	if idx := strings.Index(body, "DR"); idx >= 0 {
		return entities.DirectionDebit, idx + 2, true
	}
	return "", 0, false
}

func parsePaisa(s string) (decimal.Decimal, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return decimal.Decimal{}, false
		}
	}
	paisa, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return paisa.Shift(-2), true
}

// Summary totals a decoded statement
type Summary struct {
	Count   int             `json:"count"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
}

// Summarise totals credits and debits
func Summarise(records []entities.NpciTransactionRecord) Summary {
	s := Summary{Credits: decimal.Zero, Debits: decimal.Zero}
	for _, r := range records {
		s.Count++
		switch r.Direction {
		case entities.DirectionCredit:
			s.Credits = s.Credits.Add(r.Amount)
		case entities.DirectionDebit:
			s.Debits = s.Debits.Add(r.Amount)
		}
	}
	return s
}
