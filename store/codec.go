package store

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
)

// Flat encodings, all versionless:
//
//	instrument   symbol|name|price|h1,h2,...
//	transaction  side|symbol|qty|price|unixSeconds
//	account      owner|cash|posCount|sym,qty,avg;...|txnCount|txn;txn;...
//
// Transactions are stored at one-second resolution.

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseFloat accepts finite numbers only.
func parseFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "decode %s", what)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("decode %s: %q is not a finite number", what, s)
	}
	return v, nil
}

func parseInt(s, what string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "decode %s", what)
	}
	return v, nil
}

// checkField rejects text that would break the framing around it.
func checkField(what, s, reserved string) error {
	if strings.ContainsAny(s, reserved+"\r\n") {
		return errors.Errorf("encode %s %q: contains a reserved character", what, s)
	}
	return nil
}

func EncodeInstrument(inst *market.Instrument) (string, error) {
	if err := checkField("symbol", inst.Symbol(), "|,;"); err != nil {
		return "", err
	}
	if err := checkField("name", inst.Name(), "|"); err != nil {
		return "", err
	}

	history := inst.History()
	hs := make([]string, len(history))
	for i, h := range history {
		hs[i] = formatFloat(h)
	}

	return strings.Join([]string{
		inst.Symbol(),
		inst.Name(),
		formatFloat(inst.Price()),
		strings.Join(hs, ","),
	}, "|"), nil
}

func DecodeInstrument(line string) (*market.Instrument, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) != 4 {
		return nil, errors.Errorf("decode instrument %q: want 4 fields, got %d", line, len(parts))
	}

	symbol := parts[0]
	if symbol == "" {
		return nil, errors.Errorf("decode instrument %q: empty symbol", line)
	}
	price, err := parseFloat(parts[2], "instrument price")
	if err != nil {
		return nil, err
	}
	if !(price > 0) {
		return nil, errors.Errorf("decode instrument %s: price %v is not positive", symbol, price)
	}

	var history []float64
	for _, item := range strings.Split(parts[3], ",") {
		if item == "" {
			continue
		}
		h, err := parseFloat(item, "instrument history")
		if err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	return market.RestoreInstrument(symbol, parts[1], price, history, time.Time{}), nil
}

func EncodeTransaction(t portfolio.Transaction) (string, error) {
	if err := checkField("symbol", t.Symbol, "|,;"); err != nil {
		return "", err
	}
	return strings.Join([]string{
		t.Side.String(),
		t.Symbol,
		strconv.Itoa(t.Quantity),
		formatFloat(t.Price),
		strconv.FormatInt(t.Time.Unix(), 10),
	}, "|"), nil
}

func DecodeTransaction(s string) (portfolio.Transaction, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 5 {
		return portfolio.Transaction{}, errors.Errorf("decode transaction %q: want 5 fields, got %d", s, len(parts))
	}

	side, err := market.ParseSide(parts[0])
	if err != nil {
		return portfolio.Transaction{}, errors.Wrap(err, "decode transaction")
	}
	qty, err := parseInt(parts[2], "transaction quantity")
	if err != nil {
		return portfolio.Transaction{}, err
	}
	price, err := parseFloat(parts[3], "transaction price")
	if err != nil {
		return portfolio.Transaction{}, err
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
	if err != nil {
		return portfolio.Transaction{}, errors.Wrap(err, "decode transaction timestamp")
	}

	return portfolio.Transaction{
		Side:     side,
		Symbol:   parts[1],
		Quantity: qty,
		Price:    price,
		Time:     time.Unix(ts, 0),
	}, nil
}

func EncodeAccount(p *portfolio.Portfolio) (string, error) {
	if err := checkField("owner", p.OwnerID(), "|"); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(p.OwnerID())
	b.WriteString("|")
	b.WriteString(formatFloat(p.Cash()))
	b.WriteString("|")

	positions := p.Positions()
	b.WriteString(strconv.Itoa(len(positions)))
	b.WriteString("|")
	for _, pos := range positions {
		if err := checkField("symbol", pos.Symbol, "|,;"); err != nil {
			return "", err
		}
		b.WriteString(pos.Symbol)
		b.WriteString(",")
		b.WriteString(strconv.Itoa(pos.Quantity))
		b.WriteString(",")
		b.WriteString(formatFloat(pos.AveragePrice))
		b.WriteString(";")
	}

	txns := p.Transactions()
	b.WriteString("|")
	b.WriteString(strconv.Itoa(len(txns)))
	b.WriteString("|")
	for _, t := range txns {
		s, err := EncodeTransaction(t)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString(";")
	}

	return b.String(), nil
}

// DecodeAccount parses an encoded account. The position and transaction
// counts must match the entries present.
func DecodeAccount(s string, opts ...portfolio.Option) (*portfolio.Portfolio, error) {
	// the transaction section contains '|' itself, so only split the head
	parts := strings.SplitN(s, "|", 6)
	if len(parts) != 6 {
		return nil, errors.Errorf("decode account: want 6 sections, got %d", len(parts))
	}

	owner := parts[0]
	cash, err := parseFloat(parts[1], "account cash")
	if err != nil {
		return nil, err
	}

	posCount, err := parseInt(parts[2], "position count")
	if err != nil {
		return nil, err
	}
	var positions []portfolio.Position
	for _, item := range strings.Split(parts[3], ";") {
		if item == "" {
			continue
		}
		fields := strings.Split(item, ",")
		if len(fields) != 3 {
			return nil, errors.Errorf("decode position %q: want 3 fields, got %d", item, len(fields))
		}
		qty, err := parseInt(fields[1], "position quantity")
		if err != nil {
			return nil, err
		}
		avg, err := parseFloat(fields[2], "position average price")
		if err != nil {
			return nil, err
		}
		positions = append(positions, portfolio.Position{Symbol: fields[0], Quantity: qty, AveragePrice: avg})
	}
	if len(positions) != posCount {
		return nil, errors.Errorf("decode account %s: %d positions, header says %d", owner, len(positions), posCount)
	}

	txnCount, err := parseInt(parts[4], "transaction count")
	if err != nil {
		return nil, err
	}
	var txns []portfolio.Transaction
	for _, item := range strings.Split(parts[5], ";") {
		if item == "" {
			continue
		}
		t, err := DecodeTransaction(item)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	if len(txns) != txnCount {
		return nil, errors.Errorf("decode account %s: %d transactions, header says %d", owner, len(txns), txnCount)
	}

	p, err := portfolio.Restore(owner, cash, positions, txns, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return p, nil
}
