// Package store persists the market and accounts as flat text files.
package store

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
)

// ErrNotFound is returned by LoadAccount when no account is saved for the owner.
var ErrNotFound = errors.New("account not found")

const instrumentsFile = "stocks.txt"

type Persister interface {
	LoadInstruments() ([]*market.Instrument, error)
	SaveInstruments([]*market.Instrument) error
	LoadAccount(ownerID string) (*portfolio.Portfolio, error)
	SaveAccount(*portfolio.Portfolio) error
}

// FileStore keeps the instrument list in stocks.txt and each account in
// portfolio_<owner>.txt under one directory.
type FileStore struct {
	dir string
}

var _ Persister = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) accountPath(owner string) string {
	return filepath.Join(s.dir, "portfolio_"+owner+".txt")
}

// LoadInstruments returns nil, nil when nothing has been saved yet.
// The file is a count line followed by one encoded instrument per line.
func (s *FileStore) LoadInstruments() ([]*market.Instrument, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, instrumentsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read instruments")
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	sc := bufio.NewScanner(bytes.NewReader(payload))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, errors.Wrap(sc.Err(), "read instrument count")
	}
	count, err := parseInt(sc.Text(), "instrument count")
	if err != nil {
		return nil, err
	}

	out := make([]*market.Instrument, 0, count)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		inst, err := DecodeInstrument(line)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read instruments")
	}
	if len(out) != count {
		return nil, errors.Errorf("read instruments: %d entries, header says %d", len(out), count)
	}
	return out, nil
}

func (s *FileStore) SaveInstruments(instruments []*market.Instrument) error {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(instruments)))
	b.WriteString("\n")
	for _, inst := range instruments {
		line, err := EncodeInstrument(inst)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return writeAtomic(filepath.Join(s.dir, instrumentsFile), []byte(b.String()), "instruments")
}

func (s *FileStore) LoadAccount(ownerID string) (*portfolio.Portfolio, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(s.accountPath(ownerID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNotFound, "load account %s", ownerID)
		}
		return nil, errors.Wrap(err, "read account")
	}

	line := strings.TrimSpace(string(payload))
	if line == "" {
		return nil, errors.Wrapf(ErrNotFound, "load account %s", ownerID)
	}

	p, err := DecodeAccount(line)
	if err != nil {
		return nil, err
	}
	if p.OwnerID() != ownerID {
		return nil, errors.Errorf("load account %s: file belongs to %s", ownerID, p.OwnerID())
	}
	return p, nil
}

func (s *FileStore) SaveAccount(p *portfolio.Portfolio) error {
	if err := checkOwner(p.OwnerID()); err != nil {
		return err
	}
	line, err := EncodeAccount(p)
	if err != nil {
		return err
	}
	return writeAtomic(s.accountPath(p.OwnerID()), []byte(line+"\n"), "account")
}

// owner ids become part of a file name
func checkOwner(owner string) error {
	if owner == "" || strings.ContainsAny(owner, `|/\`) || owner == "." || owner == ".." {
		return errors.Errorf("invalid owner id %q", owner)
	}
	return nil
}

func writeAtomic(path string, payload []byte, what string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrapf(err, "write %s temp file", what)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "persist %s", what)
	}
	return nil
}
