package checkpoint

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"unicode"

	"github.com/katalvlaran/lvising/simerr"
)

// DirName is the checkpoint subdirectory next to the input file.
const DirName = "temp"

// Header is the column layout of a checkpoint file.
var Header = []string{
	"temperature", "avg_mag", "avg_mag2", "avg_mag4",
	"chi0_re", "chi0_im", "chiq_re", "chiq_im",
}

var (
	// ErrRowFields is returned for a row without exactly len(Header) fields.
	ErrRowFields = simerr.Sentinel("checkpoint", "row must have 8 fields", simerr.ErrDataIntegrity)

	// ErrMalformed is returned for a field that is not a number.
	ErrMalformed = simerr.Sentinel("checkpoint", "malformed field", simerr.ErrDataIntegrity)
)

// Row is the per-rung result of one trial.
type Row struct {
	Temperature float64
	AvgMag      float64
	AvgMag2     float64
	AvgMag4     float64
	Chi0        complex128
	Chiq        complex128
}

// Entry is a checkpoint file found by Scan.
type Entry struct {
	Trial int
	Path  string
}

// Store locates the checkpoints of one input file.
type Store struct {
	Dir  string
	Base string

	mu sync.Mutex
}

// NewStore returns the store for inputPath: <dir(inputPath)>/temp, keyed by
// the input's base name.
func NewStore(inputPath string) *Store {
	return &Store{
		Dir:  filepath.Join(filepath.Dir(inputPath), DirName),
		Base: filepath.Base(inputPath),
	}
}

// Path returns the checkpoint file of trial.
func (s *Store) Path(trial int) string {
	return filepath.Join(s.Dir, strconv.Itoa(trial)+s.Base)
}

// EnsureDir creates the checkpoint directory if needed.
func (s *Store) EnsureDir() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create %s: %w", s.Dir, err)
	}
	return nil
}

// Save writes rows as the checkpoint of trial, replacing any previous file.
func (s *Store) Save(trial int, rows []Row) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, Header)
	for _, r := range rows {
		records = append(records, []string{
			formatFloat(r.Temperature),
			formatFloat(r.AvgMag),
			formatFloat(r.AvgMag2),
			formatFloat(r.AvgMag4),
			formatFloat(real(r.Chi0)),
			formatFloat(imag(r.Chi0)),
			formatFloat(real(r.Chiq)),
			formatFloat(imag(r.Chiq)),
		})
	}
	if err := WriteCSV(s.Path(trial), records); err != nil {
		return fmt.Errorf("checkpoint: save trial %d: %w", trial, err)
	}
	return nil
}

// Scan lists the checkpoint files of this store, sorted by trial. A missing
// directory yields no entries.
func (s *Store) Scan() ([]Entry, error) {
	dirents, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: scan %s: %w", s.Dir, err)
	}

	pattern := regexp.MustCompile(`^(\d+)` + regexp.QuoteMeta(s.Base) + `$`)
	var out []Entry
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(d.Name())
		if m == nil {
			continue
		}
		trial, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("checkpoint: %s: %v: %w", d.Name(), err, ErrMalformed)
		}
		out = append(out, Entry{Trial: trial, Path: filepath.Join(s.Dir, d.Name())})
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Trial - b.Trial })
	return out, nil
}

// Remove deletes the checkpoint of trial; a missing file is not an error.
func (s *Store) Remove(trial int) error {
	err := os.Remove(s.Path(trial))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checkpoint: remove trial %d: %w", trial, err)
	}
	return nil
}

// Clear removes every checkpoint Scan would report and returns how many.
func (s *Store) Clear() (int, error) {
	entries, err := s.Scan()
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := s.Remove(e.Trial); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// Load parses the checkpoint at path. Leading lines that start with a letter
// are treated as headers.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %s: %w", path, err)
	}
	return rows, nil
}

// Read parses checkpoint rows from r.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows []Row
		line int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrMalformed)
		}
		line++
		if len(rows) == 0 && len(rec) > 0 && rec[0] != "" && unicode.IsLetter(rune(rec[0][0])) {
			continue
		}
		if len(rec) != len(Header) {
			return nil, fmt.Errorf("line %d has %d fields: %w", line, len(rec), ErrRowFields)
		}
		var v [8]float64
		for i, field := range rec {
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d field %q: %w", line, field, ErrMalformed)
			}
			v[i] = x
		}
		rows = append(rows, Row{
			Temperature: v[0],
			AvgMag:      v[1],
			AvgMag2:     v[2],
			AvgMag4:     v[3],
			Chi0:        complex(v[4], v[5]),
			Chiq:        complex(v[6], v[7]),
		})
	}
	return rows, nil
}

// WriteCSV writes records to path atomically: a hidden temp file in the same
// directory is synced, closed and renamed over path.
func WriteCSV(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lvising-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	success = true
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
