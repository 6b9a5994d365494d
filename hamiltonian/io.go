package hamiltonian

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads the Hamiltonian text format:
//
//	[shape[,rows[,cols]]]     optional header on the first non-blank line
//	J,i1,i2,...               one term per line, commas and/or blanks
//
// Missing header fields default to NoDimension. Blank lines are skipped.
func Parse(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		opts    []Option
		rows    [][]int
		line    int
		started bool
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		first := !started
		started = true
		if first && unicode.IsLetter(rune(text[0])) {
			hdr, err := parseHeader(text)
			if err != nil {
				return nil, fmt.Errorf("Parse: line %d: %w", line, err)
			}
			opts = hdr
			continue
		}
		term, err := parseTerm(text)
		if err != nil {
			return nil, fmt.Errorf("Parse: line %d: %w", line, err)
		}
		rows = append(rows, term)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("Parse: %v: %w", err, ErrParse)
	}
	return New(rows, opts...)
}

func parseHeader(text string) ([]Option, error) {
	fields := splitFields(text)
	shape := fields[0]
	if len(shape) != 1 || !ValidShape(shape[0]) {
		return nil, fmt.Errorf("header shape %q: %w", shape, ErrShape)
	}
	dims := [2]int{NoDimension, NoDimension}
	for i := 1; i < len(fields) && i <= 2; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("header field %q: %w", fields[i], ErrParse)
		}
		dims[i-1] = v
	}
	return []Option{WithShape(shape[0]), WithDimensions(dims[0], dims[1])}, nil
}

func parseTerm(text string) ([]int, error) {
	fields := splitFields(text)
	term := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, ErrParse)
		}
		term = append(term, v)
	}
	return term, nil
}

func splitFields(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ReadFile parses the Hamiltonian stored at path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("ReadFile %s: %w", path, err)
	}
	return g, nil
}

// Write emits g in the format accepted by Parse. The header is written only
// when a shape was declared.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	if g.shape != ShapeCustom {
		if _, err := fmt.Fprintf(bw, "%c,%d,%d\n", g.shape, g.rows, g.cols); err != nil {
			return err
		}
	}
	for _, t := range g.terms {
		parts := make([]string, len(t))
		for i, v := range t {
			parts[i] = strconv.Itoa(v)
		}
		if _, err := bw.WriteString(strings.Join(parts, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes g to path, replacing any existing file.
func WriteFile(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return fmt.Errorf("WriteFile %s: %w", path, err)
	}
	return f.Close()
}
