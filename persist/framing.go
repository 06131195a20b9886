package persist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteMagic writes the file-level magic line, e.g. "LCP" or "Solution".
func WriteMagic(w io.Writer, magic string) error {
	_, err := fmt.Fprintf(w, "%s\n", magic)
	return err
}

// ReadMagic reads and validates the file-level magic line.
func ReadMagic(r *bufio.Reader, magic string) error {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if strings.TrimRight(line, "\n") != magic {
		return ErrBadMagic
	}

	return nil
}

// WriteSection writes a named section: a header line "## name count", then
// one row per value, each on its own line via %.17g (round-trip-safe for
// float64).
func WriteSection(w io.Writer, name string, rows []float64) error {
	if _, err := fmt.Fprintf(w, "## %s %d\n", name, len(rows)); err != nil {
		return err
	}
	for _, v := range rows {
		if _, err := fmt.Fprintf(w, "%.17g\n", v); err != nil {
			return err
		}
	}

	return nil
}

// WriteIntSection writes a named section of integers.
func WriteIntSection(w io.Writer, name string, rows []int) error {
	if _, err := fmt.Fprintf(w, "## %s %d\n", name, len(rows)); err != nil {
		return err
	}
	for _, v := range rows {
		if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
			return err
		}
	}

	return nil
}

// ReadSection reads a named section's header and its rows as float64.
// If wantName is non-empty, the header's name must match it exactly.
func ReadSection(r *bufio.Reader, wantName string) (name string, rows []float64, err error) {
	header, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	header = strings.TrimRight(header, "\n")
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != "##" {
		return "", nil, ErrMalformedSection
	}
	name = fields[1]
	if wantName != "" && name != wantName {
		return "", nil, ErrSectionNameMismatch
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", nil, ErrMalformedSection
	}

	rows = make([]float64, count)
	for i := 0; i < count; i++ {
		line, lerr := r.ReadString('\n')
		if lerr != nil && lerr != io.EOF {
			return "", nil, lerr
		}
		v, perr := strconv.ParseFloat(strings.TrimRight(line, "\n"), 64)
		if perr != nil {
			return "", nil, ErrMalformedSection
		}
		rows[i] = v
	}

	return name, rows, nil
}

// WriteStringSection writes a named section of strings (one per line; the
// instance format's names and enum tags never contain newlines).
func WriteStringSection(w io.Writer, name string, rows []string) error {
	if _, err := fmt.Fprintf(w, "## %s %d\n", name, len(rows)); err != nil {
		return err
	}
	for _, v := range rows {
		if _, err := fmt.Fprintf(w, "%s\n", v); err != nil {
			return err
		}
	}

	return nil
}

// ReadStringSection reads a named section's header and its rows as string.
func ReadStringSection(r *bufio.Reader, wantName string) (name string, rows []string, err error) {
	header, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	header = strings.TrimRight(header, "\n")
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != "##" {
		return "", nil, ErrMalformedSection
	}
	name = fields[1]
	if wantName != "" && name != wantName {
		return "", nil, ErrSectionNameMismatch
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", nil, ErrMalformedSection
	}

	rows = make([]string, count)
	for i := 0; i < count; i++ {
		line, lerr := r.ReadString('\n')
		if lerr != nil && lerr != io.EOF {
			return "", nil, lerr
		}
		rows[i] = strings.TrimRight(line, "\n")
	}

	return name, rows, nil
}

// ReadIntSection reads a named section's header and its rows as int.
func ReadIntSection(r *bufio.Reader, wantName string) (name string, rows []int, err error) {
	header, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	header = strings.TrimRight(header, "\n")
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != "##" {
		return "", nil, ErrMalformedSection
	}
	name = fields[1]
	if wantName != "" && name != wantName {
		return "", nil, ErrSectionNameMismatch
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", nil, ErrMalformedSection
	}

	rows = make([]int, count)
	for i := 0; i < count; i++ {
		line, lerr := r.ReadString('\n')
		if lerr != nil && lerr != io.EOF {
			return "", nil, lerr
		}
		v, perr := strconv.Atoi(strings.TrimRight(line, "\n"))
		if perr != nil {
			return "", nil, ErrMalformedSection
		}
		rows[i] = v
	}

	return name, rows, nil
}
