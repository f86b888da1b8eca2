// Package corpus reads the text corpora of the study: violation records,
// coordinate lists, release lists, the callable universe and the per-artifact
// popularity and dependents stores.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

const (
	fieldSep     = ":"
	countSep     = "/"
	listOpen     = "["
	listClose    = "]"
	listSep      = ", "
	commentLead  = "#"
	headFields   = 4
	maxLineBytes = 64 << 20
)

// ReadViolations parses a breaking-change or API-extension listing. The first
// line is a header and is discarded; blank and "#" lines are skipped.
func ReadViolations(r io.Reader) ([]model.Major, error) {
	var majors []model.Major

	err := scanLines(r, true, func(lineNo int, line string) error {
		m, parseErr := parseMajor(line)
		if parseErr != nil {
			return fmt.Errorf("line %d: %w", lineNo, parseErr)
		}

		majors = append(majors, m)

		return nil
	})

	return majors, err
}

// LoadViolations reads a violations file from disk.
func LoadViolations(path string) ([]model.Major, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open violations: %w", err)
	}
	defer f.Close()

	majors, err := ReadViolations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return majors, nil
}

// parseMajor parses "g:a:major:violations/methods:[c1, c2]".
func parseMajor(line string) (model.Major, error) {
	head, list, found := strings.Cut(line, fieldSep+listOpen)
	if !found {
		return model.Major{}, fmt.Errorf("%w: missing callable list", model.ErrMalformedRecord)
	}

	fields := strings.Split(head, fieldSep)
	if len(fields) != headFields {
		return model.Major{}, fmt.Errorf("%w: want %d fields before the callable list, got %d",
			model.ErrMalformedRecord, headFields, len(fields))
	}

	if fields[0] == "" || fields[1] == "" {
		return model.Major{}, fmt.Errorf("%w: empty group or artifact", model.ErrMalformedRecord)
	}

	major, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return model.Major{}, fmt.Errorf("%w: major version %q", model.ErrMalformedRecord, fields[2])
	}

	violationsText, methodsText, found := strings.Cut(fields[3], countSep)
	if !found {
		return model.Major{}, fmt.Errorf("%w: counts %q lack %q", model.ErrMalformedRecord, fields[3], countSep)
	}

	violations, err := strconv.Atoi(strings.TrimSpace(violationsText))
	if err != nil {
		return model.Major{}, fmt.Errorf("%w: violations %q", model.ErrMalformedRecord, violationsText)
	}

	methods, err := strconv.Atoi(strings.TrimSpace(methodsText))
	if err != nil {
		return model.Major{}, fmt.Errorf("%w: method count %q", model.ErrMalformedRecord, methodsText)
	}

	callables, err := parseList(list)
	if err != nil {
		return model.Major{}, err
	}

	return model.Major{
		Coordinate:    model.Coordinate{GroupID: fields[0], ArtifactID: fields[1]},
		MajorVersion:  major,
		Violations:    violations,
		NumberMethods: methods,
		Callables:     callables,
	}, nil
}

// parseList parses the body of a bracketed list whose opening bracket has
// already been consumed. Entries are separated by ", "; a bare comma belongs
// to a parameter list inside a descriptor. "[]" yields an empty, non-nil slice.
func parseList(list string) ([]string, error) {
	body, found := strings.CutSuffix(strings.TrimSpace(list), listClose)
	if !found {
		return nil, fmt.Errorf("%w: unterminated callable list", model.ErrMalformedRecord)
	}

	if strings.TrimSpace(body) == "" {
		return []string{}, nil
	}

	parts := strings.Split(body, listSep)
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: empty callable in list", model.ErrMalformedRecord)
		}

		out = append(out, p)
	}

	return out, nil
}

// scanLines calls fn for every non-blank, non-comment line with its 1-based
// line number. With skipHeader the first line is discarded unread.
func scanLines(r io.Reader, skipHeader bool, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	lineNo := 0

	for sc.Scan() {
		lineNo++

		if skipHeader && lineNo == 1 {
			continue
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentLead) {
			continue
		}

		if err := fn(lineNo, line); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", lineNo+1, err)
	}

	return nil
}
