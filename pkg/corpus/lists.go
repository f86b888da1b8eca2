package corpus

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

const releaseFields = 3

// ReadCoordinates parses one "g:a[:...]" coordinate per line, dropping
// repeats while keeping first-seen order.
func ReadCoordinates(r io.Reader, skipHeader bool) ([]model.Coordinate, error) {
	var coords []model.Coordinate

	seen := make(map[model.Coordinate]struct{})

	err := scanLines(r, skipHeader, func(lineNo int, line string) error {
		fields := strings.Split(line, fieldSep)
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			return fmt.Errorf("line %d: %w: coordinate %q", lineNo, model.ErrMalformedRecord, line)
		}

		c := model.Coordinate{GroupID: fields[0], ArtifactID: fields[1]}
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			coords = append(coords, c)
		}

		return nil
	})

	return coords, err
}

// ReadReleases parses one "g:a:version" release per line.
func ReadReleases(r io.Reader) ([]model.Release, error) {
	var releases []model.Release

	err := scanLines(r, false, func(lineNo int, line string) error {
		fields := strings.SplitN(line, fieldSep, releaseFields)
		if len(fields) != releaseFields || fields[2] == "" {
			return fmt.Errorf("line %d: %w: release %q", lineNo, model.ErrMalformedRecord, line)
		}

		releases = append(releases, model.Release{
			Coordinate: model.Coordinate{GroupID: fields[0], ArtifactID: fields[1]},
			Version:    fields[2],
		})

		return nil
	})

	return releases, err
}

// ReadCallableIDs parses the comma-separated callable universe. Empty
// entries are dropped.
func ReadCallableIDs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read callables: %w", err)
	}

	var ids []string

	for _, id := range strings.Split(string(data), listSep) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// LoadCoordinates reads a coordinate file from disk.
func LoadCoordinates(path string, skipHeader bool) ([]model.Coordinate, error) {
	return loadWith(path, func(r io.Reader) ([]model.Coordinate, error) {
		return ReadCoordinates(r, skipHeader)
	})
}

// LoadReleases reads a release file from disk.
func LoadReleases(path string) ([]model.Release, error) {
	return loadWith(path, ReadReleases)
}

// LoadCallableIDs reads the callable universe from disk.
func LoadCallableIDs(path string) ([]string, error) {
	return loadWith(path, ReadCallableIDs)
}

func loadWith[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return out, nil
}
