package corpus

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

const (
	// popularitySep ends the coordinate prefix of a popularity directory.
	popularitySep = "$"
	// dependentsSep joins group and artifact in a dependents directory name.
	dependentsSep  = "_"
	metricSuffix   = ".bin"
	dependentsFile = "dependents.txt"
	notAvailable   = "na"
	valueSep       = ","
	fileScheme     = "file://"
)

// Sample is one callable's value for a popularity metric.
type Sample struct {
	CallableID string
	Value      float64
	// Available is false when the store recorded "na".
	Available bool
}

// Store reads per-artifact directories below a root location. The root may be
// a local path or any URL the afs service understands.
type Store struct {
	fs   afs.Service
	root string
}

// NewStore returns a store rooted at root.
func NewStore(root string) *Store {
	return &Store{fs: afs.New(), root: root}
}

// Root returns the store location.
func (s *Store) Root() string {
	return s.root
}

// dirs lists the names of the child directories of the root, sorted.
func (s *Store) dirs(ctx context.Context) ([]string, error) {
	objects, err := s.fs.List(ctx, s.root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}

	names := make([]string, 0, len(objects))

	for _, obj := range objects {
		// The listing includes the root itself.
		if !obj.IsDir() || sameLocation(obj.URL(), s.root) {
			continue
		}

		names = append(names, obj.Name())
	}

	sort.Strings(names)

	return names, nil
}

// dirFor returns the first child directory, in name order, whose name starts
// with prefix.
func dirFor(names []string, prefix string) (string, bool) {
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			return name, true
		}
	}

	return "", false
}

// download returns the content of a file below the root, or false when the
// file does not exist.
func (s *Store) download(ctx context.Context, elements ...string) ([]byte, bool, error) {
	location := url.Join(s.root, elements...)

	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", location, err)
	}

	if !exists {
		return nil, false, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("download %s: %w", location, err)
	}

	return data, true, nil
}

// PopularityDir returns the directory holding the metrics of c, named
// "<group>:<artifact>$...".
func (s *Store) PopularityDir(ctx context.Context, c model.Coordinate) (string, bool, error) {
	names, err := s.dirs(ctx)
	if err != nil {
		return "", false, err
	}

	name, ok := dirFor(names, c.String()+popularitySep)

	return name, ok, nil
}

// LoadMetric reads "<dir>/<metric>.bin". A missing file yields no samples.
func (s *Store) LoadMetric(ctx context.Context, dir, metric string) ([]Sample, error) {
	data, ok, err := s.download(ctx, dir, metric+metricSuffix)
	if err != nil || !ok {
		return nil, err
	}

	samples, err := parseSamples(data)
	if err != nil {
		return nil, fmt.Errorf("%s/%s%s: %w", dir, metric, metricSuffix, err)
	}

	return samples, nil
}

// LoadMetricFor reads metric for every coordinate that has a popularity
// directory and returns the samples keyed by callable id. Coordinates without
// a directory or metric file are skipped. A later sample for the same id
// replaces an earlier one.
func (s *Store) LoadMetricFor(ctx context.Context, coords []model.Coordinate, metric string) (map[string]Sample, error) {
	names, err := s.dirs(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Sample)
	loaded := make(map[string]struct{})

	for _, c := range coords {
		dir, ok := dirFor(names, c.String()+popularitySep)
		if !ok {
			continue
		}

		if _, done := loaded[dir]; done {
			continue
		}

		loaded[dir] = struct{}{}

		samples, loadErr := s.LoadMetric(ctx, dir, metric)
		if loadErr != nil {
			return nil, loadErr
		}

		for _, smp := range samples {
			out[smp.CallableID] = smp
		}
	}

	return out, nil
}

// MetricGroups reads metric from every child directory, in name order, and
// returns the available values of each file as one group. Directories
// without the metric file are skipped.
func (s *Store) MetricGroups(ctx context.Context, metric string) ([][]float64, error) {
	names, err := s.dirs(ctx)
	if err != nil {
		return nil, err
	}

	var groups [][]float64

	for _, dir := range names {
		samples, loadErr := s.LoadMetric(ctx, dir, metric)
		if loadErr != nil {
			return nil, loadErr
		}

		if samples == nil {
			continue
		}

		values := make([]float64, 0, len(samples))

		for _, smp := range samples {
			if smp.Available {
				values = append(values, smp.Value)
			}
		}

		groups = append(groups, values)
	}

	return groups, nil
}

// Dependents reads "<group>_<artifact>.../dependents.txt" for every
// coordinate and returns the distinct dependents of each, in file order.
// Coordinates without a directory or file are skipped.
func (s *Store) Dependents(ctx context.Context, coords []model.Coordinate) (map[model.Coordinate][]string, error) {
	names, err := s.dirs(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[model.Coordinate][]string, len(coords))

	for _, c := range coords {
		dir, ok := dirFor(names, c.GroupID+dependentsSep+c.ArtifactID)
		if !ok {
			continue
		}

		data, found, loadErr := s.download(ctx, dir, dependentsFile)
		if loadErr != nil {
			return nil, loadErr
		}

		if !found {
			continue
		}

		out[c] = distinctLines(data)
	}

	return out, nil
}

// parseSamples parses "callableId,value" lines. The value is split at the
// last comma so ids may themselves contain commas.
func parseSamples(data []byte) ([]Sample, error) {
	samples := []Sample{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	lineNo := 0

	for sc.Scan() {
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		idx := strings.LastIndex(line, valueSep)
		if idx <= 0 {
			return nil, fmt.Errorf("line %d: %w: sample %q", lineNo, model.ErrMalformedRecord, line)
		}

		smp := Sample{CallableID: line[:idx]}
		raw := strings.TrimSpace(line[idx+1:])

		if raw != notAvailable {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) {
				return nil, fmt.Errorf("line %d: %w: value %q", lineNo, model.ErrMalformedRecord, raw)
			}

			smp.Value, smp.Available = v, true
		}

		samples = append(samples, smp)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}

	return samples, nil
}

func sameLocation(a, b string) bool {
	norm := func(loc string) string {
		return strings.TrimSuffix(strings.TrimPrefix(loc, fileScheme), "/")
	}

	return norm(a) == norm(b)
}

func distinctLines(data []byte) []string {
	var lines []string

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return mapx.Unique(lines)
}
