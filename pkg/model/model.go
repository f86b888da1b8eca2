// Package model defines the value types shared by the corpus reader, the
// aggregator and the duplicate-name reconciliation.
package model

// coordinateSep separates group and artifact in the rendered coordinate.
const coordinateSep = ":"

// Coordinate identifies a versioned package by its Maven group and artifact.
type Coordinate struct {
	GroupID    string `json:"group_id"    yaml:"group_id"`
	ArtifactID string `json:"artifact_id" yaml:"artifact_id"`
}

// String renders the coordinate as "group:artifact".
func (c Coordinate) String() string {
	return c.GroupID + coordinateSep + c.ArtifactID
}

// Major is a single observation for one major version of a package.
// It is created once per parsed input line and never modified afterwards.
type Major struct {
	Coordinate

	MajorVersion  int
	Violations    int
	NumberMethods int
	// Callables holds descriptors of the form "<id>/<version>//<name>".
	Callables []string
}

// Artifact accumulates every Major observed for one coordinate.
type Artifact struct {
	Coordinate `yaml:",inline"`

	Violations    int      `json:"violations"     yaml:"violations"`
	NumberMethods int      `json:"number_methods" yaml:"number_methods"`
	Callables     []string `json:"callables"      yaml:"callables"`
}

// NewArtifact seeds an artifact from its first major observation.
func NewArtifact(m Major) Artifact {
	return Artifact{
		Coordinate:    m.Coordinate,
		Violations:    m.Violations,
		NumberMethods: m.NumberMethods,
		Callables:     append([]string(nil), m.Callables...),
	}
}

// Clone returns a copy that shares no callable storage with a.
func (a Artifact) Clone() Artifact {
	a.Callables = append([]string(nil), a.Callables...)

	return a
}

// HasViolations reports whether at least one violation was counted.
func (a Artifact) HasViolations() bool {
	return a.Violations > 0
}

// AsMajor views the artifact as a single degenerate major observation.
func (a Artifact) AsMajor() Major {
	return Major{
		Coordinate:    a.Coordinate,
		Violations:    a.Violations,
		NumberMethods: a.NumberMethods,
		Callables:     append([]string(nil), a.Callables...),
	}
}

// Release is one published version of a package.
type Release struct {
	Coordinate

	Version string
}
