package inspect

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const snapshotSuffix = "-SNAPSHOT"

// typeLayouts maps packaging types whose files do not use the type as
// extension to their extension and default classifier.
var typeLayouts = map[string]struct{ extension, classifier string }{
	"maven-plugin":    {extension: "jar"},
	"ejb":             {extension: "jar"},
	"test-jar":        {extension: "jar", classifier: "tests"},
	"coreit-artifact": {extension: "jar", classifier: "it"},
}

// Coordinate identifies an artifact in a repository.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Classifier string
}

// ParseCoordinate parses groupId:artifactId:version[:type[:classifier]]. The
// type defaults to jar.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 5 {
		return Coordinate{}, errors.Errorf("invalid coordinate %q: expected groupId:artifactId:version[:type[:classifier]]", s)
	}
	for i, p := range parts {
		if p == "" && i < 3 {
			return Coordinate{}, errors.Errorf("invalid coordinate %q: empty segment", s)
		}
	}

	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2], Type: "jar"}
	if len(parts) > 3 && parts[3] != "" {
		c.Type = parts[3]
	}
	if len(parts) > 4 {
		c.Classifier = parts[4]
	}
	return c, nil
}

func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinate) String() string {
	s := c.GroupID + ":" + c.ArtifactID + ":" + c.Version + ":" + c.typeName()
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, snapshotSuffix)
}

// Dir is the version directory of the artifact below repository.
func (c Coordinate) Dir(repository string) string {
	return filepath.Join(c.artifactDir(repository), c.Version)
}

// FileName is the artifact's file name in the repository layout.
func (c Coordinate) FileName() string {
	return c.fileName(c.Version)
}

func (c Coordinate) fileName(version string) string {
	name := c.ArtifactID + "-" + version
	if classifier := c.classifier(); classifier != "" {
		name += "-" + classifier
	}
	return name + "." + c.extension()
}

func (c Coordinate) artifactDir(repository string) string {
	groupPath := filepath.FromSlash(strings.ReplaceAll(c.GroupID, ".", "/"))
	return filepath.Join(repository, groupPath, c.ArtifactID)
}

func (c Coordinate) typeName() string {
	if c.Type == "" {
		return "jar"
	}
	return c.Type
}

func (c Coordinate) extension() string {
	if layout, ok := typeLayouts[c.typeName()]; ok {
		return layout.extension
	}
	return c.typeName()
}

// classifier is the explicit classifier, or the one implied by the type.
func (c Coordinate) classifier() string {
	if c.Classifier != "" {
		return c.Classifier
	}
	return typeLayouts[c.typeName()].classifier
}
