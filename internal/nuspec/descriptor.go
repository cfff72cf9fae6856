package nuspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nugetctl/internal/services"
)

// Descriptor is the inspected subset of a .nuspec document.
type Descriptor struct {
	ID            string
	Version       string
	DeclaredFiles []string
	Path          string
}

// ArtifactName is the package file the pack command produces.
func (d *Descriptor) ArtifactName() string {
	return fmt.Sprintf("%s.%s.nupkg", d.ID, d.Version)
}

// MissingFilesError lists every declared file absent from disk.
type MissingFilesError struct {
	Descriptor string
	Missing    []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("cannot build %s: missing files: %s", e.Descriptor, strings.Join(e.Missing, ", "))
}

func (e *MissingFilesError) Is(target error) bool {
	return target == services.ErrValidation
}

// Parse extracts id, version and declared files from data. Declared sources
// are joined against the directory of descriptorPath. Missing metadata
// elements produce empty strings.
func Parse(data []byte, descriptorPath string) (*Descriptor, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "inspect", descriptorPath, "parse descriptor", err)
	}
	base := filepath.Dir(descriptorPath)
	desc := &Descriptor{
		ID:      root.findText("metadata/id"),
		Version: root.findText("metadata/version"),
		Path:    descriptorPath,
	}
	for _, file := range root.findAll("files/file") {
		desc.DeclaredFiles = append(desc.DeclaredFiles, filepath.Join(base, file.attrs["src"]))
	}
	return desc, nil
}

// Inspect parses the descriptor and verifies that every declared file exists.
func Inspect(data []byte, descriptorPath string) (*Descriptor, error) {
	desc, err := Parse(data, descriptorPath)
	if err != nil {
		return nil, err
	}
	if missing := desc.Missing(); len(missing) > 0 {
		return desc, &MissingFilesError{Descriptor: descriptorPath, Missing: missing}
	}
	return desc, nil
}

// Missing returns declared files that do not exist, in declaration order.
func (d *Descriptor) Missing() []string {
	var missing []string
	for _, path := range d.DeclaredFiles {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	return missing
}
