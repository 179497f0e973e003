package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

const ManifestName = "Cargo.toml"

type cargoManifest struct {
	Workspace struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

func readManifest(path string) (cargoManifest, error) {
	var m cargoManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Members returns the workspace member directories listed in the root
// manifest, relative to root, in manifest order. Glob members are expanded to
// the matching directories that contain a manifest.
func Members(root string) ([]string, error) {
	m, err := readManifest(filepath.Join(root, ManifestName))
	if err != nil {
		return nil, err
	}

	var members []string
	for _, member := range m.Workspace.Members {
		if !strings.ContainsAny(member, "*?[") {
			members = append(members, member)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(root, member))
		if err != nil {
			return nil, fmt.Errorf("invalid workspace member pattern %q: %w", member, err)
		}
		slices.Sort(matches)
		for _, match := range matches {
			if _, err := os.Stat(filepath.Join(match, ManifestName)); err != nil {
				continue
			}
			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, err
			}
			members = append(members, filepath.ToSlash(rel))
		}
	}

	return slices.DeleteFunc(members, func(member string) bool {
		return slices.Contains(m.Workspace.Exclude, member)
	}), nil
}

// PackageName returns the [package] name declared by the member at dir.
func PackageName(dir string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	m, err := readManifest(path)
	if err != nil {
		return "", err
	}
	if m.Package.Name == "" {
		return "", fmt.Errorf("%s has no package name", path)
	}
	return m.Package.Name, nil
}
