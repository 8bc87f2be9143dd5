// Package policyfile loads network policies from YAML files.
package policyfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a policy file.
//
//	policies:
//	  - name: Branch Office Policy
//	    context: |
//	      Context: ...
type File struct {
	Policies []policy.Policy `yaml:"policies"`
}

// Parse decodes a policy file. source is recorded on every returned policy.
func Parse(data []byte, source string) ([]policy.Policy, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.New(errors.CodeValidationFailed, "policyfile", fmt.Sprintf("failed to parse %s", source), err)
	}

	out := make([]policy.Policy, 0, len(f.Policies))
	for i, p := range f.Policies {
		p.Source = source
		if err := p.Validate(); err != nil {
			return nil, errors.New(errors.CodeValidationFailed, "policyfile", fmt.Sprintf("%s: entry %d is invalid", source, i), err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadFile reads and parses one policy file.
func LoadFile(path string) ([]policy.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "policyfile", fmt.Sprintf("failed to read %s", path), err)
	}
	return Parse(data, filepath.Base(path))
}

// LoadDir reads every *.yaml and *.yml file in dir in lexical order.
// A missing directory yields no policies when allowMissing is set.
func LoadDir(dir string, allowMissing bool) ([]policy.Policy, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return nil, nil
		}
		return nil, errors.New(errors.CodeIoError, "policyfile", fmt.Sprintf("failed to read policy directory %s", dir), err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var out []policy.Policy
	for _, name := range files {
		ps, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// LoadCatalog returns the built-in catalog overlaid with the policies in dir.
func LoadCatalog(dir string, allowMissing bool) (*policy.Catalog, error) {
	base := policy.Builtin()
	if dir == "" {
		return base, nil
	}
	loaded, err := LoadDir(dir, allowMissing)
	if err != nil {
		return nil, err
	}
	return policy.Merge(base, loaded...)
}
