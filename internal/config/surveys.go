package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/survey"
)

// ParseSurvey decodes, normalizes and validates one YAML survey definition.
// Unknown fields are rejected so typos surface at load.
func ParseSurvey(data []byte) (*model.Survey, error) {
	var def model.Survey
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parse survey: %w", err)
	}
	survey.Normalize(&def)
	if err := survey.ValidateDefinition(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadSurveyFile reads and parses one definition file
func LoadSurveyFile(path string) (*model.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey: %w", err)
	}
	def, err := ParseSurvey(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadSurveys reads every *.yaml / *.yml file in dir, in name order. Any
// invalid definition or duplicate survey type fails the whole load.
func LoadSurveys(dir string) ([]*model.Survey, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read surveys dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no survey definitions in %s", dir)
	}

	seen := map[string]string{}
	surveys := make([]*model.Survey, 0, len(paths))
	for _, path := range paths {
		def, err := LoadSurveyFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[def.Type]; dup {
			return nil, fmt.Errorf("survey type %q defined in both %s and %s", def.Type, prev, path)
		}
		seen[def.Type] = path
		surveys = append(surveys, def)
	}
	return surveys, nil
}
