package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and decodes a YAML suite file. The suite is not validated.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.Path = path

	return s, nil
}

// Parse decodes a YAML suite document. Unknown keys are rejected so that a
// misspelt field does not silently drop an expectation.
func Parse(data []byte) (*Suite, error) {
	var s Suite

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite document is empty")
		}
		return nil, err
	}

	normalize(&s)
	return &s, nil
}

func normalize(s *Suite) {
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	for i := range s.Cases {
		tc := &s.Cases[i]
		tc.Name = strings.TrimSpace(tc.Name)
		tc.Method = strings.ToUpper(strings.TrimSpace(tc.Method))
		tc.URL = strings.TrimSpace(tc.URL)
	}
}
