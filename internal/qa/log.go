// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qa

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Exchange pairs a question with its response as a persistable record.
func Exchange(question string, resp Response) types.QAExchange {
	return types.QAExchange{
		Question:  question,
		Answer:    resp.Answer,
		Citations: resp.Citations,
	}
}

// AppendExchange appends one exchange to the YAML log at path, creating
// the file when missing. The log is a flat list of exchanges in ask
// order.
func AppendExchange(path string, ex types.QAExchange) error {
	var exchanges []types.QAExchange

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &exchanges); err != nil {
			return fmt.Errorf("parsing exchange log %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("reading exchange log %s: %w", path, err)
	}

	exchanges = append(exchanges, ex)

	out, err := yaml.Marshal(exchanges)
	if err != nil {
		return fmt.Errorf("marshaling exchange log: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing exchange log %s: %w", path, err)
	}
	return nil
}
