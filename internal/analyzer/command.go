package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// diagnosticJSON mirrors one entry of the analyzer wire format.
type diagnosticJSON struct {
	Kind    string `json:"kind"`
	Comment string `json:"comment,omitempty"`
	Offset  uint32 `json:"offset"`
}

// analyzeOutput is the root document an analyzer executable prints.
type analyzeOutput struct {
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

// Command runs an external front-end executable as the analyzer. The
// header-prefixed source is written to the executable's stdin and a
// single JSON document {"diagnostics": [...]} is expected on stdout.
// When collectAll is requested the flag --collect-all is appended to
// the configured arguments.
type Command struct {
	Path      string
	Args      []string
	Directive string
}

func (c *Command) Header() string { return c.Directive }

func (c *Command) Analyze(src string, collectAll bool) ([]Diagnostic, error) {
	args := append([]string(nil), c.Args...)
	if collectAll {
		args = append(args, "--collect-all")
	}

	cmd := exec.Command(c.Path, args...)
	cmd.Stdin = strings.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	var out analyzeOutput
	if decErr := json.Unmarshal(stdout.Bytes(), &out); decErr != nil {
		// No well-formed response: the front-end crashed or aborted.
		if runErr != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("analyzer %s: %w: %s", c.Path, runErr, msg)
			}
			return nil, fmt.Errorf("analyzer %s: %w", c.Path, runErr)
		}
		return nil, fmt.Errorf("analyzer %s: malformed output: %w", c.Path, decErr)
	}

	// A decodable document is a completed run regardless of exit
	// status; a failing analysis is reported through the diagnostics,
	// not the exit code.
	diags := make([]Diagnostic, 0, len(out.Diagnostics))
	for _, d := range out.Diagnostics {
		diags = append(diags, Diagnostic{Kind: d.Kind, Comment: d.Comment, Offset: d.Offset})
	}
	return diags, nil
}
