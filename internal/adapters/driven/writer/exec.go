// Package writer implements the page writer port by shelling out to an
// external writer command. The command receives a JSON brief on stdin
// and must print the finished markdown body on stdout.
package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// Ensure CommandWriter implements the interface.
var _ driven.PageWriter = (*CommandWriter)(nil)

// DefaultWriteTimeout bounds one page generation.
const DefaultWriteTimeout = 5 * time.Minute

// brief is the JSON document handed to the writer command.
type brief struct {
	RepoURL    string   `json:"repo_url"`
	RepoName   string   `json:"repo_name"`
	Path       string   `json:"path"`
	Title      string   `json:"title"`
	DocType    string   `json:"doc_type"`
	Collection string   `json:"collection"`
	Keywords   []string `json:"keywords,omitempty"`
}

// CommandWriter runs an external command per page.
type CommandWriter struct {
	command string
	args    []string

	// Timeout bounds one invocation; DefaultWriteTimeout when zero.
	Timeout time.Duration
}

// NewCommandWriter creates a writer that invokes command with args for
// each page.
func NewCommandWriter(command string, args ...string) *CommandWriter {
	return &CommandWriter{command: command, args: args}
}

// WritePage invokes the writer command and returns its stdout as the
// page body.
func (w *CommandWriter) WritePage(ctx context.Context, plan domain.PagePlan) (string, error) {
	if w.command == "" {
		return "", fmt.Errorf("%w: writer command not configured", domain.ErrInvalidInput)
	}

	input, err := json.Marshal(brief{
		RepoURL:    plan.RepoURL,
		RepoName:   plan.RepoName,
		Path:       plan.Path,
		Title:      plan.Title,
		DocType:    plan.DocType,
		Collection: plan.Collection,
		Keywords:   plan.Keywords,
	})
	if err != nil {
		return "", fmt.Errorf("encoding brief: %w", err)
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Debug("running writer %s for page %q", w.command, plan.Title)

	cmd := exec.CommandContext(ctx, w.command, w.args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("writer command failed: %s", msg)
		}
		return "", fmt.Errorf("writer command failed: %w", err)
	}

	body := strings.TrimRight(stdout.String(), "\n")
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("writer command produced no content for page %q", plan.Title)
	}
	return body, nil
}
