package transfer

import (
	"fmt"
	"os"
	"strings"
)

// writeStepSummary appends one markdown line of links to the GitHub Actions
// step summary when running inside a workflow. It reports whether a summary
// was written; outside GitHub Actions it is a no-op.
func writeStepSummary(links []HTMLLink, runURL string) (bool, error) {
	if os.Getenv("GITHUB_ACTIONS") != "true" {
		return false, nil
	}
	summaryPath := os.Getenv("GITHUB_STEP_SUMMARY")
	if summaryPath == "" {
		return false, nil
	}

	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, fmt.Sprintf("[%s](%s)", link.Label, link.URL))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("[Results](%s)", runURL))
	}

	f, err := os.OpenFile(summaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, strings.Join(parts, " ")); err != nil {
		return false, err
	}
	return true, nil
}
