package coverage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// HTMLReport renders h's profile into an HTML tree under dir via
// `go tool cover -html`, mirroring generate_html_coverage_report's
// directory-creation-then-render sequence. It returns the path to the
// generated index file.
func (h *Handle) HTMLReport(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create HTML coverage directory: %w", err)
	}

	outPath := filepath.Join(dir, "index.html")
	cmd := exec.CommandContext(ctx, "go", "tool", "cover", "-html="+h.profilePath, "-o", outPath)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("HTML coverage report generation failed: %w", err)
	}

	return outPath, nil
}
