package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/webgme/webgme-setup-tool/internal/core/project"
)

// summaryMarkdown lists what init produced and the next commands to run
// with packageManager.
func summaryMarkdown(result *project.InitResult, packageManager string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", result.ProjectName)

	b.WriteString("## Created\n\n")
	for _, dir := range result.CreatedDirs {
		fmt.Fprintf(&b, "- `%s/`\n", filepath.ToSlash(dir))
	}
	for _, file := range result.CreatedFiles {
		fmt.Fprintf(&b, "- `%s`\n", filepath.ToSlash(file))
	}
	if len(result.SkippedFiles) > 0 {
		b.WriteString("\n## Kept\n\n")
		for _, file := range result.SkippedFiles {
			fmt.Fprintf(&b, "- `%s`\n", filepath.ToSlash(file))
		}
	}

	b.WriteString("\n## Next steps\n\n```sh\n")
	fmt.Fprintf(&b, "cd %s\n%s init\nwebgme-setup start\n", result.Root, packageManager)
	b.WriteString("```\n")
	return b.String()
}

func renderSummary(result *project.InitResult, packageManager string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return renderer.Render(summaryMarkdown(result, packageManager))
}
