package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// topGroupsShown limits how many duplicate groups a report lists per kind.
const topGroupsShown = 20

// generateText generates a text report
func (g *Generator) generateText(snapshot *models.ScanSnapshot, outputFile string) error {
	return os.WriteFile(outputFile, []byte(renderText(snapshot)), 0644)
}

// printConsole prints the text report to stdout
func (g *Generator) printConsole(snapshot *models.ScanSnapshot) {
	fmt.Print(renderText(snapshot))
}

func renderText(snapshot *models.ScanSnapshot) string {
	var sb strings.Builder
	summary := snapshot.Summary()

	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("  PAN-CLEANER SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Provider:          %s\n", snapshot.Provider))
	sb.WriteString(fmt.Sprintf("Account:           %s\n", snapshot.Account))
	sb.WriteString(fmt.Sprintf("Scan Time:         %s\n", snapshot.ScanTime.Format("2006-01-02 15:04:05")))
	if !snapshot.LastUpdated.Equal(snapshot.ScanTime) {
		sb.WriteString(fmt.Sprintf("Last Updated:      %s\n", snapshot.LastUpdated.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString(fmt.Sprintf("Total Files:       %d\n", summary.TotalFiles))
	sb.WriteString(fmt.Sprintf("Total Folders:     %d\n", summary.TotalFolders))
	sb.WriteString(fmt.Sprintf("Total Size:        %s\n", humanize.IBytes(uint64(summary.TotalSize))))
	sb.WriteString(fmt.Sprintf("RECOVERABLE SPACE: %s\n", humanize.IBytes(uint64(summary.WastedSpace))))
	sb.WriteString("\n")

	if len(snapshot.DuplicateFiles) > 0 {
		sb.WriteString(fmt.Sprintf("DUPLICATE FILE GROUPS (%d)\n", len(snapshot.DuplicateFiles)))
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for i, group := range snapshot.DuplicateFiles {
			if i >= topGroupsShown {
				sb.WriteString(fmt.Sprintf("  ... and %d more groups\n", len(snapshot.DuplicateFiles)-topGroupsShown))
				break
			}
			sb.WriteString(fmt.Sprintf("[%d] %d copies of %s, %s recoverable\n",
				i+1, group.Count, humanize.IBytes(uint64(group.Size)), humanize.IBytes(uint64(group.WastedSpace))))
			for _, f := range group.Files {
				sb.WriteString(fmt.Sprintf("      %s\n", f.Path))
			}
		}
		sb.WriteString("\n")
	}

	if len(snapshot.DuplicateFolders) > 0 {
		sb.WriteString(fmt.Sprintf("DUPLICATE FOLDER GROUPS (%d)\n", len(snapshot.DuplicateFolders)))
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for i, group := range snapshot.DuplicateFolders {
			if i >= topGroupsShown {
				sb.WriteString(fmt.Sprintf("  ... and %d more groups\n", len(snapshot.DuplicateFolders)-topGroupsShown))
				break
			}
			sb.WriteString(fmt.Sprintf("[%d] %d folders of %s each, %s recoverable\n",
				i+1, group.Count, humanize.IBytes(uint64(group.Size)), humanize.IBytes(uint64(group.WastedSpace))))
			for _, f := range group.Folders {
				sb.WriteString(fmt.Sprintf("      %s\n", f.Path))
			}
		}
		sb.WriteString("\n")
	}

	if summary.LargeFileCount > 0 {
		sb.WriteString(fmt.Sprintf("LARGE FILES (%d)\n", summary.LargeFileCount))
		sb.WriteString(strings.Repeat("-", 79) + "\n")

		categories := make([]string, 0, len(snapshot.LargeFiles))
		for cat := range snapshot.LargeFiles {
			categories = append(categories, cat)
		}
		sort.Strings(categories)

		for _, cat := range categories {
			files := snapshot.LargeFiles[cat]
			if len(files) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s:\n", cat))
			for _, f := range files {
				sb.WriteString(fmt.Sprintf("    %-10s %s\n", humanize.IBytes(uint64(f.Size)), f.Path))
			}
		}
		sb.WriteString("\n")
	}

	if len(snapshot.Executables) > 0 {
		sb.WriteString(fmt.Sprintf("EXECUTABLES (%d)\n", len(snapshot.Executables)))
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, f := range snapshot.Executables {
			sb.WriteString(fmt.Sprintf("    %-10s %s\n", humanize.IBytes(uint64(f.Size)), f.Path))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
