package report

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/rootliu/pan-cleaner/internal/config"
	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Generator renders scan snapshots in text or JSON form
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: logger,
	}
}

// Generate renders a report for the snapshot. With no output file configured
// the text form goes to stdout; otherwise the report is written to the file
// and its absolute path returned.
func (g *Generator) Generate(snapshot *models.ScanSnapshot) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	if outputFile == "" && (format == "" || format == "txt" || format == "text") {
		g.printConsole(snapshot)
		return "", nil
	}

	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("PAN-CLEANER-REPORT-%s.json", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("PAN-CLEANER-REPORT-%s.txt", timestamp)
		default:
			return "", fmt.Errorf("unknown report format: %s", format)
		}
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(snapshot, outputFile)
	case "", "txt", "text":
		err = g.generateText(snapshot, outputFile)
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}
