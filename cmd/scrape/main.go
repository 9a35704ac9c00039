// Command scrape is a minimal CLI boundary over the scrape package: parse an
// HTML file (or stdin) and optionally run a CSS selector against it,
// printing matching elements' text content. Not a feature surface in its
// own right — every behavior here is a thin wrapper over scrape/dom/selector.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/domtree/scrape"
	"github.com/domtree/scrape/dom"
)

var (
	flagSelector   = flag.String("selector", "", "CSS selector to run against the parsed document")
	flagConfigPath = flag.String("config", "", "optional YAML config file")
	flagStrict     = flag.Bool("strict", false, "abort on duplicate id attributes instead of warning")
	flagLogLevel   = flag.String("log-level", "info", "debug|info|warn|error")
)

func main() {
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	domCfg := dom.DefaultConfig()
	domCfg.StrictMode = *flagStrict

	if *flagConfigPath != "" {
		fileCfg, err := loadConfig(*flagConfigPath)
		if err != nil {
			logger.Fatal("loading config", "err", err)
		}
		if fileCfg.MaxDepth > 0 {
			domCfg.MaxDepth = fileCfg.MaxDepth
		}
		domCfg.StrictMode = domCfg.StrictMode || fileCfg.StrictMode
		domCfg.PreserveWhitespace = fileCfg.PreserveWhitespace
		domCfg.IncludeComments = fileCfg.IncludeComments
		logLevelFlagSet := false
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "log-level" {
				logLevelFlagSet = true
			}
		})
		if fileCfg.LogLevel != "" && !logLevelFlagSet {
			*flagLogLevel = fileCfg.LogLevel
		}
	}
	setLogLevel(logger, *flagLogLevel)

	input, err := readInput(flag.Args())
	if err != nil {
		logger.Fatal("reading input", "err", err)
	}

	doc, warnings, err := scrape.Parse(input, domCfg)
	if err != nil {
		logger.Fatal("parsing document", "err", err)
	}
	for _, w := range warnings {
		logger.Warn(w.Message, "kind", w.Kind)
	}

	if *flagSelector == "" {
		fmt.Println(renderBanner(doc))
		return
	}

	elems := doc.FindAll(*flagSelector)
	logger.Info("query complete", "selector", *flagSelector, "matches", len(elems))
	for _, e := range elems {
		fmt.Println(e.Text())
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func setLogLevel(logger *log.Logger, level string) {
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderBanner(doc *dom.Document) string {
	title := doc.Title()
	if title == "" {
		title = "(untitled document)"
	}
	return fmt.Sprintf("%s\n%s %d\n%s %d",
		titleStyle.Render(title),
		labelStyle.Render("nodes:"), doc.Len(),
		labelStyle.Render("warnings:"), len(doc.Warnings()),
	)
}
