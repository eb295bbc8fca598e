package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "docextract",
	Short: "Document text extraction with vision OCR fallbacks",
	Long: `docextract pulls text out of PDF, DOCX, and plain-text documents.
PDF pages run through layered extraction: native text layers first, then
vision OCR for embedded images, then full-page OCR for scanned pages.
Extracted text can be chunked and stored for later retrieval.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
