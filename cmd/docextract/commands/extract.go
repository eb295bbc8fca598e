package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/notesage/docextract/cmd/docextract/ui"
	"github.com/notesage/docextract/internal/config"
	"github.com/notesage/docextract/internal/pdf"
	"github.com/notesage/docextract/internal/storage"
	"github.com/notesage/docextract/pkg/extractor"
)

var (
	extractOutPath    string
	extractStore      bool
	extractDocumentID string
	extractNoImages   bool
	extractTimeout    time.Duration
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract text from a document",
	Long: `Extract text from a PDF, DOCX, or plain-text file. PDF pages are
processed in concurrent batches with vision OCR applied to embedded images
and scanned pages. Use --store to chunk the result and persist it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutPath, "out", "o", "", "write extracted text to a file instead of stdout")
	extractCmd.Flags().BoolVar(&extractStore, "store", false, "chunk the extracted text and store it")
	extractCmd.Flags().StringVar(&extractDocumentID, "document-id", "", "document ID for storage (generated when omitted)")
	extractCmd.Flags().BoolVar(&extractNoImages, "no-images", false, "skip image and scanned-page OCR")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 10*time.Minute, "overall extraction timeout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)
	ui.Init(noColor)

	path := args[0]
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	mimeType := mimeFromPath(path)

	client := extractor.NewClient(cfg, log)

	opts := &extractor.ExtractOptions{DisableImageOCR: extractNoImages}

	var progress *ui.PageProgress
	if mimeType == pdf.MIMEPDF {
		sp := ui.NewSpinner("opening document")
		sp.Start()
		meta := client.Metadata(buf)
		sp.Stop()
		ui.Info("%s: %d pages", path, meta.PageCount)

		progress = ui.NewPageProgress(meta.PageCount)
		opts.Progress = func(done, total int) { progress.Set(done) }
	}

	result, err := client.Extract(ctx, buf, mimeType, opts)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	if strings.TrimSpace(result.CombinedText) == "" {
		ui.Warning("no text could be extracted; the document appears to be image-only or corrupted")
		return nil
	}

	stats := client.Stats(result.CombinedText, result.PagesProcessed)
	ui.Success("extracted %d pages (%d words, %d vision calls, ~%s reading time)",
		result.PagesProcessed, stats.WordCount, result.VisionCallCount, stats.ReadingTime.Round(time.Second))

	if extractOutPath != "" {
		if err := os.WriteFile(extractOutPath, []byte(result.CombinedText), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", extractOutPath, err)
		}
		ui.Success("wrote %s", extractOutPath)
	} else if !extractStore {
		fmt.Println(result.CombinedText)
	}

	if extractStore {
		return storeChunks(ctx, cfg, log, client, result.CombinedText)
	}
	return nil
}

func storeChunks(ctx context.Context, cfg *config.Config, log zerolog.Logger, client *extractor.Client, text string) error {
	documentID := uuid.New()
	if extractDocumentID != "" {
		parsed, err := uuid.Parse(extractDocumentID)
		if err != nil {
			return fmt.Errorf("invalid document ID: %w", err)
		}
		documentID = parsed
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer db.Close()

	repo := storage.NewChunkRepository(db, log)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	chunks := client.Chunk(text)
	if err := repo.Replace(ctx, documentID, chunks); err != nil {
		return err
	}

	ui.Success("stored %d chunks for document %s", len(chunks), documentID)
	return nil
}
