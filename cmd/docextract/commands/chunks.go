package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/notesage/docextract/cmd/docextract/ui"
	"github.com/notesage/docextract/internal/storage"
)

var chunksFull bool

var chunksCmd = &cobra.Command{
	Use:   "chunks <document-id>",
	Short: "List stored chunks for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

func init() {
	chunksCmd.Flags().BoolVar(&chunksFull, "full", false, "print full chunk text instead of a preview")
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)
	ui.Init(noColor)

	documentID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer db.Close()

	repo := storage.NewChunkRepository(db, log)
	chunks, err := repo.ListByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		ui.Warning("no chunks stored for document %s", documentID)
		return nil
	}

	if chunksFull {
		for _, c := range chunks {
			fmt.Printf("--- chunk %d ---\n%s\n\n", c.Ordinal, c.Text)
		}
		return nil
	}

	rows := make([][]string, 0, len(chunks))
	for _, c := range chunks {
		rows = append(rows, []string{
			strconv.Itoa(c.Ordinal),
			strconv.Itoa(len(strings.Fields(c.Text))),
			preview(c.Text, 60),
		})
	}
	ui.Table([]string{"ORDINAL", "WORDS", "PREVIEW"}, rows)
	return nil
}

func preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "…"
}
