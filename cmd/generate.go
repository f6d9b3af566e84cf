package cmd

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/immodash/immodash/pkg/ai"
)

var generateCmd = &cobra.Command{
	Use:   "generate <kind> [text]",
	Short: "Generate a structured report from notes",
	Long: `Generate a structured report with the configured AI model and print it as JSON.

Kinds: ` + kindList() + `

Notes are read from the argument, or from stdin when it is omitted. Pasted HTML is
converted to plain text. --file attaches an image or a PDF.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ai.ParseReportKind(args[0])
		if err != nil {
			return err
		}

		var text string
		if len(args) == 2 {
			text = args[1]
		} else if stat, _ := os.Stdin.Stat(); stat != nil && stat.Mode()&os.ModeCharDevice == 0 {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(raw)
		}

		filePath, _ := cmd.Flags().GetString("file")
		mimeType, _ := cmd.Flags().GetString("mime")
		att, err := loadAttachment(filePath, mimeType)
		if err != nil {
			return err
		}

		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := ctrl.Generate(cmd.Context(), kind, text, att)
		if err != nil {
			return reportError(err)
		}
		return printJSON(cmd, report)
	},
}

func kindList() string {
	names := make([]string, 0, len(ai.AllReportKinds))
	for _, k := range ai.AllReportKinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func loadAttachment(path, mimeType string) (*ai.Attachment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read attachment: %w", err)
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &ai.Attachment{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("file", "f", "", "Image or PDF to send along with the notes")
	generateCmd.Flags().String("mime", "", "MIME type of --file (guessed from the extension when empty)")
}
