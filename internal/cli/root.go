// Package cli implements the docsplit command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/docsplit/internal/export"
	"github.com/dgallion1/docsplit/internal/session"
	"github.com/spf13/cobra"
)

type options struct {
	clip    export.Clipboard
	verbose bool
	log     *slog.Logger
}

// NewRootCommand builds the docsplit command tree. clip receives every copy.
func NewRootCommand(clip export.Clipboard) *cobra.Command {
	opts := &options{clip: clip}

	root := &cobra.Command{
		Use:           "docsplit",
		Short:         "Split a .txt or .docx document into overlapping parts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		newSplitCommand(opts),
		newCopyCommand(opts),
		newShellCommand(opts),
	)
	return root
}

// loadDocument reads path ("-" for stdin) into a fresh session.
func loadDocument(cmd *cobra.Command, sess *session.Session, path string) error {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		sess.SetText(string(data))
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return sess.LoadFile(filepath.Base(path), data)
}

// openAndSplit loads path and splits it, failing when there is nothing to split.
func openAndSplit(cmd *cobra.Command, opts *options, path string) (*session.Session, error) {
	sess := session.New(path)
	if err := loadDocument(cmd, sess, path); err != nil {
		return nil, err
	}
	ok, err := sess.Split()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: document is empty", path)
	}
	opts.log.Debug("document split", "source", path, "parts", len(sess.Chunks()))
	return sess, nil
}
