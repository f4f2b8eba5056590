package cli

import (
	"fmt"

	"github.com/dgallion1/docsplit/internal/chunker"
	"github.com/dgallion1/docsplit/internal/export"
	"github.com/spf13/cobra"
)

func newSplitCommand(opts *options) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "split <file|->",
		Short: "Write every part to parte_N.txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openAndSplit(cmd, opts, args[0])
			if err != nil {
				return err
			}
			d := &export.DirDownloader{Dir: outDir}
			out := cmd.OutOrStdout()
			chunks := sess.Chunks()
			for _, c := range chunks {
				if err := sess.Download(cmd.Context(), c.Index, d); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s (%d characters)\n", export.Filename(c.Index), chunker.Len(c.Content))
			}
			fmt.Fprintf(out, "%d parts from %d characters in %s\n", len(chunks), sess.Snapshot().Characters, outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the parts into")
	return cmd
}

func newCopyCommand(opts *options) *cobra.Command {
	var part int
	cmd := &cobra.Command{
		Use:   "copy <file|->",
		Short: "Copy one part to the system clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openAndSplit(cmd, opts, args[0])
			if err != nil {
				return err
			}
			total := len(sess.Chunks())
			if part < 1 || part > total {
				return fmt.Errorf("part must be between 1 and %d, got %d", total, part)
			}
			if err := sess.Copy(cmd.Context(), 0, part-1, opts.clip); err != nil {
				return err
			}
			c, _ := sess.Chunk(part - 1)
			fmt.Fprintf(cmd.OutOrStdout(), "copied part %d of %d (%d characters)\n", part, total, chunker.Len(c.Content))
			return nil
		},
	}
	cmd.Flags().IntVarP(&part, "part", "p", 1, "part number to copy, starting at 1")
	return cmd
}
