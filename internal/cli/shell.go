package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docsplit/internal/chunker"
	"github.com/dgallion1/docsplit/internal/export"
	"github.com/dgallion1/docsplit/internal/session"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const previewWidth = 48

const shellHelp = `commands:
  list            show every part with its copied marker
  show N          print part N
  save N          write part N to parte_N.txt in the output directory
  copy N          copy part N to the clipboard
  load FILE       replace the document (run split afterwards)
  split           split the current document again
  status          show how many parts are copied
  help            show this help
  quit            leave the shell
`

func newShellCommand(opts *options) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "shell <file|->",
		Short: "Browse, save and copy parts interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openAndSplit(cmd, opts, args[0])
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if args[0] == "-" {
				// stdin was consumed by the document.
				in = strings.NewReader("")
			}
			sh := &shell{
				sess: sess,
				opts: opts,
				cmd:  cmd,
				out:  cmd.OutOrStdout(),
				dl:   &export.DirDownloader{Dir: outDir},
			}
			sh.status()
			return sh.run(cmd.Context(), in)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory save writes into")
	return cmd
}

type shell struct {
	sess *session.Session
	opts *options
	cmd  *cobra.Command
	out  io.Writer
	dl   export.Downloader
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "docsplit> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name, rest := fields[0], fields[1:]
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := sh.exec(ctx, name, rest); err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

func (sh *shell) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "help":
		fmt.Fprint(sh.out, shellHelp)
	case "list":
		sh.list()
	case "status":
		sh.status()
	case "split":
		ok, err := sh.sess.Split()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("document is empty")
		}
		sh.status()
	case "load":
		if len(args) != 1 || args[0] == "-" {
			return fmt.Errorf("usage: load FILE")
		}
		if err := loadDocument(sh.cmd, sh.sess, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "loaded %s (%d characters), run split to rebuild the parts\n",
			args[0], chunker.Len(strings.TrimSpace(sh.sess.Text())))
	case "show", "save", "copy":
		index, err := sh.partIndex(args)
		if err != nil {
			return err
		}
		return sh.partAction(ctx, name, index)
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

func (sh *shell) partAction(ctx context.Context, name string, index int) error {
	switch name {
	case "show":
		c, err := sh.sess.Chunk(index)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, c.Content)
	case "save":
		if err := sh.sess.Download(ctx, index, sh.dl); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "wrote %s\n", export.Filename(index))
	case "copy":
		if err := sh.sess.Copy(ctx, 0, index, sh.opts.clip); err != nil {
			return err
		}
		sh.opts.log.Debug("part copied", "part", index+1)
		fmt.Fprintf(sh.out, "copied part %d (%d of %d copied)\n",
			index+1, sh.sess.CopiedCount(), len(sh.sess.Chunks()))
	}
	return nil
}

// partIndex turns a 1-based part argument into a chunk index.
func (sh *shell) partIndex(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one part number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid part number %q", args[0])
	}
	total := len(sh.sess.Chunks())
	if n < 1 || n > total {
		return 0, fmt.Errorf("part must be between 1 and %d, got %d", total, n)
	}
	return n - 1, nil
}

func (sh *shell) list() {
	_, states := sh.sess.View()
	for _, c := range states {
		mark := "[ ]"
		if c.Copied {
			mark = "[x]"
		}
		fmt.Fprintf(sh.out, "%s %-14s %5d  %s\n", mark, export.Filename(c.Index),
			chunker.Len(c.Content), preview(c.Content))
	}
}

func (sh *shell) status() {
	snap := sh.sess.Snapshot()
	fmt.Fprintf(sh.out, "%s: %d characters, %d parts, %d copied\n",
		snap.Source, snap.Characters, snap.ChunkCount, snap.CopiedCount)
}

// preview flattens whitespace and fits the text into previewWidth columns.
func preview(s string) string {
	flat := strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(flat, previewWidth, "…")
}
