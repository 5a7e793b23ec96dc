package main

import (
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/tasting"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	var (
		fields    fieldFlags
		useEditor bool
		revision  string
	)

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Edit a tasting session",
		Long:  "Edit the tasting session at <index>. Only the fields given as flags change; --editor opens the tasting notes in $EDITOR.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, t, err := a.svc.Get(ctx, index)
			if err != nil {
				return err
			}
			if revision == "" {
				revision = t.Revision
			}

			in := tasting.RawFromRecord(rec)
			fields.apply(cmd, &in, true)

			if useEditor {
				notes, changed, err := editText(cmd, in.TastingNotes)
				if err != nil {
					return err
				}
				if changed {
					in.TastingNotes = notes
				}
			}

			if _, err := a.svc.Update(ctx, services.UpdateInput{Index: index, Input: in, Revision: revision}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated position %d\n", index)
			return nil
		},
	}

	fields.register(cmd)
	cmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Edit tasting notes with $EDITOR")
	cmd.Flags().StringVar(&revision, "revision", "", "Refuse the edit unless the table still has this revision")

	return cmd
}

// editText opens content in the user's editor and returns the result.
func editText(cmd *cobra.Command, content string) (string, bool, error) {
	tempDir, err := os.MkdirTemp("", "tastings-edit-")
	if err != nil {
		return "", false, err
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "tasting-notes.txt")
	if err := os.WriteFile(tempFile, []byte(content), 0o600); err != nil {
		return "", false, err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	//nolint:gosec // G204: editor comes from the user's environment
	editorCmd := exec.Command(editor, tempFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = cmd.OutOrStdout()
	editorCmd.Stderr = cmd.ErrOrStderr()

	if err := editorCmd.Run(); err != nil {
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}

	//nolint:gosec // G304: path is the temp file created above
	edited, err := os.ReadFile(tempFile)
	if err != nil {
		return "", false, err
	}

	if sha256.Sum256(edited) == sha256.Sum256([]byte(content)) {
		return content, false, nil
	}
	return strings.TrimRight(string(edited), "\n"), true, nil
}
