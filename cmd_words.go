package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/electr1fy0/lexicon/lexicon"
	"github.com/electr1fy0/lexicon/utils"
)

var hitStyle = lipgloss.NewStyle().Bold(true).Underline(true)

var (
	rmYes    bool
	noteSet  string
	noteEdit bool
)

var addCmd = &cobra.Command{
	Use:   "add WORD...",
	Short: "Add words to the lexicon",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()
		return addWords(sess.view, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func addWords(v *lexicon.View, words []string, out, errOut io.Writer) error {
	failed := 0
	for _, w := range words {
		added, err := v.Add(w)
		if err != nil {
			fmt.Fprintln(errOut, lexicon.Notice(err))
			failed++
			continue
		}
		fmt.Fprintf(out, "Added %s under %s\n", added.Word, added.Letter)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d words not added", failed, len(words))
	}
	return nil
}

var rmCmd = &cobra.Command{
	Use:   "rm WORD",
	Short: "Remove a word and its note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()
		return removeWord(sess.view, args[0], rmYes, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func removeWord(v *lexicon.View, word string, yes bool, in io.Reader, out io.Writer) error {
	prompt, err := v.RequestRemove(word)
	if err != nil {
		return errors.New(lexicon.Notice(err))
	}
	if !yes && !confirm(in, out, prompt) {
		v.CancelRemove()
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	removed, err := v.ConfirmRemove()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s\n", removed.Word)
	return nil
}

var lsCmd = &cobra.Command{
	Use:   "ls [LETTER]",
	Short: "List all words, or the words under one letter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()
		if len(args) == 1 {
			sess.view.SelectLetter(args[0])
		}
		printListing(cmd.OutOrStdout(), sess.view.Listing())
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find words containing QUERY, ignoring case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()
		sess.view.Search(args[0])
		printListing(cmd.OutOrStdout(), sess.view.Listing())
		return nil
	},
}

func printListing(out io.Writer, l lexicon.Listing) {
	fmt.Fprintln(out, l.Heading)
	if len(l.Rows) == 0 {
		fmt.Fprintln(out, l.Empty)
		return
	}
	for _, row := range l.Rows {
		before, hit, after := row.Split()
		if hit != "" {
			fmt.Fprintln(out, "  "+before+hitStyle.Render(hit)+after)
			continue
		}
		fmt.Fprintln(out, "  "+before)
	}
}

var noteCmd = &cobra.Command{
	Use:   "note WORD",
	Short: "Show, replace or edit a word's note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()

		v := sess.view
		word := args[0]
		note, err := v.OpenDetail(word)
		if err != nil {
			return errors.New(lexicon.Notice(err))
		}
		defer v.CloseDetail()

		switch {
		case cmd.Flags().Changed("set"):
			return v.EditNote(noteSet)
		case noteEdit:
			edited, err := utils.OpenEditorWithContent(cfg.Editor, word, note)
			if err != nil {
				return err
			}
			return v.EditNote(edited)
		}

		if note == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no notes.\n", word)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), note)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export DIR",
	Short: "Write every note to DIR as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()

		notes, err := sess.view.Store().Notes()
		if err != nil {
			return err
		}
		count, err := utils.ExportNotes(args[0], notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s/\n", count, args[0])
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Encrypt the vault file, or change or remove its passphrase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openForCLI()
		if err != nil {
			return err
		}
		defer sess.Close()

		rekey := sess.rekeyFunc()
		if rekey == nil {
			return fmt.Errorf("the %s backend has no passphrase", cfg.Storage.Backend)
		}
		pass, err := promptPassphrase("New passphrase (empty to decrypt): ")
		if err != nil {
			return err
		}
		if pass != "" {
			again, err := promptPassphrase("Repeat: ")
			if err != nil {
				return err
			}
			if again != pass {
				return errors.New("passphrases do not match")
			}
		}
		if err := rekey(pass); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Passphrase updated for %s.\n", sess.vaultPath())
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "skip the confirmation prompt")
	noteCmd.Flags().StringVar(&noteSet, "set", "", "replace the note with this text")
	noteCmd.Flags().BoolVarP(&noteEdit, "edit", "e", false, "edit the note in $EDITOR")
}
