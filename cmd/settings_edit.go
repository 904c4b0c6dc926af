package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/errors"
	"github.com/lattice-labs/beacon-ctl/internal/settings"
	"github.com/lattice-labs/beacon-ctl/internal/vcs"
)

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in $EDITOR and commit the result",
	Long: `Open the tracked settings file in $EDITOR. The edited content is
validated against the schema before it replaces the tracked file; an
invalid edit leaves both the file and version history untouched.`,
	Args: cobra.NoArgs,
	RunE: runSettingsEdit,
}

func init() {
	settingsCmd.AddCommand(settingsEditCmd)
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := settingsStore(ctx)
	if err != nil {
		return err
	}

	original, err := editSeedContent(store)
	if err != nil {
		return err
	}

	edited, err := editInEditor(original)
	if err != nil {
		return err
	}

	if edited == original {
		logInfo("No changes made")
		return nil
	}

	parsed, err := settings.ParseTOML(edited)
	if err != nil {
		return err
	}
	if err := parsed.Validate(); err != nil {
		return errors.ConfigError("edited settings are invalid", err)
	}

	// Re-render so the committed file is in canonical form regardless
	// of how the edit was formatted.
	content, err := parsed.ToTOML()
	if err != nil {
		return err
	}

	if err := store.SaveAndCommit(ctx, content, vcs.CommitMessage(store.FileName)); err != nil {
		return err
	}

	logSuccess("Settings updated")
	return nil
}

// editSeedContent returns what the editor opens on: the tracked file if
// present, otherwise the current effective settings in canonical form.
func editSeedContent(store *vcs.Store) (string, error) {
	data, err := os.ReadFile(store.FilePath())
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", errors.PersistError("failed to read settings file", err)
	}

	resolved, err := resolver().Resolve()
	if err != nil {
		return "", err
	}
	return resolved.ToTOML()
}

// editInEditor runs $EDITOR on a scratch copy of content and returns
// the result. Editing a scratch file keeps a crashed editor from
// leaving a half-written tracked file behind.
func editInEditor(content string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	words, err := shellquote.Split(editor)
	if err != nil {
		return "", errors.ValidationError(fmt.Sprintf("cannot parse $EDITOR: %v", err))
	}

	tmp, err := os.CreateTemp("", "beacon-settings-*.toml")
	if err != nil {
		return "", errors.PersistError("failed to create scratch file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", errors.PersistError("failed to write scratch file", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.PersistError("failed to flush scratch file", err)
	}

	editCmd := exec.Command(words[0], append(words[1:], tmp.Name())...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return "", errors.ValidationError(fmt.Sprintf("editor exited with an error: %v", err))
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", errors.PersistError("failed to read edited settings", err)
	}
	return string(edited), nil
}
