// =============================================================================
// billforge - Profile Command
// =============================================================================
//
// Maintains the saved issuer profile (company identity and bank details)
// that is overlaid onto every extracted workbook.
//
// COMMAND USAGE:
//   billforge profile show
//   billforge profile set companyName="Acme Ltd" bankName="First Bank"
//
// set merges the given key=value pairs into the stored profile; an empty
// value clears a key. Saving is the only write path to the store; nothing
// else ever updates it implicitly.
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/billforge/billforge/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the saved issuer profile",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved issuer profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		prof, err := profile.NewStore(cfg.ProfilePath).Load()
		if err != nil {
			return err
		}
		if len(prof) == 0 {
			fmt.Println("No issuer profile saved.")
			return nil
		}

		keys := make([]string, 0, len(prof))
		for k := range prof {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-16s %s\n", k+":", prof[k])
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set key=value [key=value ...]",
	Short: "Merge key=value pairs into the saved issuer profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		store := profile.NewStore(cfg.ProfilePath)

		prof, err := store.Load()
		if err != nil {
			return err
		}
		if prof == nil {
			prof = profile.Profile{}
		}

		for _, arg := range args {
			key, value, found := strings.Cut(arg, "=")
			if !found || key == "" {
				return fmt.Errorf("argument %q is not of the form key=value", arg)
			}
			if value == "" {
				delete(prof, key)
			} else {
				prof[key] = value
			}
		}

		if err := store.Save(prof); err != nil {
			return err
		}
		fmt.Printf("Saved %d profile field(s).\n", len(prof))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
