package main

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionScripts generates the completion script for each shell.
var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <bash|zsh|fish|powershell>",
	Short: "Generate shell completion scripts",
	Long: `Print a completion script for the given shell.

Category flags complete from the active rule table, so a file passed with
--rules or POELOG_RULES offers its own category names.

  bash:        source <(poelog completion bash)
  zsh:         poelog completion zsh > "${fpath[1]}/_poelog"
  fish:        poelog completion fish | source
  powershell:  poelog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             shellNames(),
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionScripts[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func shellNames() []string {
	names := make([]string, 0, len(completionScripts))
	for name := range completionScripts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// splitListArg splits a partially typed comma-separated flag value into
// the text before the last element (comma included) and the last element.
func splitListArg(toComplete string) (prefix, current string) {
	i := strings.LastIndex(toComplete, ",")
	if i < 0 {
		return "", toComplete
	}
	return toComplete[:i+1], toComplete[i+1:]
}

// completeCategories completes a category flag from the active rule table.
// Categories already typed in the value or set by an earlier use of the
// flag are not offered again. Candidates carry the typed prefix so every
// shell replaces the whole word.
func completeCategories(flagName string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		cl, err := loadClassifier()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		prefix, current := splitListArg(toComplete)
		current = strings.ToLower(strings.TrimSpace(current))

		chosen := strings.Split(prefix, ",")
		if vals, err := cmd.Flags().GetStringSlice(flagName); err == nil {
			chosen = append(chosen, vals...)
		}
		taken := make(map[string]bool, len(chosen))
		for _, v := range chosen {
			if c, ok := cl.ParseCategory(v); ok {
				taken[c.Slug()] = true
			}
		}

		var candidates []cobra.Completion
		for _, name := range ValidCategoryNames(cl) {
			if !taken[name] && strings.HasPrefix(name, current) {
				candidates = append(candidates, prefix+name)
			}
		}
		return candidates, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	}
}

// registerCategoryCompletion registers completion for a category flag.
func registerCategoryCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, completeCategories(flagName))
}
