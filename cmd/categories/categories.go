// Package categories implements category and keyword management commands.
package categories

import (
	"strings"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/parsererror"
	"fjacquet/fincat/internal/store"

	"github.com/spf13/cobra"
)

var keywordsFlag string

// Cmd represents the categories command group.
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories and their matching keywords",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories and their keywords",
	Run: func(cmd *cobra.Command, args []string) {
		s := newStore()
		for _, c := range s.All() {
			marker := ""
			if s.IsDefault(c.Name) {
				marker = " (default)"
			}
			cmd.Printf("%s%s: %s\n", c.Name, marker, strings.Join(c.Keywords, ", "))
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var keywords []string
		for _, kw := range strings.Split(keywordsFlag, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		report(cmd, newStore().AddCategory(args[0], keywords), "Category added")
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a custom category (default categories are protected)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report(cmd, newStore().RemoveCategory(args[0]), "Category removed")
	},
}

var addKeywordCmd = &cobra.Command{
	Use:   "add-keyword <category> <keyword>",
	Short: "Add a keyword to an existing category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		report(cmd, newStore().AddKeyword(args[0], args[1]), "Keyword added")
	},
}

var removeKeywordCmd = &cobra.Command{
	Use:   "remove-keyword <category> <keyword>",
	Short: "Remove a keyword from a category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		report(cmd, newStore().RemoveKeyword(args[0], args[1]), "Keyword removed")
	},
}

func init() {
	addCmd.Flags().StringVarP(&keywordsFlag, "keywords", "k", "", "Comma-separated keywords for the new category")
	_ = addCmd.MarkFlagRequired("keywords")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(addKeywordCmd)
	Cmd.AddCommand(removeKeywordCmd)
}

func newStore() *store.CategoryStore {
	return store.NewCategoryStore(root.Cfg.CategoriesPath(), root.Logger())
}

// report prints the success-flag plus message shape mutations surface.
func report(cmd *cobra.Command, err error, okMessage string) {
	result := parsererror.ResultOK(okMessage)
	if err != nil {
		result = parsererror.ResultErr(err)
	}
	if result.OK {
		cmd.Println(result.Message)
		return
	}
	cmd.PrintErrln("Error: " + result.Message)
}
