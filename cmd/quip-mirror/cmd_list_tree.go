/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/toothbrush/quip-mirror/localmirror"
	"github.com/toothbrush/quip-mirror/quip"
)

var listTreeUsage = strings.TrimSpace(`
Walk a Quip folder and print its structure, without downloading anything.

Useful for a sanity check before a mirror run: how big is this tree, really?
`)

var listTreeCmd = &cobra.Command{
	Use:   "tree <folder-url-or-id>",
	Short: "Print the folder tree under a Quip folder",
	Long:  listTreeUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderID, err := quip.ExtractFolderID(args[0])
		if err != nil {
			return fmt.Errorf("list: couldn't understand folder argument: %w", err)
		}

		api, err := newQuipAPI()
		if err != nil {
			return err
		}

		mirrorer := localmirror.Mirrorer{
			Client:   api,
			MaxDepth: MaxDepth,
			Logger:   log.Default(),
		}

		root, warnings, err := mirrorer.BuildHierarchy(cmd.Context(), folderID)
		if err != nil {
			return fmt.Errorf("list: couldn't walk folder tree: %w", err)
		}

		printTree(root, 0)

		fmt.Printf("\n%d folders, %d documents, max depth %d.\n",
			root.TotalFolders(), root.TotalDocuments(), root.MaxDepth())

		warnColour := color.New(color.FgYellow)
		for _, w := range append(warnings, localmirror.ValidateHierarchy(root)...) {
			warnColour.Printf("  warning: %s\n", w)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listTreeCmd)

	listTreeCmd.Flags().IntVar(&MaxDepth, "max-depth", localmirror.DefaultMaxDepth, "give up if the folder tree is nested deeper than this")
}

func printTree(node *localmirror.HierarchyNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s/\n", indent, node.Folder.Name)

	for _, doc := range node.Documents {
		fmt.Printf("%s  - %s\n", indent, doc.Name)
	}

	subfolders := make([]*localmirror.HierarchyNode, 0, len(node.Subfolders))
	for _, sub := range node.Subfolders {
		subfolders = append(subfolders, sub)
	}
	sort.Slice(subfolders, func(i, j int) bool {
		return subfolders[i].Folder.ID < subfolders[j].Folder.ID
	})

	for _, sub := range subfolders {
		printTree(sub, depth+1)
	}
}
