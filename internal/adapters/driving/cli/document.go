package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect stored wiki documents",
	Long:  `List documents, view their content, or inspect their version history.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentVersionsCmd = &cobra.Command{
	Use:   "versions [doc-id]",
	Short: "Show a document's version history",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentVersions,
}

// Flags for the list command.
var (
	listRepoURL string
	listLimit   int
)

func init() {
	documentListCmd.Flags().StringVar(&listRepoURL, "repo", "", "Only list documents for this repository URL")
	documentListCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of documents to list")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentVersionsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()

	docs := documentService.ListAll(ctx, listLimit)
	if listRepoURL != "" {
		docs = documentService.ListByRepository(ctx, listRepoURL, listLimit)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Repo:  %s\n", docs[i].RepoURL)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, ok := documentService.Get(ctx, docID)
	if !ok {
		return fmt.Errorf("document not found: %s", docID)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:      %s\n", doc.Title)
	cmd.Printf("  Repo:       %s (%s)\n", doc.RepoName, doc.RepoURL)
	cmd.Printf("  Type:       %s\n", doc.DocType)
	if doc.Collection != "" {
		cmd.Printf("  Collection: %s\n", doc.Collection)
	}
	if doc.Location != "" {
		cmd.Printf("  Location:   %s\n", doc.Location)
	}
	cmd.Printf("  Created:    %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:    %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, ok := documentService.Get(ctx, docID)
	if !ok {
		return fmt.Errorf("document not found: %s", docID)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentVersions(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	versions := documentService.Versions(ctx, docID)
	if len(versions) == 0 {
		cmd.Printf("No versions found for document: %s\n", docID)
		return nil
	}

	cmd.Printf("Versions for %s (newest first):\n\n", docID)
	for i, v := range versions {
		cmd.Printf("  %d. %s by %s\n", i+1, v.CreatedAt, v.AuthorType)
		for k, val := range v.AuthorMetadata {
			cmd.Printf("       %s: %s\n", k, val)
		}
	}

	return nil
}
