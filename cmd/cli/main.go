package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookstore-cli",
		Short: "BookStore CLI tool",
		Long:  `A command line interface for the BookStore pricing API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BookStore API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(priceCmd())
	rootCmd.AddCommand(revenueCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Catalog operations",
	}

	var title, author, isbn, published string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{
				"title":  title,
				"author": author,
				"isbn":   isbn,
			}
			if published != "" {
				payload["published_at"] = published
			}
			postJSON("/api/v1/books", payload)
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "Book title")
	addCmd.Flags().StringVar(&author, "author", "", "Book author")
	addCmd.Flags().StringVar(&isbn, "isbn", "", "Book ISBN")
	addCmd.Flags().StringVar(&published, "published", "", "Publication date, RFC 3339")

	getCmd := &cobra.Command{
		Use:   "get <book-id>",
		Short: "Get a book by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/books/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/books")
		},
	}

	cmd.AddCommand(addCmd, getCmd, listCmd)

	return cmd
}

func priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price ledger operations",
	}

	var price, at string

	setCmd := &cobra.Command{
		Use:   "set <book-id>",
		Short: "Set a book's initial price",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/books/"+args[0]+"/price", map[string]any{
				"price":          price,
				"effective_from": at,
			})
		},
	}
	setCmd.Flags().StringVar(&price, "price", "", "Price, decimal string")
	setCmd.Flags().StringVar(&at, "from", "", "Effective from, RFC 3339")

	updateCmd := &cobra.Command{
		Use:   "update <book-id>",
		Short: "Change a book's price",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			putJSON("/api/v1/books/"+args[0]+"/price", map[string]any{
				"new_price":    price,
				"effective_at": at,
			})
		},
	}
	updateCmd.Flags().StringVar(&price, "price", "", "New price, decimal string")
	updateCmd.Flags().StringVar(&at, "at", "", "Effective at, RFC 3339")

	currentCmd := &cobra.Command{
		Use:   "current <book-id>",
		Short: "Show the current price",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/books/" + args[0] + "/prices/current")
		},
	}

	atCmd := &cobra.Command{
		Use:   "at <book-id>",
		Short: "Show the price at an instant",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/books/" + args[0] + "/prices/at?at=" + at)
		},
	}
	atCmd.Flags().StringVar(&at, "at", "", "Instant, RFC 3339")

	historyCmd := &cobra.Command{
		Use:   "history <book-id>",
		Short: "Show the full price history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/books/" + args[0] + "/prices")
		},
	}

	cmd.AddCommand(setCmd, updateCmd, currentCmd, atCmd, historyCmd)

	return cmd
}

func revenueCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "revenue <book-id>",
		Short: "Reconcile sale events against the price history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			events, err := os.ReadFile(file)
			if err != nil {
				fmt.Printf("Error reading events file: %v\n", err)
				os.Exit(1)
			}

			var payload struct {
				Events json.RawMessage `json:"events"`
			}
			payload.Events = events

			postJSON("/api/v1/books/"+args[0]+"/revenue", payload)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with an array of sale events")

	return cmd
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload any) {
	sendJSON(http.MethodPost, path, payload)
}

func putJSON(path string, payload any) {
	sendJSON(http.MethodPut, path, payload)
}

func sendJSON(method, path string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(body), 500))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
