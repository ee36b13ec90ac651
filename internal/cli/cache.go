package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var flagServerURL string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the response cache of a running server",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := adminRequest(http.MethodGet, flagServerURL+"/api/cache/stats")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(body))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := adminRequest(http.MethodPost, flagServerURL+"/api/cache/clear"); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Cache cleared.")
		return nil
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := adminRequest(http.MethodPost, flagServerURL+"/api/cache/cleanup"); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Expired entries removed.")
		return nil
	},
}

func adminRequest(method, url string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting server (is it running?): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&flagServerURL, "server", "http://localhost:8080", "Base URL of the running vynix server")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
}
