package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshyamela/platform/internal/catalog"
	"github.com/lakshyamela/platform/internal/config"
	"github.com/lakshyamela/platform/internal/database"
	"github.com/lakshyamela/platform/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "mela",
	Short: "Mela platform admin CLI",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openAllowlist connects to the database using the same MELA_* configuration
// as the server. Allowlists are managed here, never over HTTP.
func openAllowlist() (*database.DB, *services.AllowlistService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, services.NewAllowlistService(db.Pool), nil
}

// ---- Allowlists ----

func cmdAllowlist(table string, args []string) error {
	usage := fmt.Sprintf("Usage: mela %s [list|add <email>|remove <email>]",
		strings.TrimPrefix(table, "allowed_"))
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	db, svc, err := openAllowlist()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	switch args[0] {
	case "list":
		entries, err := svc.List(ctx, table)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, e := range entries {
			fmt.Println("  " + e.Email)
		}
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: mela %s add <email>", strings.TrimPrefix(table, "allowed_"))
		}
		if err := svc.Add(ctx, table, args[1]); err != nil {
			return err
		}
		fmt.Printf("✅ Added %s\n", services.NormalizeEmail(args[1]))
		return nil
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: mela %s remove <email>", strings.TrimPrefix(table, "allowed_"))
		}
		if err := svc.Remove(ctx, table, args[1]); err != nil {
			return err
		}
		fmt.Printf("✅ Removed %s\n", services.NormalizeEmail(args[1]))
		return nil
	default:
		fmt.Println(usage)
		return nil
	}
}

// ---- Seed ----

func cmdSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	club := fs.String("club", "", "Club email to own the seeded stalls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *club == "" {
		return fmt.Errorf("required flag: --club <email>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	allowlist := services.NewAllowlistService(db.Pool)
	stalls := services.NewStallService(db.Pool)

	ctx := context.Background()
	if err := allowlist.Add(ctx, services.TableClubs, *club); err != nil {
		return err
	}
	for _, stall := range catalog.Stalls {
		if err := stalls.CreateSubmission(ctx, *club, stall.Slug, stall); err != nil {
			return err
		}
	}

	fmt.Printf("✅ Seeded %d stalls for %s\n", len(catalog.Stalls), services.NormalizeEmail(*club))
	return nil
}

// ---- Upload ----

func cmdUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to the file to upload")
	token := fs.String("token", "", "Bearer token of an approved owner")
	server := fs.String("server", "http://localhost:3001", "Platform API base URL")
	folder := fs.String("folder", "", "Object key folder (defaults to \"stalls\")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" || *token == "" {
		return fmt.Errorf("required flags: --file <path> --token <token>")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	url := strings.TrimRight(*server, "/") + "/api/upload"
	if *folder != "" {
		url += "?folder=" + *folder
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+*token)
	req.Header.Set("x-file-name", filepath.Base(*filePath))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s", strings.TrimSpace(string(msg)))
	}

	var result struct {
		URL string `json:"url"`
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	fmt.Println("✅ Uploaded")
	fmt.Printf("   Key: %s\n", result.Key)
	fmt.Printf("   URL: %s\n", result.URL)
	return nil
}

// ---- Cobra command wiring ----

func init() {
	ownersCmd := &cobra.Command{
		Use:                "owners",
		Short:              "Manage the approved owners allowlist",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdAllowlist(services.TableOwners, args)
		},
	}

	clubsCmd := &cobra.Command{
		Use:                "clubs",
		Short:              "Manage the approved clubs allowlist",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdAllowlist(services.TableClubs, args)
		},
	}

	seedCmd := &cobra.Command{
		Use:                "seed",
		Short:              "Insert the sample stall catalog as submissions for a club",
		DisableFlagParsing: true, // delegate flag parsing to cmdSeed (uses flag package)
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdSeed(args)
		},
	}

	uploadCmd := &cobra.Command{
		Use:                "upload",
		Short:              "Upload a media file through a running platform server",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdUpload(args)
		},
	}

	rootCmd.AddCommand(ownersCmd, clubsCmd, seedCmd, uploadCmd)
}
