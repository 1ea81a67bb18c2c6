package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mockhive/mockhive/internal/config"
	"github.com/mockhive/mockhive/internal/content"
	"github.com/mockhive/mockhive/internal/mockfile"
	"github.com/mockhive/mockhive/internal/registry"
	"github.com/mockhive/mockhive/internal/storage/sqlite"
	"github.com/mockhive/mockhive/pkg/mock"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// setCmd is the parent command for mock set operations.
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage mock sets",
	Long:  `Commands for managing mock sets - stored collections of endpoint response definitions.`,
}

// setImportCmd imports a definition file into the catalog.
var setImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a definition file",
	Long:  `Parse a mock definition file (JSON or YAML), resolve its body references, and store it as a new set.`,
	Args:  cobra.ExactArgs(1),
	Run:   runSetImport,
}

// setListCmd lists all stored sets.
var setListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List all mock sets",
	Long:    `List all mock sets stored in the catalog.`,
	Run:     runSetList,
}

// setShowCmd shows a stored set.
var setShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a mock set",
	Long:  `Show the endpoints and responses of a stored mock set.`,
	Args:  cobra.ExactArgs(1),
	Run:   runSetShow,
}

// setRmCmd deletes a stored set.
var setRmCmd = &cobra.Command{
	Use:     "rm <id-or-name>",
	Aliases: []string{"delete"},
	Short:   "Delete a mock set",
	Long:    `Delete a mock set from the catalog.`,
	Args:    cobra.ExactArgs(1),
	Run:     runSetDelete,
}

// setValidateCmd validates a definition file.
var setValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a definition file",
	Long:  `Parse a mock definition file without storing it.`,
	Args:  cobra.ExactArgs(1),
	Run:   runSetValidate,
}

func init() {
	setCmd.AddCommand(setImportCmd)
	setCmd.AddCommand(setListCmd)
	setCmd.AddCommand(setShowCmd)
	setCmd.AddCommand(setRmCmd)
	setCmd.AddCommand(setValidateCmd)
}

// initStorage initializes the SQLite storage from config.
func initStorage(ctx context.Context, cfg *config.Config) (*sqlite.SQLiteStorage, error) {
	storagePath := cfg.Storage.Path
	if storagePath == "./mockhive.db" {
		storagePath = config.GetDefaultStoragePath()
	}

	if err := config.EnsureStorageDir(storagePath); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	store, err := sqlite.New(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return store, nil
}

// loadSet parses a definition file with the configured defaults. Relative
// body references resolve against the file's directory unless a content
// base directory is configured.
func loadSet(cfg *config.Config, file string) (*mock.Set, error) {
	baseDir := cfg.Content.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(file)
	}

	defaults := mockfile.Defaults{
		Status: cfg.Defaults.Status,
		Delay:  cfg.Defaults.Delay,
	}
	return mockfile.Load(file, defaults, content.New(baseDir))
}

func runSetImport(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	set, err := loadSet(cfg, args[0])
	if err != nil {
		exitError("%v", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		exitError("%v", err)
	}
	defer store.Close()

	mgr := registry.NewManager(store)
	if existing, err := mgr.GetByName(ctx, set.Name); err != nil {
		exitError("failed to check catalog: %v", err)
	} else if existing != nil {
		existing.Endpoints = set.Endpoints
		if err := mgr.Update(ctx, existing); err != nil {
			exitError("failed to update set: %v", err)
		}
		fmt.Printf("Updated mock set %q (version %d)\n", existing.Name, existing.Version)
		return
	}

	if err := mgr.Import(ctx, set); err != nil {
		exitError("failed to store set: %v", err)
	}

	fmt.Printf("Imported mock set %q (%s): %d endpoints, %d responses\n",
		set.Name, shortID(set.ID), len(set.Endpoints), set.ResponseCount())
}

func runSetList(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		exitError("%v", err)
	}
	defer store.Close()

	sets, err := registry.NewManager(store).List(ctx)
	if err != nil {
		exitError("failed to list sets: %v", err)
	}

	if len(sets) == 0 {
		if outputJSON || outputYAML {
			fmt.Println("[]")
		} else {
			fmt.Println("No mock sets found.")
		}
		return
	}

	if printFormatted(sets) {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Version", "Endpoints", "Responses", "Updated"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, set := range sets {
		table.Append([]string{
			shortID(set.ID),
			set.Name,
			fmt.Sprintf("%d", set.Version),
			fmt.Sprintf("%d", len(set.Endpoints)),
			fmt.Sprintf("%d", set.ResponseCount()),
			set.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}

func runSetShow(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		exitError("%v", err)
	}
	defer store.Close()

	set, err := registry.NewManager(store).Resolve(ctx, args[0])
	if err != nil {
		exitError("%v", err)
	}

	if printFormatted(set) {
		return
	}

	fmt.Printf("Mock set: %s (version %d)\n", set.Name, set.Version)
	fmt.Printf("ID: %s\n", set.ID)
	fmt.Printf("Updated: %s\n", set.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	for _, ep := range set.Endpoints {
		method := ep.Method
		if method == "" {
			method = "ANY"
		}
		fmt.Printf("%s %s\n", method, ep.Path)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Status", "Percentile", "Delay (ms)", "Headers", "Body"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetHeaderLine(false)
		table.SetTablePadding("  ")
		table.SetNoWhiteSpace(true)

		for _, r := range ep.Responses {
			table.Append([]string{
				r.String(),
				fmt.Sprintf("%d", r.Percentile()),
				fmt.Sprintf("%d", r.Delay()),
				fmt.Sprintf("%d", len(r.Headers())),
				truncate(r.Body(), 40),
			})
		}
		table.Render()
		fmt.Println()
	}
}

func runSetDelete(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		exitError("%v", err)
	}
	defer store.Close()

	mgr := registry.NewManager(store)
	set, err := mgr.Resolve(ctx, args[0])
	if err != nil {
		exitError("%v", err)
	}
	if err := mgr.Delete(ctx, set.ID); err != nil {
		exitError("failed to delete set: %v", err)
	}

	fmt.Printf("Deleted mock set %q (%s)\n", set.Name, shortID(set.ID))
}

func runSetValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	set, err := loadSet(cfg, args[0])
	if err != nil {
		exitError("validation failed: %v", err)
	}

	fmt.Printf("OK: %q is valid (%d endpoints, %d responses)\n",
		args[0], len(set.Endpoints), set.ResponseCount())
}

// shortID returns the first 8 characters of an ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s for table display.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
