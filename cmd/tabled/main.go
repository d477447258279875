package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karayel/tabled/internal/app"
	"github.com/karayel/tabled/internal/config"
	"github.com/karayel/tabled/internal/database"
	"github.com/karayel/tabled/internal/engine"
	"github.com/karayel/tabled/internal/export"
	"github.com/karayel/tabled/internal/profiles"
	"github.com/karayel/tabled/internal/schema"
	"github.com/karayel/tabled/internal/ui/explorer"
	"github.com/karayel/tabled/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tabled",
	Short: "Schema-driven record editor for relational databases",
	Long:  `Edit records in any PostgreSQL or SQLite table without per-table code: tabled discovers tables and column metadata at runtime and builds its forms, validation, and SQL from the schema.`,
	RunE:  runInteractive,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List editable tables",
	RunE:  runTables,
}

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "Show column metadata for a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumns,
}

var rowsCmd = &cobra.Command{
	Use:   "rows <table>",
	Short: "List the rows of a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runRows,
}

var insertCmd = &cobra.Command{
	Use:   "insert <table> [column=value ...]",
	Short: "Insert a row",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInsert,
}

var updateCmd = &cobra.Command{
	Use:   "update <table> [column=value ...]",
	Short: "Update the row identified by --key",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete the row identified by --key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Export a table to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse and edit tables in the terminal UI",
	RunE:  runExplore,
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the guided editing workflow",
	RunE:  runInteractive,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage saved connection profiles",
	RunE:  runProfiles,
}

var (
	configPath  string
	profileName string
	profileDir  string
	keyValue    string
	outputPath  string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of a saved connection profile")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile-dir", "", "Directory holding connection profiles")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	updateCmd.Flags().StringVar(&keyValue, "key", "", "Primary-key value of the row to update")
	updateCmd.MarkFlagRequired("key")

	deleteCmd.Flags().StringVar(&keyValue, "key", "", "Primary-key value of the row to delete")
	deleteCmd.MarkFlagRequired("key")

	exportCmd.Flags().StringVar(&outputPath, "output", "", "Destination file (stdout when empty)")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(profilesCmd)

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openEditor wires config, connection, introspector, and engine together.
// The returned cleanup closes the connection.
func openEditor() (*engine.Editor, *database.Connection, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	conn, err := database.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}

	dialect, err := schema.ForName(cfg.Database.Type)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	log := logger.NewLogger(verbose)
	intr := schema.NewIntrospector(conn.DB, dialect, schema.Options{
		SystemPrefixes: cfg.Editor.SystemPrefixes,
		CacheTTL:       cfg.GetCacheTTL(),
	}, log)

	return engine.NewEditor(conn.DB, intr, log), conn, nil
}

func loadConfig() (*config.Config, error) {
	if profileName != "" {
		return profiles.NewManager(profileDir).Load(profileName)
	}
	if configPath == "" {
		return nil, fmt.Errorf("either --config or --profile is required")
	}
	return config.LoadConfig(configPath)
}

func runTables(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	tables, err := editor.Tables(context.Background())
	if err != nil {
		return err
	}
	for _, table := range tables {
		fmt.Println(table)
	}
	return nil
}

func runColumns(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	columns, err := editor.Columns(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%-24s %-12s %-16s %-6s %-6s %-6s %s\n", "Name", "Type", "Native", "Null", "PK", "Auto", "Len")
	for _, col := range columns {
		length := ""
		if col.MaxLength > 0 {
			length = fmt.Sprintf("%d", col.MaxLength)
		}
		fmt.Printf("%-24s %-12s %-16s %-6v %-6v %-6v %s\n",
			col.Name, col.Type, col.NativeType, col.Nullable, col.PrimaryKey, col.AutoGenerated, length)
	}
	return nil
}

func runRows(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	columns, err := editor.Columns(ctx, args[0])
	if err != nil {
		return err
	}
	rows, err := editor.ListRows(ctx, args[0])
	if err != nil {
		return err
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	fmt.Println(strings.Join(names, " | "))
	for _, row := range rows {
		cells := make([]string, len(names))
		for i, name := range names {
			if row[name] == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprintf("%v", row[name])
			}
		}
		fmt.Println(strings.Join(cells, " | "))
	}
	fmt.Printf("(%d rows)\n", len(rows))
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	row, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}
	if err := editor.InsertRow(context.Background(), args[0], row); err != nil {
		return err
	}
	fmt.Println("Row inserted.")
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	row, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}
	key, err := typedKey(ctx, editor, args[0])
	if err != nil {
		return err
	}
	if err := editor.UpdateRow(ctx, args[0], row, key); err != nil {
		return err
	}
	fmt.Println("Row updated.")
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	key, err := typedKey(ctx, editor, args[0])
	if err != nil {
		return err
	}
	if err := editor.DeleteRow(ctx, args[0], key); err != nil {
		return err
	}
	fmt.Println("Row deleted.")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	out := os.Stdout
	showProgress := false
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
		showProgress = true
	}

	count, err := export.WriteCSV(context.Background(), editor, args[0], out, export.Options{ShowProgress: showProgress})
	if err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Printf("Exported %d rows to %s\n", count, outputPath)
	}
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	return explorer.Run(editor, conn.GetDatabaseName())
}

func runInteractive(cmd *cobra.Command, args []string) error {
	editor, conn, err := openEditor()
	if err != nil {
		return err
	}
	defer conn.Close()

	return app.NewApplication(editor, os.Stdin, os.Stdout).Run(context.Background())
}

func runProfiles(cmd *cobra.Command, args []string) error {
	manager := profiles.NewManager(profileDir)
	saved, err := manager.List()
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Printf("No profiles found under %s\n", manager.Directory())
		return nil
	}

	fmt.Printf("%-24s %-10s %s\n", "Name", "Type", "Modified")
	for _, profile := range saved {
		fmt.Printf("%-24s %-10s %s\n", profile.Name, profile.Type, profile.Modified.Format("2006-01-02 15:04"))
	}
	return nil
}

// parseAssignments turns column=value arguments into a raw row. A bare
// "column=" submits an explicit blank, which the engine treats as null.
func parseAssignments(args []string) (map[string]string, error) {
	row := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected column=value", arg)
		}
		row[name] = value
	}
	return row, nil
}

// typedKey coerces the --key flag to the primary-key column's type.
func typedKey(ctx context.Context, editor *engine.Editor, table string) (any, error) {
	columns, err := editor.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	for _, col := range columns {
		if col.PrimaryKey {
			return engine.Coerce(keyValue, col.Type), nil
		}
	}
	return nil, &engine.NoPrimaryKeyError{Table: table}
}
