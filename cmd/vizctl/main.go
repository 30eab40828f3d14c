package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vizboard/adapters/loader"
	"vizboard/adapters/render"
	"vizboard/domain/chart"
	dtable "vizboard/domain/table"
	"vizboard/internal"
	"vizboard/internal/config"
	"vizboard/internal/container"
	"vizboard/internal/provision"
	"vizboard/internal/store"
	"vizboard/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vizctl",
		Short: "vizboard CLI for dataset analysis and chart export",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newSuggestCmd(),
		newRenderCmd(),
		newSampleCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Classify a dataset's fields and suggest chart mappings",
		Long: `Load a dataset, classify every field, and print the schema with summary
statistics plus the suggested field mapping per chart type.

The source may be a local CSV, JSON, or XLSX file, or an http(s) URL.

Example: vizctl analyze sales.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Override format detection: csv|json|xlsx")
	return cmd
}

func runAnalyze(ctx context.Context, source, format string) error {
	s, err := loadStore(ctx, source, format)
	if err != nil {
		return err
	}

	info := s.Info()
	fmt.Printf("📊 %s: %d records, %d fields\n\n", info.Name, info.Records, len(info.Columns))
	fmt.Println(schemaTable(s))

	fmt.Println("\n💡 Suggested mappings")
	for _, t := range chart.Types() {
		m := s.Suggest(t)
		v := s.Validate(t, m)
		marker := "ok "
		if !v.IsValid {
			marker = "n/a"
		}
		fmt.Printf("  %s  %-8s %s\n", marker, t, formatMapping(t, m))
	}
	return nil
}

func newSuggestCmd() *cobra.Command {
	var format, chartType string

	cmd := &cobra.Command{
		Use:   "suggest [data-file]",
		Short: "Suggest a field mapping for one chart type",
		Long: `Load a dataset and print the suggested field mapping for a chart type,
with the validation outcome.

Example: vizctl suggest sales.csv --chart line`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.Context(), args[0], format, chartType)
		},
	}

	cmd.Flags().StringVar(&chartType, "chart", "bar", "Chart type: bar|line|scatter|pie|heatmap")
	cmd.Flags().StringVar(&format, "format", "", "Override format detection: csv|json|xlsx")
	return cmd
}

func runSuggest(ctx context.Context, source, format, chartType string) error {
	t, err := chart.ParseType(chartType)
	if err != nil {
		return err
	}

	s, err := loadStore(ctx, source, format)
	if err != nil {
		return err
	}

	m := s.Suggest(t)
	v := s.Validate(t, m)

	fmt.Printf("💡 Suggested %s mapping for %s\n", t, s.Info().Name)
	for _, role := range chart.AllRoles(t) {
		if field, ok := m.Field(role); ok {
			fmt.Printf("  %-6s %s\n", role, field)
		}
	}
	printValidation(v)
	return nil
}

func newRenderCmd() *cobra.Command {
	var format, chartType, out, title string
	var width, height int
	var x, y, label, value, group string

	cmd := &cobra.Command{
		Use:   "render [data-file]",
		Short: "Export a chart as a PNG image",
		Long: `Load a dataset, aggregate it for a chart type, and write the chart as a
PNG. Role flags override the suggested mapping; with no role flags the
suggestion is used as-is.

Example: vizctl render sales.csv --chart bar --x region --y revenue --out revenue.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roles := map[chart.Role]string{
				chart.RoleX:     x,
				chart.RoleY:     y,
				chart.RoleLabel: label,
				chart.RoleValue: value,
				chart.RoleGroup: group,
			}
			return runRender(cmd.Context(), args[0], format, chartType, out, title, width, height, roles)
		},
	}

	cmd.Flags().StringVar(&chartType, "chart", "bar", "Chart type: bar|line|scatter|pie|heatmap")
	cmd.Flags().StringVar(&out, "out", "chart.png", "Output PNG path")
	cmd.Flags().StringVar(&title, "title", "", "Chart title (defaults to the dataset name)")
	cmd.Flags().IntVar(&width, "width", 1024, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 640, "Image height in pixels")
	cmd.Flags().StringVar(&x, "x", "", "Field for the x role")
	cmd.Flags().StringVar(&y, "y", "", "Field for the y role")
	cmd.Flags().StringVar(&label, "label", "", "Field for the pie label role")
	cmd.Flags().StringVar(&value, "value", "", "Field for the value role")
	cmd.Flags().StringVar(&group, "group", "", "Field for the line group role")
	cmd.Flags().StringVar(&format, "format", "", "Override format detection: csv|json|xlsx")
	return cmd
}

func runRender(ctx context.Context, source, format, chartType, out, title string, width, height int, roles map[chart.Role]string) error {
	t, err := chart.ParseType(chartType)
	if err != nil {
		return err
	}

	s, err := loadStore(ctx, source, format)
	if err != nil {
		return err
	}

	data, err := s.ChartData(t, flagMapping(roles))
	if err != nil {
		return err
	}
	if !data.Validation.IsValid {
		return fmt.Errorf("mapping is invalid: %s", strings.Join(data.Validation.Errors, "; "))
	}
	for _, warning := range data.Validation.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}

	if title == "" {
		title = s.Info().Name
	}
	request := render.BuildRequest(title, t, data.Mapping, data.Result, data.Fit, width, height)
	png, err := render.NewPNGRenderer().RenderPNG(ctx, request)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("📈 Wrote %s chart to %s (%d bytes, %d records in view)\n", t, out, len(png), data.ViewRows)
	return nil
}

func newSampleCmd() *cobra.Command {
	var records int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate the seeded sales sample dataset",
		Long: `Write the deterministic retail-sales sample to a file. The output format
follows the file extension: .json gets a JSON array, anything else CSV.

Example: vizctl sample --records 200 --out demo.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(records, seed, out)
		},
	}

	cmd.Flags().IntVar(&records, "records", 500, "Number of records to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed; identical seeds yield identical data")
	cmd.Flags().StringVar(&out, "out", "sample.csv", "Output path (.csv or .json)")
	return cmd
}

func runSample(records int, seed int64, out string) error {
	sampleConfig := testkit.DefaultSampleConfig()
	sampleConfig.Records = records
	sampleConfig.Seed = seed
	ds := testkit.NewSampleGenerator(sampleConfig).Generate()

	var err error
	if strings.EqualFold(filepath.Ext(out), ".json") {
		err = writeSampleJSON(ds, out)
	} else {
		err = writeSampleCSV(ds, out)
	}
	if err != nil {
		return err
	}
	fmt.Printf("🧪 Wrote %d records to %s\n", ds.Len(), out)
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and JSON API server",
		Long: `Start the HTTP server. Configuration comes from the environment (PORT,
DATABASE_URL, PROVISION_FILE, ...); a .env file is honored.

Example: vizctl serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := container.New(cfg, internal.NewDefaultLogger())
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	app := c.App()
	if path := os.Getenv("PROVISION_FILE"); path != "" {
		file, err := provision.ParseFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse provisioning file %s: %w", path, err)
		}
		if err := app.Provision(ctx, file); err != nil {
			return fmt.Errorf("failed to apply provisioning file %s: %w", path, err)
		}
	}

	fmt.Printf("Starting vizboard on http://localhost:%s\n", cfg.Server.Port)
	return app.Start()
}

// loadStore ingests a source into a quiet session store
func loadStore(ctx context.Context, source, format string) (*store.Store, error) {
	l := loader.New()

	var (
		ds   *dtable.Dataset
		name string
		err  error
	)
	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		ds, name, err = l.FetchURL(ctx, source, loader.Format(format))
	case format != "":
		var f *os.File
		f, err = os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ds, err = l.LoadReader(f, loader.Format(format), source)
		name = filepath.Base(source)
	default:
		ds, err = l.LoadFile(source)
		name = filepath.Base(source)
	}
	if err != nil {
		return nil, err
	}

	s := store.New(internal.NewLogger(internal.LogLevelError))
	s.Load(name, ds)
	return s, nil
}

func schemaTable(s *store.Store) string {
	t := prettytable.NewWriter()
	t.AppendHeader(prettytable.Row{"Field", "Kind", "Unique", "Nulls", "Min", "Max", "Mean", "Median"})
	for _, f := range s.Schema().Fields {
		row := prettytable.Row{f.Name, f.Kind, f.UniqueCount, f.NullCount, "", "", "", ""}
		if f.Stats != nil {
			row = prettytable.Row{
				f.Name, f.Kind, f.UniqueCount, f.NullCount,
				formatNum(f.Stats.Min), formatNum(f.Stats.Max),
				formatNum(f.Stats.Mean), formatNum(f.Stats.Median),
			}
		}
		t.AppendRow(row)
	}
	t.SetStyle(prettytable.StyleDefault)
	return t.Render()
}

func printValidation(v chart.Validation) {
	if v.IsValid && len(v.Warnings) == 0 {
		fmt.Println("  mapping is valid")
		return
	}
	for _, e := range v.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	for _, warning := range v.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
}

func formatMapping(t chart.Type, m chart.Mapping) string {
	var parts []string
	for _, role := range chart.AllRoles(t) {
		if field, ok := m.Field(role); ok {
			parts = append(parts, fmt.Sprintf("%s=%s", role, field))
		}
	}
	if len(parts) == 0 {
		return "(no usable fields)"
	}
	return strings.Join(parts, " ")
}

// flagMapping builds a mapping from role flags; all-empty means "use the
// suggestion"
func flagMapping(roles map[chart.Role]string) chart.Mapping {
	m := chart.Mapping{}
	for role, field := range roles {
		if field != "" {
			m[role] = field
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeSampleCSV(ds *dtable.Dataset, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns); err != nil {
		return err
	}
	row := make([]string, len(ds.Columns))
	for _, rec := range ds.Records {
		for i, col := range ds.Columns {
			row[i] = cellText(rec.Get(col))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSampleJSON(ds *dtable.Dataset, out string) error {
	rows := make([]map[string]interface{}, 0, ds.Len())
	for _, rec := range ds.Records {
		obj := make(map[string]interface{}, len(ds.Columns))
		for _, col := range ds.Columns {
			obj[col] = cellValue(rec.Get(col))
		}
		rows = append(rows, obj)
	}

	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, raw, 0o644)
}

// cellText is the CSV form of a cell; nulls become empty fields
func cellText(c dtable.Cell) string {
	if c.IsNull() {
		return ""
	}
	return c.Label()
}

// cellValue is the JSON form of a cell; dates use the date-only label so
// an exported sample loads back with the same kinds
func cellValue(c dtable.Cell) interface{} {
	switch {
	case c.IsNull():
		return nil
	case c.IsNumber():
		return c.Num
	default:
		return c.Label()
	}
}
