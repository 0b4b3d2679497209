package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lucidtrace/tabula/computers"
	"github.com/lucidtrace/tabula/pipeline"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// RunCmd executes a pipeline configuration.
var RunCmd = &cobra.Command{
	Use:   "run CONFIG",
	Short: "Execute a pipeline configuration",
	Long: `Load a pipeline file and build every table it declares.

The CLI runs against an empty in-memory dataset, so only configurations
whose row selectors and columns use inline values will fully build here.
Embedding applications construct the pipeline with their own loaded
dataset; this command is for exercising configurations and inspecting
what they produce.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

// ValidateCmd checks a pipeline configuration without building.
var ValidateCmd = &cobra.Command{
	Use:   "validate CONFIG",
	Short: "Check a pipeline configuration without building",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := pipeline.LoadConfig(args[0])
	if err != nil {
		return err
	}

	pterm.Success.Printf("Configuration valid: %d table(s)", len(cfg.Tables))
	pterm.Println()

	data := pterm.TableData{{"Table ID", "Name", "Selector", "Columns", "Transforms"}}
	for _, tc := range cfg.Tables {
		data = append(data, []string{
			tc.TableID,
			tc.Name,
			tc.RowSelector.Type,
			fmt.Sprintf("%d", len(tc.Columns)),
			fmt.Sprintf("%d", len(tc.Transforms)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := pipeline.LoadConfig(args[0])
	if err != nil {
		return err
	}

	tables := pipeline.NewTableRegistry()
	p := pipeline.New(computers.DefaultRegistry(), tables, source.NewDataset(), nil)

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Building %d table(s)...", len(cfg.Tables)))
	result := p.Run(cfg)
	if result.Failed() {
		spinner.Warning(fmt.Sprintf("%d of %d table(s) built", result.Completed, len(result.TableResults)))
	} else {
		spinner.Success(fmt.Sprintf("Built %d table(s)", result.Completed))
	}

	data := pterm.TableData{{"Table ID", "Columns", "Time", "Status"}}
	for _, tr := range result.TableResults {
		status := "ok"
		if tr.Err != nil {
			status = tr.Err.Error()
		}
		data = append(data, []string{
			tr.TableID,
			fmt.Sprintf("%d", tr.ColumnsBuilt),
			tr.BuildTime.String(),
			status,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	for _, id := range tables.IDs() {
		if view, ok := tables.Get(id); ok {
			previewTable(id, view)
		}
	}
	if result.Failed() {
		return fmt.Errorf("%d table(s) failed to build", len(result.TableResults)-result.Completed)
	}
	return nil
}

// previewTable prints a table's shape and column list.
func previewTable(id string, view *table.TableView) {
	pterm.Println()
	pterm.Info.Printf("%s: %d row(s), %d column(s)", id, view.RowCount(), view.ColumnCount())
	for _, name := range view.ColumnNames() {
		typ, err := view.ColumnType(name)
		if err != nil {
			continue
		}
		pterm.Printf("  %-30s %s\n", name, typ)
	}
}
