package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lucidtrace/tabula/computers"
	"github.com/lucidtrace/tabula/registry"
)

// ComputersCmd lists the registered column computers.
var ComputersCmd = &cobra.Command{
	Use:   "computers",
	Short: "List the registered column computers",
	Long: `List every column computer in the default registry, with the row
selector and data source kind each one requires. The registry is also
queryable at runtime by embedding applications; this command renders the
same catalog for humans.`,
	RunE: runComputers,
}

// AdaptersCmd lists the registered source adapters.
var AdaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List the registered source adapters",
	Long: `List every source adapter in the default registry. Adapters derive
new sources from existing ones (e.g. the x coordinate of point data as an
analog signal) so that computers written for one source kind apply to
another.`,
	RunE: runAdapters,
}

func runComputers(cmd *cobra.Command, args []string) error {
	r := computers.DefaultRegistry()

	data := pterm.TableData{{"Name", "Output", "Selector", "Source", "Parameters"}}
	for _, name := range r.ComputerNames() {
		info, ok := r.FindComputerInfo(name)
		if !ok {
			continue
		}
		data = append(data, []string{
			info.Name,
			outputLabel(info),
			info.RequiredSelector.String(),
			info.RequiredSource.String(),
			parameterNames(info.Parameters),
		})
	}

	pterm.DefaultHeader.Printf("Column computers (%d)", len(data)-1)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runAdapters(cmd *cobra.Command, args []string) error {
	r := computers.DefaultRegistry()

	data := pterm.TableData{{"Name", "Input", "Output", "Parameters"}}
	for _, name := range r.AdapterNames() {
		info, ok := r.FindAdapterInfo(name)
		if !ok {
			continue
		}
		data = append(data, []string{
			info.Name,
			info.InputKind.String(),
			info.OutputKind.String(),
			parameterNames(info.Parameters),
		})
	}

	pterm.DefaultHeader.Printf("Source adapters (%d)", len(data)-1)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func outputLabel(info registry.ComputerInfo) string {
	label := info.ElementType.String()
	if info.IsVector {
		label = "[]" + label
	}
	if info.IsMultiOutput {
		label = "multi " + label
	}
	return label
}

func parameterNames(params []registry.ParameterDescriptor) string {
	if len(params) == 0 {
		return "-"
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		if p.Required {
			names[i] += "*"
		}
	}
	return strings.Join(names, ", ")
}
