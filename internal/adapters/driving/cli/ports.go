package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var portsJSON bool

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available ports",
	Long: `List the ports serplot can read from: the synthetic generator, standard
input when it is piped, and every serial device found on this machine.`,
	Args: cobra.NoArgs,
	RunE: runPorts,
}

func init() {
	portsCmd.Flags().BoolVar(&portsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, _ []string) error {
	if portService == nil {
		return errPortsNotConfigured
	}

	ports, err := portService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list ports: %w", err)
	}

	if portsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ports)
	}

	if len(ports) == 0 {
		cmd.Println("No ports found.")
		return nil
	}

	table := newTable(cmd.OutOrStdout(), "port", "kind", "description")
	for _, p := range ports {
		table.Append([]string{p.ID, string(p.Kind), p.Label})
	}
	table.Render()
	return nil
}
