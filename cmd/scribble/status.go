package main

import (
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the service and its components",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		components := []introspection.Component{svc, svc.Store(), svc.Capture()}
		if kv, ok := svc.KV().(introspection.Component); ok {
			components = append(components, kv)
		}

		report := make(map[string]any, len(components))
		for _, c := range components {
			if i, ok := c.(introspection.Introspectable); ok {
				report[c.ComponentType()] = i.State()
			}
		}

		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
