package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newKapalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kapal",
		Short: "Ship record commands",
	}

	cmd.AddCommand(newKapalListCmd())
	cmd.AddCommand(newKapalAddCmd())
	cmd.AddCommand(newKapalUpdateCmd())
	cmd.AddCommand(newKapalDeleteCmd())

	return cmd
}

func newKapalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all ships",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ShipList

			if err := client.Get(cmd.Context(), "/kapal", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// shipFlags binds the editable ship fields to a command
type shipFlags struct {
	name     string
	kind     string
	capacity float64
}

func (f *shipFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Ship name (nama_kapal)")
	cmd.Flags().StringVar(&f.kind, "type", "", "Ship type (jenis_kapal)")
	cmd.Flags().Float64Var(&f.capacity, "capacity", 0, "Cargo capacity (kapasitas_muatan)")
}

func (f *shipFlags) body() map[string]any {
	return map[string]any{
		"nama_kapal":       f.name,
		"jenis_kapal":      f.kind,
		"kapasitas_muatan": f.capacity,
	}
}

func newKapalAddCmd() *cobra.Command {
	var flags shipFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a ship (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Ship

			if err := client.Post(cmd.Context(), "/kapal", flags.body(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newKapalUpdateCmd() *cobra.Command {
	var flags shipFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Overwrite a ship's fields (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseShipID(args[0])
			if err != nil {
				return err
			}

			var result MessageResult
			if err := client.Put(cmd.Context(), fmt.Sprintf("/kapal/%d", id), flags.body(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func newKapalDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ship (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseShipID(args[0])
			if err != nil {
				return err
			}

			var result MessageResult
			if err := client.Delete(cmd.Context(), fmt.Sprintf("/kapal/%d", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func parseShipID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ship id %q", arg)
	}
	return id, nil
}
