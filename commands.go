package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"
	"text/tabwriter"

	"AutoCenter/internal/export"
	"AutoCenter/internal/fipe"
	"AutoCenter/internal/signature"
	"AutoCenter/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	Args:  cobra.NoArgs,
}

func initDB(cmd *cobra.Command, sample bool) error {
	if sample {
		if err := db.Seed(); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database ready: %s\n", db.Path())
	return nil
}

var printCmd = &cobra.Command{
	Use:   "print [order-id]",
	Short: "Render a service order as PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  printOrder,
}

func orderArg(arg string) (state.OrderDetail, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return state.OrderDetail{}, fmt.Errorf("invalid order id %q", arg)
	}
	return db.GetOrder(id)
}

func printOrder(cmd *cobra.Command, args []string) error {
	order, err := orderArg(args[0])
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = fmt.Sprintf("Ordem_de_Servico_%s.pdf", order.Number)
	}
	if err := export.ServiceOrderFile(out, order, cfg.Shop); err != nil {
		return err
	}
	logger.Info("service order printed", zap.String("number", order.Number), zap.String("file", out))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Stored signature commands",
}

var signatureExportCmd = &cobra.Command{
	Use:   "export [order-id]",
	Short: "Write a stored signature to a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  exportSignature,
}

func exportSignature(cmd *cobra.Command, args []string) error {
	role, _ := cmd.Flags().GetString("role")
	out, _ := cmd.Flags().GetString("output")
	if role != string(state.SignerClient) && role != string(state.SignerMechanic) {
		return fmt.Errorf("unknown role %q (want client or mechanic)", role)
	}
	order, err := orderArg(args[0])
	if err != nil {
		return err
	}
	img, err := signature.Decode(order.Signature(state.SignerRole(role)))
	if err != nil {
		return fmt.Errorf("order %s: %w", order.Number, err)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return f.Close()
}

var fipeCmd = &cobra.Command{
	Use:   "fipe",
	Short: "Query the FIPE vehicle catalogue",
}

var fipeBrandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List car brands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		brands, err := newFIPE().Brands(cmd.Context())
		if err != nil {
			return err
		}
		return printItems(cmd, brands)
	},
}

var fipeModelsCmd = &cobra.Command{
	Use:   "models [brand-code]",
	Short: "List models of a brand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := newFIPE().Models(cmd.Context(), fipe.Code(args[0]))
		if err != nil {
			return err
		}
		return printItems(cmd, models)
	},
}

func printItems(cmd *cobra.Command, items []fipe.Item) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\n", it.Code, it.Name)
	}
	return tw.Flush()
}
