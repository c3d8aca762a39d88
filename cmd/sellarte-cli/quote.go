package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sellarte/internal/pricing"
)

func quoteCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "quote [subtotal]",
		Short: "Show the shipping fee and total for an order subtotal in pesos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtotal, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("subtotal must be an integer: %w", err)
			}

			shipping, err := pricing.ComputeShipping(subtotal, quantity)
			if err != nil {
				return err
			}

			fmt.Printf("subtotal: %s\n", pricing.FormatPesos(subtotal))
			fmt.Printf("shipping: %s\n", pricing.FormatPesos(shipping))
			fmt.Printf("total:    %s\n", pricing.FormatPesos(subtotal+shipping))
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "quantity", 1, "item count (informational)")
	return cmd
}
