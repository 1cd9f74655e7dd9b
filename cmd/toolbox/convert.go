package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toolbox/toolbox-go/internal/convert"
	"github.com/toolbox/toolbox-go/internal/service"
)

func newEncodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode <pdf|xml> <file>",
		Short: "Encode a PDF or XML document as Base64",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := convert.ParseKind(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			resp, err := service.NewConvertService(nil, nil).Encode(cmd.Context(), kind, args[1], data)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), resp.Warnings)

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Base64)
				return nil
			}
			if err := os.WriteFile(output, []byte(resp.Base64), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the Base64 text to a file instead of stdout")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <pdf|xml> <file|->",
		Short: "Decode Base64 text back into a PDF or XML document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := convert.ParseKind(args[0])
			if err != nil {
				return err
			}

			var input []byte
			if args[1] == "-" {
				input, err = io.ReadAll(cmd.InOrStdin())
			} else {
				input, err = os.ReadFile(args[1])
			}
			if err != nil {
				return err
			}

			dec, err := service.NewConvertService(nil, nil).Decode(cmd.Context(), kind, string(input))
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), dec.Warnings)

			if output == "" {
				output = dec.Filename
			}
			if err := os.WriteFile(output, dec.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default document.pdf or converted.xml)")
	return cmd
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintln(w, "warning:", msg)
	}
}
