package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/qrcode"
	"github.com/toolbox/toolbox-go/internal/service"
)

func newQRCmd() *cobra.Command {
	var (
		size   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "qr <text>",
		Short: "Render text or a URL as a QR code PNG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := service.NewQRService(nil, nil)
			img, err := svc.Generate(cmd.Context(), model.QRRequest{Text: strings.Join(args, " "), Size: size})
			if err != nil {
				return err
			}

			if output == "" {
				output = qrcode.Filename(time.Now())
			}
			if err := os.WriteFile(output, img.PNG, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", qrcode.DefaultSize, fmt.Sprintf("edge size in pixels (%d-%d)", qrcode.MinSize, qrcode.MaxSize))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default qr-code-<millis>.png)")
	return cmd
}
