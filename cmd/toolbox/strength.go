package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/service"
)

func newStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength [password]",
		Short: "Score a password; reads the first line of stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return service.ErrPasswordRequired
				}
				password = strings.TrimRight(line, "\r\n")
			}

			svc := service.NewGeneratorService(nil, nil, nil)
			resp, err := svc.Evaluate(cmd.Context(), model.StrengthRequest{Password: password})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score: %d/6\n", resp.Score)
			fmt.Fprintf(out, "strength: %s\n", resp.Strength)
			fmt.Fprintf(out, "hint: %s\n", resp.Hint)
			return nil
		},
	}
}
