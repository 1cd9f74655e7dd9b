package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/passgen"
	"github.com/toolbox/toolbox-go/internal/service"
)

func newGenerateCmd() *cobra.Command {
	var (
		length                                 int
		count                                  int
		noUpper, noLower, noNumbers, noSymbols bool
		hash, pseudo                           bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random passwords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			sourceName := "crypto"
			if pseudo {
				sourceName = "pseudo"
			}
			src, err := passgen.NewSource(sourceName)
			if err != nil {
				return err
			}
			svc := service.NewGeneratorService(passgen.NewEngine(src), nil, nil)

			req := model.GenerateRequest{
				Length:    length,
				Uppercase: ptr(!noUpper),
				Lowercase: ptr(!noLower),
				Numbers:   ptr(!noNumbers),
				Symbols:   ptr(!noSymbols),
				Hash:      hash,
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for range count {
				resp, err := svc.Generate(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, resp.Password)
				if resp.Hash != "" {
					fmt.Fprintln(out, resp.Hash)
				}
				fmt.Fprintf(errOut, "strength: %s (%d/6)\n", resp.Strength, resp.Score)
				if !resp.Secure {
					fmt.Fprintln(errOut, "warning: generated with a non-cryptographic random source")
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&length, "length", "l", passgen.DefaultLength, "password length")
	f.IntVarP(&count, "count", "n", 1, "number of passwords")
	f.BoolVar(&noUpper, "no-upper", false, "exclude uppercase letters")
	f.BoolVar(&noLower, "no-lower", false, "exclude lowercase letters")
	f.BoolVar(&noNumbers, "no-numbers", false, "exclude digits")
	f.BoolVar(&noSymbols, "no-symbols", false, "exclude symbols")
	f.BoolVar(&hash, "hash", false, "also print an Argon2id hash of each password")
	f.BoolVar(&pseudo, "pseudo", false, "use the non-cryptographic random source")
	return cmd
}

func ptr[T any](v T) *T { return &v }
