// Command cellctl composes and inspects cells from the command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/branched-services/go-tvmcell"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("cellctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cellctl",
		Usage: "compose and inspect cells",
		Before: func(c *cli.Context) error {
			initLogger(c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "compose",
				Usage:  "build a message from a TOML description",
				Action: composeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "message description `FILE`",
						Required: true,
					},
				},
			},
			{
				Name:      "bits",
				Usage:     "decode Fift hex and check the padding round trip",
				ArgsUsage: "<fift-hex>",
				Action:    bitsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "divisor",
						Usage: "padding block size, 4 or 8",
						Value: 8,
					},
				},
			},
			{
				Name:      "address",
				Usage:     "encode a raw workchain:hash address",
				ArgsUsage: "<wc:hex>",
				Action:    addressAction,
			},
		},
	}
}

func composeAction(c *cli.Context) error {
	path := c.String("config")
	cfg, err := loadMessageConfig(path)
	if err != nil {
		return err
	}
	log.Debug().Str("config", path).Str("kind", cfg.Kind).Msg("Loaded message description")

	msg, err := cfg.build()
	if err != nil {
		return err
	}
	log.Info().Int("bits", msg.BitsLen()).Int("refs", msg.RefsLen()).Msg("Composed message")

	d := msg.Descriptors()
	w := c.App.Writer
	fmt.Fprintf(w, "%s\n", msg)
	fmt.Fprintf(w, "descriptors: %02x %02x\n", d[0], d[1])
	fmt.Fprintf(w, "data:        %s\n", hexutil.Encode(msg.DataBytes()))
	return nil
}

func bitsAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("bits takes exactly one Fift hex argument")
	}
	divisor := c.Int("divisor")
	if divisor != 4 && divisor != 8 {
		return fmt.Errorf("divisor must be 4 or 8, got %d", divisor)
	}

	bits, err := tvmcell.HexToBits(c.Args().First())
	if err != nil {
		return err
	}
	augmented := tvmcell.AugmentBits(bits, divisor)
	restored, err := tvmcell.RollbackBits(augmented)
	if err != nil {
		return err
	}
	log.Debug().Int("bits", len(bits)).Int("augmented", len(augmented)).Msg("Padding round trip")

	w := c.App.Writer
	fmt.Fprintf(w, "bits:      %s\n", tvmcell.BitsToBinaryString(bits))
	fmt.Fprintf(w, "augmented: %s\n", tvmcell.BitsToBinaryString(augmented))
	fmt.Fprintf(w, "rollback:  %s\n", tvmcell.BitsToBinaryString(restored))
	return nil
}

func addressAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("address takes exactly one raw address argument")
	}
	addr, err := tvmcell.ParseRawAddress(c.Args().First())
	if err != nil {
		return err
	}

	b := tvmcell.NewBuilder()
	if err := b.StoreAddress(addr); err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "address: %s\n", addr)
	fmt.Fprintf(w, "bits:    %d\n", b.BitsLen())
	fmt.Fprintf(w, "cell:    %s\n", b.Cell())
	return nil
}
