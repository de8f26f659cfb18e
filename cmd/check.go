package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"go-31tone/library"
	"go-31tone/scale"
	"go-31tone/shortcode"
	"go-31tone/slots"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <table.yaml>",
	Short: "Dry-run a chord table and show hotkey bindings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := library.Load(args[0])
		if err != nil {
			return err
		}

		store := slots.NewStore(shortcode.New(rand.New(rand.NewSource(1))))
		for _, res := range store.ApplyTable(rows) {
			row := rows[res.Index]
			switch {
			case res.Err != nil:
				fmt.Printf("row %2d  SKIP %-24q %v\n", res.Index+1, row.Code, res.Err)
			case res.Key == 0:
				fmt.Printf("row %2d  SKIP (blank)\n", res.Index+1)
			default:
				name := row.Name
				if name == "" {
					name = row.Code
				}
				fmt.Printf("row %2d  [%c]  %-20s %v  %s\n",
					res.Index+1, res.Key, name, []int(res.Chord), scale.FormatChord(res.Chord, nil))
			}
		}
		return nil
	},
}
