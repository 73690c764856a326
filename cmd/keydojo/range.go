package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/keydojo/keydojo-cli/internal/ui/virtuallist"
	"github.com/spf13/cobra"
)

var (
	rangeScroll     int
	rangeViewport   int
	rangeItemHeight int
	rangeCount      int
	rangeOverscan   int
	rangeJSON       bool
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Print the visible item range for a scroll position",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := virtuallist.ComputeVisibleRange(rangeScroll, rangeViewport, rangeItemHeight, rangeCount, rangeOverscan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if rangeJSON {
			out, err := json.Marshal(r)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
			return
		}
		fmt.Println(r)
	},
}

func init() {
	rangeCmd.Flags().IntVar(&rangeScroll, "scroll", 0, "Scroll offset in rows")
	rangeCmd.Flags().IntVar(&rangeViewport, "viewport", 24, "Viewport height in rows")
	rangeCmd.Flags().IntVar(&rangeItemHeight, "item-height", 1, "Height of one item in rows")
	rangeCmd.Flags().IntVar(&rangeCount, "count", 0, "Number of items")
	rangeCmd.Flags().IntVar(&rangeOverscan, "overscan", virtuallist.DefaultOverscan, "Extra items above and below the viewport")
	rangeCmd.Flags().BoolVar(&rangeJSON, "json", false, "Print the range as JSON")
}
