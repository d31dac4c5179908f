package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	marionette "github.com/algomation/marionette"
	"github.com/algomation/marionette/internal/demo"
	"github.com/algomation/marionette/pkg/schema"
)

// runCmd records the bundled bubble sort demo as a command-log run.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Record an animated bubble sort run",
	Long:  `Runs the bundled bubble sort program, recording every animation frame into the configured frame store and optionally into a recording file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		values, _ := cmd.Flags().GetIntSlice("values")
		runID, _ := cmd.Flags().GetString("id")
		out, _ := cmd.Flags().GetString("out")

		store := newStore(cfg)
		engine := marionette.New(
			marionette.WithLogger(logger),
			marionette.WithFrameStore(store),
		)

		ctx := cmd.Context()
		if err := engine.Record(ctx, runID, demo.BubbleSort(values)); err != nil {
			fmt.Printf("Error recording run: %v\n", err)
			os.Exit(1)
		}

		count, err := store.Count(ctx, runID)
		if err != nil {
			fmt.Printf("Error reading back run: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Recorded run %q: %d frames\n", runID, count)

		if out != "" {
			frames, err := store.Frames(ctx, runID)
			if err != nil {
				fmt.Printf("Error reading back run: %v\n", err)
				os.Exit(1)
			}
			data, err := schema.EncodeRecording(frames)
			if err != nil {
				fmt.Printf("Error encoding recording: %v\n", err)
				os.Exit(1)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				fmt.Printf("Error writing %s: %v\n", out, err)
				os.Exit(1)
			}
			fmt.Printf("Wrote recording to %s\n", out)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntSlice("values", []int{5, 3, 8, 1, 4}, "Values to sort")
	runCmd.Flags().String("id", "bubblesort", "Run identifier in the frame store")
	runCmd.Flags().StringP("out", "o", "", "Write the recording to a JSON file")
}
