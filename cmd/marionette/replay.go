package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	marionette "github.com/algomation/marionette"
	"github.com/algomation/marionette/pkg/history"
	"github.com/algomation/marionette/pkg/schema"
	"github.com/algomation/marionette/pkg/surface"
)

// replayCmd reconstructs a recorded run frame by frame. On a terminal it
// steps interactively; otherwise it replays to the end and prints the final
// scene snapshot.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded run",
	Long:  `Replays a recorded run from the frame store or a recording file, reconstructing the scene graph frame by frame.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		runID, _ := cmd.Flags().GetString("id")
		file, _ := cmd.Flags().GetString("file")

		ctx := cmd.Context()
		var player *history.Player
		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				fmt.Printf("Error reading %s: %v\n", file, err)
				os.Exit(1)
			}
			frames, err := schema.DecodeRecording(data)
			if err != nil {
				fmt.Printf("Error decoding recording: %v\n", err)
				os.Exit(1)
			}
			surf := surface.New(&surface.NopBackend{}, surface.WithLogger(logger))
			player = history.NewPlayer(frames, surf, history.WithLogger(logger))
		} else {
			engine := marionette.New(
				marionette.WithLogger(logger),
				marionette.WithFrameStore(newStore(cfg)),
			)
			player, err = engine.Replay(ctx, runID, &surface.NopBackend{})
			if err != nil {
				fmt.Printf("Error loading run %q: %v\n", runID, err)
				os.Exit(1)
			}
		}

		if term.IsTerminal(int(os.Stdin.Fd())) {
			if err := replayInteractive(ctx, player); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := player.Seek(ctx, player.Len()); err != nil {
			fmt.Printf("Error replaying: %v\n", err)
			os.Exit(1)
		}
		printScene(player)
	},
}

// replayInteractive steps through the run on a raw terminal.
// Keys: space/n forward, b back, 0 rewind, e end, q quit.
func replayInteractive(ctx context.Context, player *history.Player) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(fd, old)

	fmt.Printf("%d frames. space/n: forward, b: back, 0: rewind, e: end, q: quit\r\n", player.Len())

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}
		target := player.Cursor() + 1
		switch buf[0] {
		case ' ', 'n':
			// target already set
		case 'b':
			target = player.Cursor() - 1
		case '0':
			target = 0
		case 'e':
			target = player.Len()
		case 'q', 3:
			return nil
		default:
			continue
		}
		if target < 0 || target > player.Len() {
			continue
		}
		if err := player.Seek(ctx, target); err != nil {
			return err
		}
		fmt.Printf("frame %d/%d, %d nodes\r\n",
			player.Cursor(), player.Len(), player.Surface().Registry().Len())
	}
}

// printScene dumps the reconstructed scene as JSON, one node per line.
func printScene(player *history.Player) {
	snap := schema.Snapshot(player.Surface().Registry())
	enc := json.NewEncoder(os.Stdout)
	for _, n := range snap {
		_ = enc.Encode(n)
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("id", "bubblesort", "Run identifier in the frame store")
	replayCmd.Flags().StringP("file", "f", "", "Replay from a recording file instead of the store")
}
