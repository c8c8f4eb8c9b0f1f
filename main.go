// GridChess - a chess game built with Ebitengine
package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/gridchess/internal/storage"
	"github.com/hailam/gridchess/internal/ui"
)

func main() {
	// Flags (env fallbacks). Unset values keep the stored preferences.
	depth := flag.Int("depth", getenvInt("CHESSPLAY_DEPTH", 0), "AI search depth in plies (overrides -difficulty)")
	difficulty := flag.String("difficulty", os.Getenv("CHESSPLAY_DIFFICULTY"), "Beginner, Easy, Medium or Hard")
	color := flag.String("color", os.Getenv("CHESSPLAY_COLOR"), "color the human plays: white or black")
	mode := flag.String("mode", os.Getenv("CHESSPLAY_MODE"), "hvc (vs computer) or hvh (two humans)")
	autoQueen := flag.String("auto-queen", os.Getenv("CHESSPLAY_AUTO_QUEEN"), "promote to a queen without asking (true/false)")
	noStorage := flag.Bool("no-storage", false, "do not read or write preferences and statistics")
	flag.Parse()

	var store *storage.Storage
	if !*noStorage {
		var err error
		if store, err = storage.NewStorage(); err != nil {
			log.Printf("[STORAGE] Unavailable, running with defaults: %v", err)
			store = nil
		}
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		loaded, err := store.LoadPreferences()
		if err != nil {
			log.Printf("[STORAGE] Failed to load preferences: %v", err)
		} else {
			prefs = loaded
		}
	}
	err := prefs.Apply(storage.Overrides{
		Depth:      *depth,
		Difficulty: *difficulty,
		Color:      *color,
		Mode:       *mode,
		AutoQueen:  *autoQueen,
	})
	if err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	game := ui.NewGame(ui.Options{Storage: store, Prefs: prefs})
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("GridChess")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("ignoring %s=%q: not a number", key, v)
	}
	return def
}
