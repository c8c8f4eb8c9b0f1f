package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/exp/maps"

	"github.com/hailam/gridchess/internal/board"
	"github.com/hailam/gridchess/internal/engine"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// GameMode represents the game mode
type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsComputer
)

// String returns the short key used in statistics.
func (m GameMode) String() string {
	if m == ModeHumanVsComputer {
		return "hvc"
	}
	return "hvh"
}

// ParseGameMode parses "hvh" or "hvc".
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(s) {
	case "hvh":
		return ModeHumanVsHuman, nil
	case "hvc":
		return ModeHumanVsComputer, nil
	}
	return ModeHumanVsComputer, fmt.Errorf("unknown game mode %q", s)
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string            `json:"username"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	SearchDepth int               `json:"search_depth"` // overrides Difficulty when > 0
	GameMode    GameMode          `json:"game_mode"`
	PlayerColor board.Color       `json:"player_color"`
	AutoQueen   bool              `json:"auto_queen"`
	ShowHints   bool              `json:"show_hints"` // highlight legal destinations
	LastPlayed  time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  engine.Medium,
		GameMode:    ModeHumanVsComputer,
		PlayerColor: board.White,
		ShowHints:   true,
		LastPlayed:  time.Now(),
	}
}

// EffectiveDepth returns the AI search depth the preferences select.
func (p *UserPreferences) EffectiveDepth() int {
	if p.SearchDepth > 0 {
		return p.SearchDepth
	}
	return engine.DifficultySettings[p.Difficulty].Depth
}

// Overrides are command-line or environment settings that take precedence
// over stored preferences. Zero values keep the stored setting.
type Overrides struct {
	Depth      int    // > 0 sets SearchDepth
	Difficulty string // engine.ParseDifficulty name
	Color      string // board.ParseColor name
	Mode       string // "hvh" or "hvc"
	AutoQueen  string // strconv.ParseBool syntax
}

// Apply merges o into p. On error p is unchanged.
func (p *UserPreferences) Apply(o Overrides) error {
	next := *p
	if o.Depth > 0 {
		next.SearchDepth = o.Depth
	}
	if o.Difficulty != "" {
		d, err := engine.ParseDifficulty(o.Difficulty)
		if err != nil {
			return err
		}
		next.Difficulty = d
		if o.Depth <= 0 {
			next.SearchDepth = 0
		}
	}
	if o.Color != "" {
		c, err := board.ParseColor(o.Color)
		if err != nil {
			return err
		}
		next.PlayerColor = c
	}
	if o.Mode != "" {
		m, err := ParseGameMode(o.Mode)
		if err != nil {
			return err
		}
		next.GameMode = m
	}
	if o.AutoQueen != "" {
		on, err := strconv.ParseBool(o.AutoQueen)
		if err != nil {
			return fmt.Errorf("auto-queen: %w", err)
		}
		next.AutoQueen = on
	}
	*p = next
	return nil
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode: make(map[string]int),
		WinsByDiff: make(map[string]int),
	}
}

// Clone returns a deep copy of the statistics.
func (s *GameStats) Clone() *GameStats {
	c := *s
	c.WinsByMode = make(map[string]int, len(s.WinsByMode))
	c.WinsByDiff = make(map[string]int, len(s.WinsByDiff))
	maps.Copy(c.WinsByMode, s.WinsByMode)
	maps.Copy(c.WinsByDiff, s.WinsByDiff)
	return &c
}

// GameResult represents the result of a completed game
type GameResult struct {
	Won        bool
	Draw       bool
	Mode       GameMode
	Difficulty engine.Difficulty
	Duration   time.Duration
}

// ResultFromStatus builds a GameResult from a terminal status as seen by
// the human playing human.
func ResultFromStatus(status board.GameStatus, human board.Color, mode GameMode, diff engine.Difficulty, d time.Duration) GameResult {
	return GameResult{
		Won:        status.Kind == board.Checkmate && status.Color == human,
		Draw:       status.Kind == board.Stalemate,
		Mode:       mode,
		Difficulty: diff,
		Duration:   d,
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.get(keyStats, stats)
	if stats.WinsByMode == nil {
		stats.WinsByMode = make(map[string]int)
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, err
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value at key into v, leaving v untouched if absent.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	modeKey := result.Mode.String()
	diffKey := result.Difficulty.String()

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByMode[modeKey]++
		stats.WinsByDiff[diffKey]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	log.Printf("[STORAGE] Recorded game: won=%v draw=%v mode=%s difficulty=%s", result.Won, result.Draw, modeKey, diffKey)
	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}
