package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"risksim/engine"
	"risksim/game"
	"risksim/metrics"
	"risksim/policy"
	"risksim/render"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var screen *render.Screen
	if cfg.Render {
		screen, err = render.NewScreen()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize screen")
		}
		defer screen.Close()
	}

	var gameRecords []metrics.GameRecord
	var playerRecords []metrics.PlayerRecord
	var turnRecords []metrics.TurnRecord

	for i := 0; i < cfg.Games; i++ {
		gameSeed := seed + uint64(i)
		gr, prs, trs, err := runGame(cfg, gameSeed, screen)
		if err != nil {
			log.Fatal().Err(err).Uint64("seed", gameSeed).Msg("game failed")
		}
		gameRecords = append(gameRecords, gr)
		playerRecords = append(playerRecords, prs...)
		turnRecords = append(turnRecords, trs...)
	}

	writer, err := metrics.NewWriter(cfg.MetricsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create metrics writer")
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		log.Fatal().Err(err).Msg("failed to write game records")
	}
	if err := writer.WritePlayerRecords(playerRecords); err != nil {
		log.Fatal().Err(err).Msg("failed to write player records")
	}
	if err := writer.WriteTurnRecords(turnRecords); err != nil {
		log.Fatal().Err(err).Msg("failed to write turn records")
	}
	log.Info().Int("games", len(gameRecords)).Str("dir", writer.Dir()).Msg("metrics written")
}

// runGame plays one full game and returns its metric records.
func runGame(cfg Config, seed uint64, screen *render.Screen) (metrics.GameRecord, []metrics.PlayerRecord, []metrics.TurnRecord, error) {
	rng := rand.New(rand.NewSource(seed))

	players := make([]*game.Player, len(cfg.Players))
	policies := make([]policy.Policy, len(cfg.Players))
	for i, pc := range cfg.Players {
		players[i] = &game.Player{ID: i, Name: pc.Name, Color: pc.Color, Strategy: pc.Strategy}
		pol, err := policy.New(pc.Strategy, rng)
		if err != nil {
			return metrics.GameRecord{}, nil, nil, err
		}
		policies[i] = pol
	}

	worldMap := game.StandardMap()
	eng, err := engine.New(worldMap, players, policies, rng,
		engine.WithMaxRounds(cfg.MaxRounds),
		engine.WithLogger(log.Logger))
	if err != nil {
		return metrics.GameRecord{}, nil, nil, err
	}

	var renderer *render.Renderer
	if screen != nil {
		renderer = render.NewRenderer(screen, worldMap)
	}

	type outcome struct {
		result engine.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := eng.Run(context.Background())
		done <- outcome{result, err}
	}()

	collector := metrics.NewCollector(seed)
	for ev := range eng.Events() {
		collector.Observe(ev)
		if renderer != nil && ev.Board != nil {
			renderer.Render(ev.Board)
		}
	}

	out := <-done
	if out.err != nil {
		return metrics.GameRecord{}, nil, nil, out.err
	}

	gr, prs, trs := collector.Complete(out.result)
	return gr, prs, trs, nil
}
