package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/alexrobincrabbe/boojum-server/internal/board"
	"github.com/alexrobincrabbe/boojum-server/internal/httpserver"
	"github.com/alexrobincrabbe/boojum-server/internal/hub"
	"github.com/alexrobincrabbe/boojum-server/internal/store"
	"github.com/alexrobincrabbe/boojum-server/internal/words"
)

// dictionary adapts the words package to the room engine.
type dictionary struct{}

func (dictionary) IsAllowed(w string) bool { return words.IsAllowed(w) }

func main() {
	_ = godotenv.Load()
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func run(ctx context.Context, cfg *Config) error {
	if cfg.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := words.Init(); err != nil {
		return err
	}
	log.Info().Int("words", words.Stats()).Msg("word list loaded")

	boards, err := board.Load()
	if err != nil {
		return err
	}
	log.Info().Int("boards", boards.Len()).Msg("board catalog loaded")

	db, err := openDB(cfg.database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		return err
	}

	st := store.NewSQLiteStore(db)
	h := hub.NewHub(ctx, dictionary{})

	srv := httpserver.New(db, st, boards, h, cfg.dailySalt)
	log.Info().Str("addr", cfg.addr()).Msg("starting boojum-server")
	return srv.Start(cfg.addr())
}
