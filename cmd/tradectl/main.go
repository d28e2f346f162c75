package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_backend/internal/app/config"
	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/feature/trades/transport/cli"
	platformdb "portfolio_backend/internal/platform/db"
	jwtmw "portfolio_backend/internal/platform/jwt"
	infraredis "portfolio_backend/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	env := &cli.Env{
		Open: func(context.Context) (cli.TradeService, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv(), cfg.RunMigrations)
			if err != nil {
				return nil, err
			}
			// サーバーと同じキャッシュを経由させ、seed後に古い結果が残らないようにする
			var rdb *redisv9.Client
			if rcfg := infraredis.LoadConfig(); rcfg.Enabled() {
				if rdb, err = infraredis.NewRedisClient(rcfg); err != nil {
					log.Printf("[WARN] Redis unavailable, cached API results may be stale: %v", err)
					rdb = nil
				}
			}
			return di.NewTradeUsecase(db, rdb, cfg.CacheTTL), nil
		},
		Out:       os.Stdout,
		Err:       os.Stderr,
		JWTSecret: os.Getenv(jwtmw.EnvKeyJWTSecret),
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range cli.Commands(env) {
		commander.Register(c, "trades")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
