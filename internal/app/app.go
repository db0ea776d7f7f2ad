package app

import (
	"log"

	"github.com/RECTo0/PokerPlanning/internal/config"
	http_init "github.com/RECTo0/PokerPlanning/internal/delivery/http/init"
	http_room "github.com/RECTo0/PokerPlanning/internal/delivery/http/room"
	ws_room "github.com/RECTo0/PokerPlanning/internal/delivery/ws/room"
	infra_docstore "github.com/RECTo0/PokerPlanning/internal/infra/docstore"
	infra_memstore "github.com/RECTo0/PokerPlanning/internal/infra/memstore"
	infra_pgstore "github.com/RECTo0/PokerPlanning/internal/infra/pgstore"
	infra_pg_init "github.com/RECTo0/PokerPlanning/internal/infra/postgres/init"
	infra_redis_init "github.com/RECTo0/PokerPlanning/internal/infra/redis/init"
	infra_redisstore "github.com/RECTo0/PokerPlanning/internal/infra/redisstore"
	"github.com/RECTo0/PokerPlanning/internal/session"
	"github.com/RECTo0/PokerPlanning/internal/store"
	usecase_room "github.com/RECTo0/PokerPlanning/internal/usecase/room"
	usecase_roster "github.com/RECTo0/PokerPlanning/internal/usecase/roster"
	usecase_vote "github.com/RECTo0/PokerPlanning/internal/usecase/vote"
)

func Go(cfg *config.Config) {
	docs := buildStore(cfg)

	roomRepository := infra_docstore.NewRoom(docs)
	playerRepository := infra_docstore.NewPlayer(docs)
	voteRepository := infra_docstore.NewVote(docs)

	roomUC := usecase_room.New(roomRepository, playerRepository, voteRepository)
	rosterUC := usecase_roster.New(playerRepository, voteRepository, usecase_roster.Policy{
		EveryoneCanKick: cfg.Poker.EveryoneCanKick,
	})
	voteUC := usecase_vote.New(voteRepository, playerRepository)

	manager := session.NewManager(
		roomUC, rosterUC, voteUC,
		roomRepository, playerRepository, voteRepository,
		session.WithSplitDelay(cfg.Poker.SplitDelay),
	)

	hub := ws_room.NewHub()
	go hub.Run()

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_room.New(manager))
	controllerPool.Add(ws_room.NewController(hub, manager))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}

func buildStore(cfg *config.Config) store.Store {
	switch cfg.Poker.StoreBackend {
	case "redis":
		return infra_redisstore.New(infra_redis_init.MustEstablishConn(cfg.Redis))
	case "postgres":
		db := infra_pg_init.MustEstablishConn(cfg.Postgres)
		infra_pgstore.MustEnsureSchema(db)
		s, err := infra_pgstore.New(db, infra_pg_init.DSN(cfg.Postgres))
		if err != nil {
			log.Fatalf("postgres store init failed: %v", err)
		}
		return s
	case "memory", "":
		return infra_memstore.New()
	default:
		log.Fatalf("unknown store backend: %s", cfg.Poker.StoreBackend)
		return nil
	}
}
