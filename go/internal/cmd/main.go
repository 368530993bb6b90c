package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dropspot/dropspot/go/clients"
	"github.com/dropspot/dropspot/go/clients/dropspot_client"
	"github.com/dropspot/dropspot/go/internal/admindrops"
	"github.com/dropspot/dropspot/go/internal/dropcache"
	"github.com/dropspot/dropspot/go/internal/feed"
	"github.com/dropspot/dropspot/go/internal/models"
	"github.com/dropspot/dropspot/go/internal/session"
	"github.com/dropspot/dropspot/go/internal/waitlist"
	"github.com/dropspot/dropspot/go/internal/window"
)

const usage = `usage: dropspot <command> [args]

commands:
  login <email> <password>
  signup <email> <password>
  logout
  drops
  join <drop-id>
  leave <drop-id>
  claim <drop-id>
  watch
  admin list
  admin delete <drop-id>
`

type engine struct {
	config *Config
	clock  clockwork.Clock
	store  *session.Store
	cache  *dropcache.Cache
	app    *waitlist.App
	admin  *admindrops.Store
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DROPSPOT_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config, err := loadConfig(getEnv("DROPSPOT_CONFIG", "dropspot.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	tokens := clients.NewTokenHolder()
	api := dropspot_client.NewClient(config.API.BaseURL, tokens)

	store := session.NewStore(api, session.NewFileStorage(config.Session.Path), tokens)
	cache := dropcache.New()
	store.OnClear(cache.Clear)
	store.Hydrate()

	e := &engine{
		config: config,
		clock:  clock,
		store:  store,
		cache:  cache,
		app:    waitlist.NewApp(api, store, cache, clock),
		admin:  admindrops.NewStore(api),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := e.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func (e *engine) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return e.login(ctx, args, e.store.Login)
	case "signup":
		return e.login(ctx, args, e.store.Signup)
	case "logout":
		e.store.Logout()
		return nil
	case "drops":
		return e.listDrops(ctx)
	case "join":
		return e.action(ctx, args, func(ctx context.Context, dropID int) error {
			response, err := e.app.Join(ctx, dropID)
			if err != nil {
				return err
			}
			fmt.Printf("waitlist entry #%d (priority %.2f, created=%v)\n",
				response.Entry.ID, response.Entry.PriorityScore, response.Created)
			return nil
		})
	case "leave":
		return e.action(ctx, args, func(ctx context.Context, dropID int) error {
			response, err := e.app.Leave(ctx, dropID)
			if err != nil {
				return err
			}
			fmt.Printf("left waitlist (state=%s)\n", response.State)
			return nil
		})
	case "claim":
		return e.action(ctx, args, func(ctx context.Context, dropID int) error {
			response, err := e.app.Claim(ctx, dropID)
			if err != nil {
				return err
			}
			fmt.Printf("claim code: %s (position %d)\n", response.ClaimCode, response.Position)
			return nil
		})
	case "watch":
		return e.watch(ctx)
	case "admin":
		return e.adminCommand(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

type loginFunc func(ctx context.Context, credentials models.AuthCredentials) (*models.AuthUser, error)

func (e *engine) login(ctx context.Context, args []string, fn loginFunc) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <email> <password>")
	}
	user, err := fn(ctx, models.AuthCredentials{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", user.Email)
	return nil
}

func (e *engine) action(ctx context.Context, args []string, fn func(context.Context, int) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected <drop-id>")
	}
	dropID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid drop id %q", args[0])
	}
	return fn(ctx, dropID)
}

func (e *engine) listDrops(ctx context.Context) error {
	drops, err := e.app.Refresh(ctx)
	if err != nil {
		return err
	}
	e.printDrops(drops)
	return nil
}

func (e *engine) printDrops(drops []models.Drop) {
	now := e.clock.Now()
	for _, drop := range drops {
		status := window.ComputeStatus(now, drop.ClaimWindowStart, drop.ClaimWindowEnd)
		line := fmt.Sprintf("#%d %s (kapasite %d) %s", drop.ID, drop.Name, drop.Capacity, status.Label)
		if entry, ok := e.cache.Entry(drop.ID); ok {
			line += fmt.Sprintf(" [%s", entry.State)
			if entry.ClaimCode != nil {
				line += ": " + *entry.ClaimCode
			}
			line += "]"
		}
		fmt.Println(line)
	}
}

// watch re-renders window statuses periodically. Phase transitions come from
// re-deriving the status each tick; no derived time state is cached.
func (e *engine) watch(ctx context.Context) error {
	if _, err := e.app.Refresh(ctx); err != nil {
		return err
	}

	if e.config.Feed.Enabled {
		consumer := feed.NewConsumer(e.cache, feed.DefaultConfig(e.config.Feed.URL))
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("drop feed stopped")
			}
		}()
	}

	ticker := e.clock.NewTicker(e.config.watchInterval())
	defer ticker.Stop()

	e.printDrops(e.cache.List())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			e.printDrops(e.cache.List())
		}
	}
}

func (e *engine) adminCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected admin subcommand (list, delete)")
	}
	switch args[0] {
	case "list":
		if err := e.admin.Refresh(ctx); err != nil {
			return err
		}
		for _, drop := range e.admin.List() {
			fmt.Printf("#%d %s (kapasite %d, aktif=%v)\n", drop.ID, drop.Name, drop.Capacity, drop.IsActive)
		}
		return nil
	case "delete":
		return e.action(ctx, args[1:], e.admin.Delete)
	default:
		return fmt.Errorf("unknown admin subcommand: %s", args[0])
	}
}
