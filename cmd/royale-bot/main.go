package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/kakao-royale-bot-go/internal/adapter/royalepresenter"
	appcfg "github.com/kapu/kakao-royale-bot-go/internal/config"
	"github.com/kapu/kakao-royale-bot-go/internal/fun"
	"github.com/kapu/kakao-royale-bot-go/internal/irisfast"
	"github.com/kapu/kakao-royale-bot-go/internal/lore"
	"github.com/kapu/kakao-royale-bot-go/internal/msgcat"
	"github.com/kapu/kakao-royale-bot-go/internal/narrator"
	"github.com/kapu/kakao-royale-bot-go/internal/obslog"
	"github.com/kapu/kakao-royale-bot-go/internal/party"
	"github.com/kapu/kakao-royale-bot-go/internal/royale"
)

const sweepInterval = time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	client := irisfast.NewClient(cfg.IrisBaseURL)

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", state.String()))
	})

	egress := irisfast.NewEgress(cfg.EgressMode, cfg.DryRun, client, ws, logger)

	redisURL := cfg.RedisURL
	if redisURL == "" {
		redisURL = "redis://127.0.0.1:6379/0"
	}
	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	rdb := redis.NewClient(ropts)

	var repo royale.Repository
	if cfg.DatabaseURL != "" {
		repo, err = royale.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("repository init error: %v", err)
		}
	} else {
		logger.Warn("no DATABASE_URL, keeping game archive in memory")
		repo = royale.NewMemoryRepository()
	}

	var gen royale.Generator
	var quips fun.TextGenerator
	var gem *narrator.Gemini
	if cfg.GeminiAPIKey != "" {
		gem, err = narrator.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("narrator init error: %v", err)
		}
		gen = gem
		quips = gem
	} else {
		logger.Warn("no GEMINI_API_KEY, rounds use the built-in generator only")
	}

	cat, err := msgcat.New(os.Getenv("MSGCAT_DIR"))
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	store := royale.NewStore(rdb)
	mgr := royale.NewManager(gen, store, repo, royale.Config{
		MaxRounds:        cfg.RoyaleMaxRounds,
		GeneratorTimeout: cfg.RoyaleGeneratorTimeout,
	})

	loreStore := lore.NewStore(rdb)
	funSvc := fun.NewService(quips, cat)

	presenter := royalepresenter.NewPresenter(func(room, message string) error {
		return egress.SendText(context.Background(), room, message)
	})
	formatter := royalepresenter.NewFormatter(prefixProvider{prefix: cfg.BotPrefix}, cat)

	rb := &bot{
		cfg:       cfg,
		mgr:       mgr,
		lore:      loreStore,
		fun:       funSvc,
		presenter: presenter,
		formatter: formatter,
		cat:       cat,
	}

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		if len(cfg.AllowedRooms) > 0 && !roomAllowed(cfg.AllowedRooms, msg.Room) {
			return
		}
		if !strings.HasPrefix(strings.TrimSpace(msg.Msg), cfg.BotPrefix) {
			return
		}
		// Round narration can block for tens of seconds, keep the WS loop free.
		go rb.handle(msg)
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepSnapshots(sweepCtx, store, cfg.RoyaleSnapshotMaxAge)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	stopSweep()
	_ = ws.Close(context.Background())
	if gem != nil {
		_ = gem.Close()
	}
	_ = repo.Close()
	_ = rdb.Close()
}

func sweepSnapshots(ctx context.Context, store *royale.Store, maxAge time.Duration) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := store.SweepStale(ctx, maxAge); err != nil {
				obslog.L().Warn("royale_snapshot_sweep_failed", zap.Error(err))
			}
		}
	}
}

type bot struct {
	cfg       *appcfg.AppConfig
	mgr       *royale.Manager
	lore      *lore.Store
	fun       *fun.Service
	presenter *royalepresenter.Presenter
	formatter *royalepresenter.Formatter
	cat       *msgcat.Catalog
}

func (b *bot) handle(msg *irisfast.Message) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.Msg), b.cfg.BotPrefix))
	if raw == "" {
		b.send(msg.Room, b.formatter.Help())
		return
	}
	parts := strings.Fields(raw)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctx := context.Background()

	switch cmd {
	case "help":
		b.send(msg.Room, b.formatter.Help())
	case "royale":
		b.handleRoyale(ctx, msg, args)
	case "lore":
		b.handleLore(ctx, msg, args)
	case "joke":
		b.send(msg.Room, b.fun.Joke(ctx))
	case "roast":
		b.send(msg.Room, b.fun.Roast(ctx, targetArg(args)))
	case "compliment":
		b.send(msg.Room, b.fun.Compliment(ctx, targetArg(args)))
	case "party":
		b.handleParty(msg, args)
	default:
		b.send(msg.Room, "Unknown command. Try '"+b.cfg.BotPrefix+"help'.")
	}
}

func (b *bot) handleRoyale(ctx context.Context, msg *irisfast.Message, args []string) {
	if len(args) == 0 {
		b.send(msg.Room, b.formatter.Help())
		return
	}
	sub := strings.ToLower(args[0])
	switch sub {
	case "start":
		b.startGame(ctx, msg, args[1:])
	case "round":
		b.advanceRound(ctx, msg)
	case "status":
		sess, err := b.mgr.Get(ctx, msg.Room)
		if err != nil {
			b.sendGameError(msg.Room, err)
			return
		}
		b.send(msg.Room, b.formatter.Status(royalepresenter.ToSessionView(sess)))
	case "end":
		sess, err := b.mgr.End(ctx, msg.Room)
		if err != nil {
			b.sendGameError(msg.Room, err)
			return
		}
		b.send(msg.Room, b.cat.MustRender("royale.cancelled", nil, "Game cancelled."))
		b.send(msg.Room, b.formatter.Final(royalepresenter.ToSessionView(sess)))
	case "champions":
		profiles, err := b.mgr.Champions(ctx, 10)
		if err != nil {
			obslog.L().Warn("royale_champions_failed", zap.Error(err))
			b.send(msg.Room, "Champion archive is unavailable right now.")
			return
		}
		b.send(msg.Room, b.formatter.Champions(royalepresenter.ToChampions(profiles)))
	default:
		b.send(msg.Room, b.formatter.Help())
	}
}

func (b *bot) startGame(ctx context.Context, msg *irisfast.Message, args []string) {
	factionCount := b.cfg.RoyaleDefaultFactions
	names := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if strings.EqualFold(args[i], "factions") && i+1 < len(args) {
			if n, err := strconv.Atoi(args[i+1]); err == nil && n > 0 {
				factionCount = n
			}
			i++
			continue
		}
		if name := strings.TrimPrefix(args[i], "@"); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 && msg.JSON != nil {
		names = msg.JSON.Members
	}

	participants := make([]royale.Participant, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		participants = append(participants, royale.Participant{ID: n, Name: n})
	}

	sess, err := b.mgr.Start(ctx, msg.Room, participants, factionCount)
	if err != nil {
		b.sendGameError(msg.Room, err)
		return
	}
	b.send(msg.Room, b.formatter.Start(royalepresenter.ToSessionView(sess)))
}

func (b *bot) advanceRound(ctx context.Context, msg *irisfast.Message) {
	sess, rec, err := b.mgr.Advance(ctx, msg.Room)
	if err != nil {
		b.sendGameError(msg.Room, err)
		return
	}
	view := royalepresenter.ToSessionView(sess)
	if rec != nil {
		b.send(msg.Room, b.formatter.Round(royalepresenter.ToRoundView(rec), view))
	}
	if sess.Phase == royale.PhaseEnded {
		b.send(msg.Room, b.formatter.Final(view))
	}
}

func (b *bot) handleLore(ctx context.Context, msg *irisfast.Message, args []string) {
	if len(args) >= 1 && strings.EqualFold(args[0], "add") {
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		count, err := b.lore.Add(ctx, msg.Room, text)
		if err != nil {
			if errors.Is(err, lore.ErrEmptyEntry) {
				b.send(msg.Room, "Usage: "+b.cfg.BotPrefix+"lore add <text>")
				return
			}
			obslog.L().Warn("lore_add_failed", zap.Error(err))
			b.send(msg.Room, "Could not save that lore.")
			return
		}
		b.send(msg.Room, "📜 Lore recorded. This room now holds "+strconv.FormatInt(count, 10)+" entries.")
		return
	}
	entry, err := b.lore.Random(ctx, msg.Room)
	if err != nil {
		if errors.Is(err, lore.ErrNoLore) {
			b.send(msg.Room, "No lore yet. Add some with "+b.cfg.BotPrefix+"lore add <text>")
			return
		}
		obslog.L().Warn("lore_fetch_failed", zap.Error(err))
		b.send(msg.Room, "The lore archive is unavailable right now.")
		return
	}
	b.send(msg.Room, "📜 "+entry)
}

func (b *bot) handleParty(msg *irisfast.Message, args []string) {
	if len(args) < 2 {
		b.send(msg.Room, "Usage: "+b.cfg.BotPrefix+"party <teams> name1 name2 ...")
		return
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		b.send(msg.Room, "Usage: "+b.cfg.BotPrefix+"party <teams> name1 name2 ...")
		return
	}
	teams, err := party.Balance(args[1:], k)
	if err != nil {
		b.send(msg.Room, "Party error: "+err.Error())
		return
	}
	var sb strings.Builder
	sb.WriteString("🎲 Teams")
	for i, team := range teams {
		sb.WriteString("\n• Team ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(": ")
		sb.WriteString(strings.Join(team, ", "))
	}
	b.send(msg.Room, sb.String())
}

// sendGameError maps the engine's sentinel errors to catalog lines.
func (b *bot) sendGameError(room string, err error) {
	data := map[string]any{"Prefix": b.cfg.BotPrefix}
	switch {
	case errors.Is(err, royale.ErrNoGame):
		b.send(room, b.cat.MustRender("royale.no_game", data, "No game in this room."))
	case errors.Is(err, royale.ErrGameActive):
		b.send(room, b.cat.MustRender("royale.already_active", data, "A game is already running."))
	case errors.Is(err, royale.ErrGameEnded):
		b.send(room, b.cat.MustRender("royale.concluded", data, "That game has concluded."))
	case errors.Is(err, royale.ErrRoundInFlight):
		b.send(room, b.cat.MustRender("royale.in_flight", data, "A round is already in progress."))
	case errors.Is(err, royale.ErrTooFewWarriors), errors.Is(err, royale.ErrTooManyWarriors):
		b.send(room, "⚔️ A royale needs between "+strconv.Itoa(royale.MinWarriors)+" and "+strconv.Itoa(royale.MaxWarriors)+" warriors.")
	default:
		obslog.L().Error("royale_command_failed", zap.Error(err))
		b.send(room, "Royale error: "+err.Error())
	}
}

func (b *bot) send(room, message string) {
	if err := b.presenter.Text(room, message); err != nil {
		obslog.L().Warn("send_failed", zap.String("room", room), zap.Error(err))
	}
}

func targetArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimPrefix(args[0], "@")
}

func roomAllowed(allowed []string, room string) bool {
	for _, r := range allowed {
		if r == room {
			return true
		}
	}
	return false
}

type prefixProvider struct{ prefix string }

func (p prefixProvider) Prefix() string { return p.prefix }
