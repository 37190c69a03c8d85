package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/NewUser1121/Loa-Bot/bot/commands"
	"github.com/NewUser1121/Loa-Bot/bot/config"
	"github.com/NewUser1121/Loa-Bot/bot/dedupe"
	"github.com/NewUser1121/Loa-Bot/bot/events"
	"github.com/NewUser1121/Loa-Bot/bot/handlers"
	"github.com/NewUser1121/Loa-Bot/bot/models"
	"github.com/NewUser1121/Loa-Bot/bot/store"
	"github.com/NewUser1121/Loa-Bot/bot/tasks"
)

var (
	registerCommands = flag.Bool("register-commands", true, "True by default (useful in development)")
	testing          = flag.Bool("testing", false, "")
)

func main() {
	flag.Parse()

	// Load .env only if --testing=true
	if *testing {
		if err := godotenv.Load(); err != nil {
			log.Fatal().Err(err).Msg("Error loading .env file")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var db *gorm.DB
	if cfg.PostgresDSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("Could not connect to database")
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Fatal().Err(err).Msg("Could not migrate database")
		}
	} else {
		log.Warn().Msg("POSTGRES_DSN not set, running without persistence")
	}

	s, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid bot parameters")
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentGuildMembers |
		discordgo.IntentMessageContent

	deps := &handlers.Deps{
		DB:           db,
		Store:        store.New(db),
		Seen:         dedupe.NewSeen(dedupe.DefaultTTL),
		ListMessages: handlers.NewListMessages(),
	}

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("username", s.State.User.Username).Msg("Logged in")
	})
	s.AddHandler(handlers.InteractionCreateHandler(deps))
	s.AddHandler(events.MessageCreateHandler(deps))

	if err := s.Open(); err != nil {
		log.Fatal().Err(err).Msg("Cannot open the session")
	}
	defer s.Close()

	registered := make([]*discordgo.ApplicationCommand, 0, len(commands.Commands))
	guildId := "" // Empty to register global commands
	if *registerCommands {
		log.Info().Msg("Adding commands...")

		for _, command := range commands.Commands {
			cmd, err := s.ApplicationCommandCreate(s.State.User.ID, guildId, command)
			if err != nil {
				log.Fatal().Err(err).Str("command", command.Name).Msg("Cannot create command")
			}
			registered = append(registered, cmd)
		}
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(60).Seconds().Do(tasks.KeepAlive(cfg.SelfURL()))
	scheduler.Every(1).Minute().Do(deps.Seen.Sweep)
	scheduler.StartAsync()
	defer scheduler.Stop()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error().Err(err).Msg("Health endpoint stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	log.Info().Msg("Press Ctrl+C to exit")
	<-stop

	if cfg.CleanCommandsAfterShutdown {
		log.Info().Msg("Removing commands...")

		for _, command := range registered {
			if err := s.ApplicationCommandDelete(s.State.User.ID, guildId, command.ID); err != nil {
				log.Error().Err(err).Str("command", command.Name).Msg("Cannot delete command")
			}
		}
	}

	log.Info().Msg("Gracefully shutting down.")
}
