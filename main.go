package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"vibepos/config"
	"vibepos/controllers"
	dbpkg "vibepos/db"
	"vibepos/dispatch"
	"vibepos/providers"
	"vibepos/router"
	"vibepos/store"
	"vibepos/tokens"
	"vibepos/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := getenv("CONFIG_PATH", "config/config.json")
	cfg := config.Get(configPath)

	setupLog(cfg.LogPath)

	dbpkg.SetConfigurations(cfg)
	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatalf("main: database connect failed: %v", err)
	}
	defer database.Close()

	// Credential store: memory por padrão, gorm quando precisa sobreviver a restart
	var credStore store.CredentialStore
	if cfg.Store.Backend == "gorm" {
		credStore = store.NewGorm(database)
	} else {
		credStore = store.NewMemory(cfg.Reset.FallbackTTL())
	}

	tokenSvc := tokens.NewService(credStore, tokens.Config{
		TokenTTL:            cfg.Reset.TokenTTL(),
		FallbackTTL:         cfg.Reset.FallbackTTL(),
		Cooldown:            cfg.Reset.Cooldown(),
		AllowDecodeFallback: cfg.Reset.AllowDecodeFallback,
	})

	emailSenders := providers.EmailSenders(cfg.Email)
	var chatSenders []providers.Sender
	if chat, err := providers.ChatSender(cfg.Chat); err != nil {
		log.Printf("main: whatsapp disabled: %v", err)
	} else {
		chatSenders = append(chatSenders, chat)
	}

	dispatcher := dispatch.New(emailSenders, chatSenders, cfg.Queue.SendTimeout())

	worker := workers.StartNotifyWorker(dispatcher, database, cfg.Queue.Size, cfg.Queue.SendTimeout())
	defer worker.Stop()

	controllers.SetupNotify(cfg, tokenSvc, dispatcher, worker)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r, cfg)

	log.Printf("VibePOS notify listening on :%s", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal(err)
	}
}

// setupLog espelha o log no arquivo configurado, mantendo o stdout
func setupLog(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("main: log dir: %v", err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("main: log file: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	gin.DefaultWriter = io.MultiWriter(os.Stdout, f)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
