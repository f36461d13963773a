package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/comment"
	"github.com/VitaminP8/postline/internal/config"
	"github.com/VitaminP8/postline/internal/follow"
	"github.com/VitaminP8/postline/internal/group"
	"github.com/VitaminP8/postline/internal/pagecache"
	"github.com/VitaminP8/postline/internal/post"
	"github.com/VitaminP8/postline/internal/storage/memory"
	"github.com/VitaminP8/postline/internal/storage/postgres"
	"github.com/VitaminP8/postline/internal/user"
	"github.com/VitaminP8/postline/web"
)

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory или postgres")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()

	var postStore post.PostStorage
	var groupStore group.GroupStorage
	var commentStore comment.CommentStorage
	var followStore follow.FollowStorage
	var userStore user.UserStorage

	switch *storageType {
	case "postgres":
		if err := postgres.InitDB(); err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := postgres.Migrate(); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Println("Используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage()
		groupStore = postgres.NewGroupPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		followStore = postgres.NewFollowPostgresStorage()
		userStore = postgres.NewUserPostgresStorage()

	case "memory":
		log.Println("Используется in-memory хранилище")
		users := memory.NewUserMemoryStorage()
		follows := memory.NewFollowMemoryStorage(users)
		posts := memory.NewPostMemoryStorage(users, follows)
		comments := memory.NewCommentMemoryStorage(posts, users)
		groups := memory.NewGroupMemoryStorage(posts)

		postStore = posts
		groupStore = groups
		commentStore = comments
		followStore = follows
		userStore = users

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	// Сессии браузера
	session := scs.New()
	session.Lifetime = 24 * time.Hour

	// Кэш главной страницы (сбрасывается только по TTL или явным Clear)
	ttlSeconds, err := strconv.Atoi(config.GetEnvDefault("CACHE_TTL_SECONDS", "20"))
	if err != nil {
		log.Fatalf("invalid CACHE_TTL_SECONDS: %v", err)
	}
	cache := pagecache.New(128, time.Duration(ttlSeconds)*time.Second)

	mediaDir := config.GetEnvDefault("MEDIA_DIR", "media")

	handlers, err := web.NewHandlers(postStore, groupStore, commentStore, followStore, userStore, session, cache, mediaDir)
	if err != nil {
		log.Fatalf("failed to create handlers: %v", err)
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)

	// Картинки отдаются до mux — шаблон-поддерево /media/
	// конфликтовал бы с /{username}/
	media := http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir)))
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/media/") {
			media.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	// Middleware: сессия снаружи, затем определение пользователя
	handler = auth.Middleware(session, handler)
	handler = session.LoadAndSave(handler)

	addr := config.GetEnvDefault("SERVER_ADDR", ":8080")
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// запуск HTTP сервера
	go func() {
		log.Printf("Сервер запущен на http://localhost%s/", addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Завершение...")

	if *storageType == "postgres" {
		postgres.CloseDB()
	}

	if err := server.Shutdown(context.Background()); err != nil {
		log.Fatalf("Ошибка при завершении сервера: %v", err)
	}

	log.Println("Сервер остановлен корректно")
}
