package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillbridge/internal/config"
	"skillbridge/internal/database"
	"skillbridge/internal/database/migration"
	dbpostgres "skillbridge/internal/database/postgres"
	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/infrastructure/cache"
	"skillbridge/internal/infrastructure/storage"
	"skillbridge/internal/pkg/jwt"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/repository"
	authuc "skillbridge/internal/usecase/auth"
	messageuc "skillbridge/internal/usecase/message"
	reviewuc "skillbridge/internal/usecase/review"
	skilluc "skillbridge/internal/usecase/skill"
	uploaduc "skillbridge/internal/usecase/upload"
	useruc "skillbridge/internal/usecase/user"
	"skillbridge/internal/ws"
)

type Container struct {
	Config config.Config
	Log    *logger.Logger
	DB     database.DB
	Cache  *cache.Redis
	JWT    jwt.Service
	Hub    *ws.Hub

	Auth    *authuc.Service
	Users   *useruc.Service
	Skills  *skilluc.Service
	Message *messageuc.Service
	Reviews *reviewuc.Service
	Uploads *uploaduc.Service
}

func NewContainer(ctx context.Context, cfg config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := migration.NewRunner(log).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisCache := cache.NewRedis(ctx, cfg.Redis, log)

	var objects uploaduc.ObjectStorage
	s3, err := storage.NewS3(ctx, cfg.Storage, log)
	switch {
	case err == nil:
		objects = s3
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("object storage not configured, uploads use placeholders")
	default:
		log.Warn("object storage unavailable, uploads use placeholders", "error", err)
	}

	tokens := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	reviewRepo := repository.NewPostgresReviewRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)
	tx := database.NewTxManager(db)

	hub := ws.NewHub(log.With("component", "ws"))
	notifier := ws.NewNotifier(hub, dto.RenderMessageEvent)

	return &Container{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  redisCache,
		JWT:    tokens,
		Hub:    hub,

		Auth:    authuc.NewService(userRepo, tokens),
		Users:   useruc.NewService(userRepo, skillRepo, reviewRepo),
		Skills:  skilluc.NewService(skillRepo, redisCache, cfg.Redis.TTL, log),
		Message: messageuc.NewService(messageRepo, userRepo, notifier, log),
		Reviews: reviewuc.NewService(reviewRepo, userRepo, skillRepo, tx),
		Uploads: uploaduc.NewService(objects, log),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
