// Package app wires repositories and services from configuration. Both the HTTP
// server and catalogctl start from here.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"rocksolid/climbing-trainer/internal/api"
	"rocksolid/climbing-trainer/internal/config"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/repository/memory"
	"rocksolid/climbing-trainer/internal/repository/mongo"
	"rocksolid/climbing-trainer/internal/service"
	"rocksolid/climbing-trainer/internal/storage"
)

const indexTimeout = time.Minute

// Repositories is one set of store accessors.
type Repositories struct {
	Users         repository.UserRepository
	Exercises     repository.ExerciseRepository
	Profiles      repository.ProfileRepository
	Plans         repository.PlanRepository
	Progress      repository.ProgressRepository
	Stats         repository.StatsRepository
	Notifications repository.NotificationRepository
}

// OpenRepositories connects the configured store. The returned close func is never nil.
func OpenRepositories(cfg config.DatabaseConfig) (*Repositories, func(), error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on exit")
		return MemoryRepositories(memory.NewStore()), func() {}, nil
	case "mongo", "":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.Name)
		logger.Info("Database connection established", "database", cfg.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
			defer cancel()
			mongo.EnsureIndexes(ctx, db)
			logger.Debug("Index creation process completed")
		}()

		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error("Failed to disconnect MongoDB", "error", err)
			}
		}
		return &Repositories{
			Users:         mongo.NewMongoUserRepository(db),
			Exercises:     mongo.NewMongoExerciseRepository(db),
			Profiles:      mongo.NewMongoProfileRepository(db),
			Plans:         mongo.NewMongoPlanRepository(db),
			Progress:      mongo.NewMongoProgressRepository(db),
			Stats:         mongo.NewMongoStatsRepository(db),
			Notifications: mongo.NewMongoNotificationRepository(db),
		}, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// MemoryRepositories exposes an in-memory store as a Repositories set.
func MemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Users:         store.Users(),
		Exercises:     store.Exercises(),
		Profiles:      store.Profiles(),
		Plans:         store.Plans(),
		Progress:      store.Progress(),
		Stats:         store.Stats(),
		Notifications: store.Notifications(),
	}
}

// NewServices builds every service over repos. A nil rng is seeded from the clock.
func NewServices(repos *Repositories, jwt config.JWTConfig, fileStorage storage.FileStorage, now service.Clock, rng *rand.Rand) api.Services {
	return api.Services{
		Auth:         service.NewAuthService(repos.Users, jwt.Secret, jwt.Expiration),
		Survey:       service.NewSurveyService(repos.Profiles, repos.Users, now),
		Plan:         service.NewPlanService(repos.Exercises, repos.Profiles, repos.Plans, repos.Progress, now, rng),
		Session:      service.NewSessionService(repos.Plans, repos.Progress, now),
		Progress:     service.NewProgressService(repos.Progress, repos.Stats, repos.Notifications, now),
		Notification: service.NewNotificationService(repos.Notifications),
		Exercise:     service.NewExerciseService(repos.Exercises, fileStorage),
	}
}
