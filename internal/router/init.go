package router

import (
	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/internal/container"
	"github.com/oksasatya/firmhub/internal/domain/repository"
	"github.com/oksasatya/firmhub/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/firmhub/internal/infrastructure/postgres"
	"github.com/oksasatya/firmhub/internal/infrastructure/search"
	"github.com/oksasatya/firmhub/internal/infrastructure/storage"
	handlers "github.com/oksasatya/firmhub/internal/interface/http"
	"github.com/oksasatya/firmhub/internal/router/modules"
)

type repositories struct {
	Vendors repository.VendorRepository
	Firms   repository.FirmRepository
}

type VendorModuleDeps struct {
	Service *application.VendorService
	Handler *handlers.VendorHandler
}

type FirmModuleDeps struct {
	Service *application.FirmService
	Handler *handlers.FirmHandler
}

// buildRepositories picks Postgres when a pool is configured, else the in-memory store.
func buildRepositories() repositories {
	cfg := container.GetConfig()
	if pool := container.GetPGPool(); pool != nil && cfg.DBDriver != "memory" {
		return repositories{
			Vendors: pginfra.NewVendorRepository(pool),
			Firms:   pginfra.NewFirmRepository(pool),
		}
	}
	store := container.GetMemoryStore()
	if store == nil {
		if cfg.DBDriver != "memory" {
			container.GetLogger().Warn("no postgres pool; using in-memory store")
		}
		store = memory.NewStore()
		container.SetMemoryStore(store)
	}
	return repositories{Vendors: store.Vendors(), Firms: store.Firms()}
}

// buildImageStore returns the configured store; local is also returned for serving /uploads.
func buildImageStore() (application.ImageStore, *storage.LocalStore) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	switch cfg.StorageDriver {
	case "gcs":
		if container.GetGCS() == nil || cfg.GCSBucket == "" {
			logger.Warn("gcs storage selected but not configured; image uploads disabled")
			return nil, nil
		}
		return storage.NewGCSStore(container.GetGCS(), cfg.GCSBucket), nil
	case "local":
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			logger.WithError(err).Warn("local storage unavailable; image uploads disabled")
			return nil, nil
		}
		return local, local
	default:
		logger.WithField("driver", cfg.StorageDriver).Warn("unknown storage driver; image uploads disabled")
		return nil, nil
	}
}

func buildSearchIndex() repository.FirmSearchIndex {
	cfg := container.GetConfig()
	es := container.GetES()
	if !cfg.SearchEnabled || es == nil {
		return nil
	}
	return search.NewFirmIndex(es, cfg.ESFirmsIndex, container.GetLogger())
}

func buildPublisher() application.JobPublisher {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}

func buildVendorDeps(repos repositories, pub application.JobPublisher) VendorModuleDeps {
	cfg := container.GetConfig()
	service := application.NewVendorService(
		repos.Vendors,
		repos.Firms,
		container.GetJWT(),
		container.GetRedis(),
		pub,
		cfg,
		container.GetMetrics(),
		container.GetLogger(),
	)
	handler := handlers.NewVendorHandler(service, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	return VendorModuleDeps{Service: service, Handler: handler}
}

func buildFirmDeps(repos repositories, images application.ImageStore, pub application.JobPublisher) FirmModuleDeps {
	service := application.NewFirmService(
		repos.Firms,
		repos.Vendors,
		images,
		buildSearchIndex(),
		pub,
		container.GetConfig(),
		container.GetMetrics(),
		container.GetLogger(),
	)
	return FirmModuleDeps{Service: service, Handler: handlers.NewFirmHandler(service, container.GetLogger())}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	repos := buildRepositories()
	images, local := buildImageStore()
	pub := buildPublisher()

	vendorDeps := buildVendorDeps(repos, pub)
	firmDeps := buildFirmDeps(repos, images, pub)

	r.Add(modules.NewVendorModule(vendorDeps.Handler, container.GetJWT(), container.GetRedis()))
	r.Add(modules.NewFirmModule(firmDeps.Handler, container.GetJWT(), container.GetRedis()))
	if container.GetConfig().MetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetrics(), container.GetRedis()))
	}
	if local != nil {
		r.AddRoot(modules.NewUploadModule(handlers.NewUploadHandler(local)))
	}
}
