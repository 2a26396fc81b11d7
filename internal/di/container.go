package di

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/database"
	sitehttp "github.com/goliatone/go-sitecms/internal/http"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/institutions"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/logging/gologger"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/notify"
	"github.com/goliatone/go-sitecms/internal/objectstore"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/seed"
	"github.com/goliatone/go-sitecms/internal/submissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	store        objectstore.Store
	notifier     notify.Notifier
	activitySink interfaces.ActivitySink
	emitter      *activity.Emitter
	registry     *sections.Registry
	cmdRegistry  sitecmd.CommandRegistry
	migrations   fs.FS
	migrationDir string

	contentRepo content.Repository

	contentAdmin  content.AdminService
	pageSvc       content.PublicService
	institutions  *institutions.Service
	submissionSvc submissions.Service
	contactSvc    *contact.Inbox
	mediaLib      media.Library
	userSvc       identity.Service
	verifier      *auth.Verifier
	commands      *sitecmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB uses db instead of opening Config.Database. The caller keeps
// ownership of the handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithObjectStore overrides the store selected by Config.Storage.
func WithObjectStore(store objectstore.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithNotifier overrides the notifier selected by Config.Email.
func WithNotifier(notifier notify.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithActivitySink routes admin activity records to sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithSectionRegistry replaces the default page editor configuration.
func WithSectionRegistry(registry *sections.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithContentRepository replaces the Bun page_content repository.
func WithContentRepository(repo content.Repository) Option {
	return func(c *Container) {
		c.contentRepo = repo
	}
}

// WithMigrations applies the SQL migrations under dir instead of creating
// tables from the models.
func WithMigrations(fsys fs.FS, dir string) Option {
	return func(c *Container) {
		c.migrations = fsys
		c.migrationDir = dir
	}
}

// WithCommandRegistry registers the admin command handlers with reg.
func WithCommandRegistry(reg sitecmd.CommandRegistry) Option {
	return func(c *Container) {
		c.cmdRegistry = reg
	}
}

// NewContainer validates cfg and builds every service. The database schema
// is created or migrated before services are built.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogging,
		c.configureDatabase,
		c.configureCacheDefaults,
		c.configureStorage,
		c.configureNotifier,
		c.configureServices,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.logger.Info("site.container.ready",
		"database", cfg.Database.Driver,
		"storage", cfg.Storage.Provider,
		"email", cfg.Email.Provider,
		"cache", c.cacheService != nil,
	)
	return c, nil
}

func (c *Container) configureLogging(context.Context) error {
	if c.loggerProvider == nil && strings.EqualFold(c.Config.Logging.Provider, "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: logger: %w", err)
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "site")
	return nil
}

func (c *Container) configureDatabase(ctx context.Context) error {
	if c.bunDB == nil {
		db, err := database.Open(ctx, c.Config.Database)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.migrations != nil {
		applied, err := database.Migrate(ctx, c.bunDB, c.migrations, c.migrationDir)
		if err != nil {
			return err
		}
		if len(applied) > 0 {
			c.logger.Info("site.database.migrated", "applied", applied)
		}
		return nil
	}
	return database.CreateSchema(ctx, c.bunDB)
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("site.cache.disabled", "error", err)
			return nil
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

// bucketEnsurer is implemented by stores that can create their buckets.
type bucketEnsurer interface {
	EnsureBuckets(ctx context.Context, buckets ...string) error
}

func (c *Container) configureStorage(ctx context.Context) error {
	storage := c.Config.Storage
	if c.store == nil {
		switch strings.ToLower(strings.TrimSpace(storage.Provider)) {
		case "minio":
			store, err := objectstore.NewMinioStore(objectstore.MinioConfig{
				Endpoint:      storage.Endpoint,
				AccessKey:     storage.AccessKey,
				SecretKey:     storage.SecretKey,
				UseSSL:        storage.UseSSL,
				Region:        storage.Region,
				PublicBaseURL: storage.PublicBaseURL,
			})
			if err != nil {
				return fmt.Errorf("di: object store: %w", err)
			}
			c.store = store
		default:
			c.store = objectstore.NewMemoryStore(storage.PublicBaseURL)
		}
	}

	if ensurer, ok := c.store.(bucketEnsurer); ok {
		if err := ensurer.EnsureBuckets(ctx, storage.MediaBucket, storage.SubmissionsBucket); err != nil {
			return fmt.Errorf("di: ensure buckets: %w", err)
		}
	}
	return nil
}

func (c *Container) configureNotifier(context.Context) error {
	if c.notifier != nil {
		return nil
	}
	email := c.Config.Email
	if !c.Config.Features.Notifications || !strings.EqualFold(email.Provider, "resend") {
		c.notifier = notify.NoOp{}
		return nil
	}
	c.notifier = notify.NewResendNotifier(notify.ResendConfig{
		APIKey:         email.APIKey,
		From:           email.From,
		AdminRecipient: email.AdminRecipient,
	})
	return nil
}

func (c *Container) configureServices(context.Context) error {
	provider := c.loggerProvider
	cfg := c.Config

	if cfg.Features.Activity {
		sink := c.activitySink
		if sink == nil {
			sink = activity.LoggerSink{Logger: logging.ModuleLogger(provider, "site.activity")}
		}
		c.emitter = activity.NewEmitter(sink, c.logger)
	}

	if c.registry == nil {
		c.registry = sections.DefaultRegistry()
	}
	if c.contentRepo == nil {
		c.contentRepo = content.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}

	c.contentAdmin = content.NewAdminService(c.contentRepo,
		content.WithCatalog(c.registry),
		content.WithSchemaValidation(cfg.Features.ContentSchemas),
		content.WithVersionCheck(cfg.Features.OptimisticLocking),
		content.WithAdminLogger(logging.ContentLogger(provider)),
		content.WithActivityEmitter(c.emitter),
	)
	c.pageSvc = content.NewPublicService(c.contentRepo, logging.ContentLogger(provider))
	c.institutions = institutions.NewService(c.pageSvc)

	c.submissionSvc = submissions.NewService(submissions.NewBunRepository(c.bunDB), c.store,
		submissions.WithBucket(cfg.Storage.SubmissionsBucket),
		submissions.WithMaxFileSize(cfg.Submissions.MaxFileSize),
		submissions.WithRollbackOnTotalFailure(cfg.Submissions.RollbackOnTotalFailure),
		submissions.WithSignedURLTTL(cfg.Storage.SignedURLTTL),
		submissions.WithLogger(logging.SubmissionsLogger(provider)),
		submissions.WithActivityEmitter(c.emitter),
	)

	c.contactSvc = contact.NewService(contact.NewBunRepository(c.bunDB),
		contact.WithNotifier(c.notifier),
		contact.WithNotificationTimeout(cfg.Email.SendTimeout),
		contact.WithLogger(logging.ContactLogger(provider)),
		contact.WithActivityEmitter(c.emitter),
	)

	c.mediaLib = media.NewLibrary(c.store,
		media.WithBucket(cfg.Storage.MediaBucket),
		media.WithLogger(logging.MediaLogger(provider)),
		media.WithActivityEmitter(c.emitter),
	)

	c.userSvc = identity.NewService(identity.NewBunRepository(c.bunDB),
		identity.WithLogger(logging.IdentityLogger(provider)),
		identity.WithActivityEmitter(c.emitter),
	)

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret,
		auth.WithIssuer(cfg.Auth.Issuer),
		auth.WithLeeway(cfg.Auth.Leeway),
	)
	if err != nil {
		return fmt.Errorf("di: token verifier: %w", err)
	}
	c.verifier = verifier
	return nil
}

func (c *Container) configureCommands(ctx context.Context) error {
	set, err := sitecmd.Register(c.cmdRegistry, sitecmd.Services{
		Submissions: c.submissionSvc,
		Contact:     c.contactSvc,
		Content:     c.contentAdmin,
	}, c.loggerProvider)
	if err != nil {
		return fmt.Errorf("di: commands: %w", err)
	}
	c.commands = set

	if _, err := c.contentAdmin.LoadAll(ctx); err != nil {
		c.logger.Warn("site.content.initial_load_failed", "error", err)
	}
	return nil
}

// Handler builds the public and admin HTTP routes.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	public := sitehttp.NewPublicAPI(
		sitehttp.WithPublicBasePath(c.Config.Server.PublicBasePath),
		sitehttp.WithPageService(c.pageSvc),
		sitehttp.WithInstitutionService(c.institutions),
		sitehttp.WithContactService(c.contactSvc),
		sitehttp.WithSubmissionService(c.submissionSvc),
		sitehttp.WithMaxUploadBytes(uploadLimit(c.Config.Submissions.MaxFileSize)),
	)
	if err := public.Register(mux); err != nil {
		return nil, err
	}

	admin := sitehttp.NewAdminAPI(
		sitehttp.WithBasePath(c.Config.Server.AdminBasePath),
		sitehttp.WithVerifier(c.verifier),
		sitehttp.WithContentAdmin(c.contentAdmin),
		sitehttp.WithSectionRegistry(c.registry),
		sitehttp.WithSubmissionAdmin(c.submissionSvc),
		sitehttp.WithContactAdmin(c.contactSvc),
		sitehttp.WithMediaLibrary(c.mediaLib),
		sitehttp.WithUserService(c.userSvc),
		sitehttp.WithCommands(c.commands),
	)
	if err := admin.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// uploadLimit bounds a multipart request carrying the four application
// documents plus form fields.
func uploadLimit(perFile int64) int64 {
	if perFile <= 0 {
		return 0
	}
	return int64(len(submissions.FormTypes()))*perFile + 1<<20
}

// Importer returns a markdown seed importer writing to the content store.
func (c *Container) Importer(opts ...seed.Option) *seed.Importer {
	base := []seed.Option{
		seed.WithAllowlist(c.registry),
		seed.WithLogger(logging.SeedLogger(c.loggerProvider)),
	}
	return seed.NewImporter(c.contentRepo, append(base, opts...)...)
}

// Close waits for pending notifications and releases the database handle
// when the container opened it.
func (c *Container) Close() error {
	if c.contactSvc != nil {
		c.contactSvc.Wait()
	}
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

// Logger returns the root site logger.
func (c *Container) Logger() interfaces.Logger { return c.logger }

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// DB exposes the Bun handle.
func (c *Container) DB() *bun.DB { return c.bunDB }

// ObjectStore exposes the configured object store.
func (c *Container) ObjectStore() objectstore.Store { return c.store }

// SectionRegistry exposes the page editor configuration.
func (c *Container) SectionRegistry() *sections.Registry { return c.registry }

// ContentRepository exposes the configured content repository.
func (c *Container) ContentRepository() content.Repository { return c.contentRepo }

// ContentAdmin returns the admin content service.
func (c *Container) ContentAdmin() content.AdminService { return c.contentAdmin }

// PageService returns the public page content service.
func (c *Container) PageService() content.PublicService { return c.pageSvc }

// InstitutionService returns the institutions directory.
func (c *Container) InstitutionService() *institutions.Service { return c.institutions }

// SubmissionService returns the application form service.
func (c *Container) SubmissionService() submissions.Service { return c.submissionSvc }

// ContactService returns the contact inbox.
func (c *Container) ContactService() contact.Service { return c.contactSvc }

// MediaLibrary returns the media library.
func (c *Container) MediaLibrary() media.Library { return c.mediaLib }

// UserService returns the admin user service.
func (c *Container) UserService() identity.Service { return c.userSvc }

// TokenVerifier returns the bearer token verifier.
func (c *Container) TokenVerifier() *auth.Verifier { return c.verifier }

// Commands returns the admin command handlers.
func (c *Container) Commands() *sitecmd.HandlerSet { return c.commands }

// ShutdownTimeout is the grace period for in-flight requests.
func (c *Container) ShutdownTimeout() time.Duration {
	if c.Config.Server.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return c.Config.Server.ShutdownTimeout
}
