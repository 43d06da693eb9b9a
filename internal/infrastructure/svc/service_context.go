package svc

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"btcfeed/internal/application/container"
	"btcfeed/internal/application/port"
	"btcfeed/internal/application/pricebus"
	"btcfeed/internal/infrastructure/catalog"
	"btcfeed/internal/infrastructure/config"
	"btcfeed/internal/infrastructure/factory"
	"btcfeed/internal/infrastructure/handshake"
	"btcfeed/internal/infrastructure/metrics"
	"btcfeed/internal/infrastructure/storage/composite"
	postgresrepo "btcfeed/internal/infrastructure/storage/postgres"
	redisrepo "btcfeed/internal/infrastructure/storage/redis"
	sqliterepo "btcfeed/internal/infrastructure/storage/sqlite"
	"btcfeed/internal/infrastructure/websocket"
	"btcfeed/internal/interfaces/console"
)

type ServiceContext struct {
	Ctx     context.Context
	Config  *config.Config
	Catalog *catalog.Catalog

	// 基础设施层（第一层初始化）
	broker       *handshake.Broker
	engine       *websocket.Engine
	redisClient  *redisclient.Client
	redisRepo    *redisrepo.Repo
	sqliteRepo   *sqliterepo.Repo
	postgresRepo *postgresrepo.Repo
	store        *composite.Repo

	// 输出端口
	Sink port.Sink

	// 应用层
	app *container.Container

	// 资源管理
	closerChain []func() error
}

// Option tweaks a ServiceContext before components are built.
type Option func(*ServiceContext)

// WithSink replaces the console sink.
func WithSink(s port.Sink) Option {
	return func(sc *ServiceContext) { sc.Sink = s }
}

// New 创建并初始化 ServiceContext
// 这是应用启动的唯一入口点，所有依赖初始化都在这里完成
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		Sink:        console.NewSink(),
		closerChain: make([]func() error, 0),
	}
	for _, opt := range opts {
		opt(sc)
	}

	// 初始化所有组件，按依赖顺序
	if err := sc.initializeComponents(); err != nil {
		// 清理已初始化的资源
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

// initializeComponents 初始化所有应用组件
// 按照依赖关系有序初始化，确保不会有循环依赖
func (sc *ServiceContext) initializeComponents() error {
	// 0. 存储层
	if err := sc.initializeStorage(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}

	// 1. venue catalog
	cat, err := catalog.Load(sc.Config.Venues)
	if err != nil {
		return err
	}
	if len(cat.Keys()) == 0 {
		return ErrNoFeedsEnabled
	}
	sc.Catalog = cat

	// 2. 应用层：bus + feed + 镜像 + 快照
	sc.app = container.New(pricebus.New(), sc.store, sc.Sink, sc.Config.App.PrintEveryMin, sc.Config.Log.Format != "json")

	// 3. handshake broker（只有 two_phase_token 的 venue 会用到）
	eng := sc.Config.Engine
	sc.broker = handshake.NewBroker(handshake.Options{
		Timeout:          eng.HandshakeTimeout,
		RPS:              eng.HandshakeRPS,
		Burst:            eng.HandshakeBurst,
		BreakerFailures:  eng.BreakerFailures,
		BreakerOpenDelay: eng.BreakerOpenDelay,
	})

	// 4. engine：每个 (venue, market) 一个 supervisor
	targets, err := factory.NewTargets(cat)
	if err != nil {
		return err
	}
	engine, err := websocket.NewEngine(targets, sc.broker, sc.app.Bus(), websocket.Options{
		DialTimeout:       eng.DialTimeout,
		ReadTimeout:       eng.ReadTimeout,
		BackoffMin:        eng.BackoffMin,
		BackoffMax:        eng.BackoffMax,
		KeepAliveInterval: eng.KeepAliveInterval,
	})
	if err != nil {
		if errors.Is(err, websocket.ErrNoStreams) {
			return ErrNoFeedsEnabled
		}
		return err
	}
	sc.engine = engine

	log.Info().
		Int("venues", len(cat.Venues())).
		Int("streams", len(engine.Keys())).
		Int("mirrors", sc.store.Len()).
		Msg("✓ All components initialized")
	return nil
}

// initializeStorage 初始化存储层 (Redis、SQLite、Postgres)，都是可选的
func (sc *ServiceContext) initializeStorage() error {
	if sc.Config.Redis.Enabled {
		if err := sc.initRedis(); err != nil {
			return fmt.Errorf("redis initialization failed: %w", err)
		}
	}

	if sc.Config.SQLite.Enabled {
		if err := sc.initSQLite(); err != nil {
			return fmt.Errorf("sqlite initialization failed: %w", err)
		}
	}

	if sc.Config.Postgres.Enabled {
		if err := sc.initPostgres(); err != nil {
			return fmt.Errorf("postgres initialization failed: %w", err)
		}
	}

	// nil 的 repo 会被 composite 过滤掉
	var stores []port.LatestPriceStore
	if sc.redisRepo != nil {
		stores = append(stores, sc.redisRepo)
	}
	if sc.sqliteRepo != nil {
		stores = append(stores, sc.sqliteRepo)
	}
	if sc.postgresRepo != nil {
		stores = append(stores, sc.postgresRepo)
	}
	sc.store = composite.New(stores...)
	return nil
}

// initRedis 初始化 Redis 连接
func (sc *ServiceContext) initRedis() error {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	sc.redisClient = rdb
	ttl := time.Duration(sc.Config.Redis.TTLSeconds) * time.Second
	sc.redisRepo = redisrepo.New(rdb, sc.Config.Redis.Prefix, ttl, sc.Config.Redis.Channel)

	// 注册关闭回调
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", sc.Config.Redis.Addr).
		Int("db", sc.Config.Redis.DB).
		Str("channel", sc.redisRepo.Channel()).
		Msg("✓ Redis initialized")

	return nil
}

// initSQLite 初始化 SQLite 数据库
func (sc *ServiceContext) initSQLite() error {
	repo, err := sqliterepo.New(sc.Config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("sqlite repo creation failed: %w", err)
	}
	sc.sqliteRepo = repo

	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Info().
		Str("path", sc.Config.SQLite.Path).
		Msg("✓ SQLite initialized")

	return nil
}

// initPostgres 初始化 Postgres
func (sc *ServiceContext) initPostgres() error {
	repo, err := postgresrepo.New(sc.Config.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("postgres repo creation failed: %w", err)
	}
	sc.postgresRepo = repo

	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing postgres connection")
		return repo.Close()
	})

	log.Info().Msg("✓ Postgres initialized")
	return nil
}

// Feed is the outbound Subscribe/GetLatest contract.
func (sc *ServiceContext) Feed() port.PriceFeed { return sc.app.Feed() }

// Bus 获取 price bus
func (sc *ServiceContext) Bus() *pricebus.Bus { return sc.app.Bus() }

// Engine 获取连接 engine
func (sc *ServiceContext) Engine() *websocket.Engine { return sc.engine }

// GetRedisRepo 获取 Redis 仓储
func (sc *ServiceContext) GetRedisRepo() *redisrepo.Repo { return sc.redisRepo }

// GetSQLiteRepo 获取 SQLite 仓储
func (sc *ServiceContext) GetSQLiteRepo() *sqliterepo.Repo { return sc.sqliteRepo }

// Run 启动 engine、存储镜像、快照打印和 metrics，直到 ctx 结束
func (sc *ServiceContext) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return sc.engine.Run(ctx) })

	if sc.store.Len() > 0 {
		g.Go(func() error { return sc.app.PriceService().Run(ctx, sc.engine.Keys()) })
	}

	if sc.Config.App.PrintEveryMin > 0 {
		g.Go(func() error { return sc.app.MonitorService().Run(ctx) })
	}

	if addr := sc.Config.App.MetricsAddr; addr != "" {
		// metrics 挂了只记日志，不能把行情流一起停掉
		g.Go(func() error {
			if err := metrics.Serve(ctx, addr); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("metrics server failed, streams keep running")
			}
			return nil
		})
	}

	return g.Wait()
}

// Close 关闭 ServiceContext 中的所有资源
// 按照初始化的相反顺序关闭
func (sc *ServiceContext) Close() error {
	var firstErr error
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	sc.closerChain = nil
	return firstErr
}
