package container

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/application/pricebus"
	"btcfeed/internal/application/service"
	"btcfeed/internal/application/usecase/monitor"
)

// Container 组装应用层：price bus、对外 feed、镜像服务和快照打印。
type Container struct {
	bus  *pricebus.Bus
	repo port.LatestPriceStore
	sink port.Sink

	printEveryMin int
	color         bool

	feed           *pricebus.Feed
	priceService   *service.PriceService
	monitorService *monitor.Service
}

func New(bus *pricebus.Bus, repo port.LatestPriceStore, sink port.Sink, printEveryMin int, color bool) *Container {
	return &Container{
		bus:           bus,
		repo:          repo,
		sink:          sink,
		printEveryMin: printEveryMin,
		color:         color,
	}
}

func (c *Container) Bus() *pricebus.Bus { return c.bus }

func (c *Container) Feed() port.PriceFeed {
	if c.feed == nil {
		c.feed = pricebus.NewFeed(c.bus)
	}
	return c.feed
}

func (c *Container) PriceService() *service.PriceService {
	if c.priceService == nil {
		c.priceService = service.NewPriceService(c.bus, c.repo)
	}
	return c.priceService
}

func (c *Container) MonitorService() *monitor.Service {
	if c.monitorService == nil {
		c.monitorService = monitor.NewService(monitor.ServiceDeps{
			Source:        c.bus,
			Sink:          c.sink,
			PrintEveryMin: c.printEveryMin,
			Color:         c.color,
		})
	}
	return c.monitorService
}

func (c *Container) Close() error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Close()
}
