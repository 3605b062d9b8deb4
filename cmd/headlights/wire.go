package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/headlights/internal/adapters/driver"
	"github.com/okian/headlights/internal/adapters/http/api"
	"github.com/okian/headlights/internal/adapters/http/swagger"
	"github.com/okian/headlights/internal/adapters/mq/subscriber"
	service "github.com/okian/headlights/internal/app"
	"github.com/okian/headlights/internal/config"
	"github.com/okian/headlights/internal/domain/animation"
	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/internal/domain/palette"
	"github.com/okian/headlights/internal/domain/strip"
	"github.com/okian/headlights/internal/events"
	"github.com/okian/headlights/pkg/logger"
	"github.com/okian/headlights/pkg/metrics"
)

// components is everything main starts and stops.
type components struct {
	strip      *strip.Strip
	service    *service.Service
	subscriber *subscriber.Subscriber // nil unless nats.enabled
	handler    http.Handler
}

// build constructs the strip, the dispatcher and both transports from cfg.
// Nothing is started.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*components, error) {
	drv, err := driver.New(cfg.Strip.DriverConfig(), log.Named("driver"))
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	s, err := strip.New(cfg.Strip.Count, drv)
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("strip: %w", err)
	}

	gate, err := cfg.QuietHours.Gate()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("quiet hours: %w", err)
	}

	pal, err := palette.New(cfg.Colors)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("colors: %w", err)
	}

	engine := animation.New(
		animation.WithBlink(cfg.Timing.BlinkWait(), cfg.Timing.BlinkIterations),
		animation.WithSpreadWait(cfg.Timing.SpreadWait()),
		animation.WithFade(cfg.Timing.FadeWait(), cfg.Timing.FadeStep),
		animation.WithMaxBrightness(cfg.Strip.Brightness),
	)
	metrics.UpdateBrightnessCeiling(engine.MaxBrightness())

	bus := events.New()
	dopts := []service.DispatcherOption{
		service.WithEngine(engine),
		service.WithGate(gate),
		service.WithPalette(pal),
		service.WithBus(bus),
		service.WithDispatcherLogger(log.Named("dispatcher")),
	}
	if cfg.QuietHours.ExemptError {
		dopts = append(dopts, service.WithQuietExempt(model.Error))
	}
	d := service.NewDispatcher(s, dopts...)

	svc := service.New(d,
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.NATS.DedupeSize),
		service.WithEventBus(bus),
		service.WithLogger(log.Named("service")),
	)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)
	swagger.Register(ctx, mux)

	c := &components{
		strip:   s,
		service: svc,
		handler: mux,
	}

	if cfg.NATS.Enabled {
		c.subscriber = subscriber.New(cfg.NATS.URL, cfg.NATS.Subject, svc,
			subscriber.WithQueueGroup(cfg.NATS.QueueGroup),
			subscriber.WithBusyCheck(func(err error) bool { return errors.Is(err, service.ErrBusy) }),
			subscriber.WithLogger(log.Named("nats")),
		)
	}

	return c, nil
}
