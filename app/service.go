package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Benjamin-Elon/trellis/config"
	"github.com/Benjamin-Elon/trellis/core/events"
	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/core/model"
	coremqtt "github.com/Benjamin-Elon/trellis/core/mqtt"
	"github.com/Benjamin-Elon/trellis/core/planlog"
	"github.com/Benjamin-Elon/trellis/core/planner"
	"github.com/Benjamin-Elon/trellis/infra/logger"
	"github.com/Benjamin-Elon/trellis/infra/metrics"
	"github.com/Benjamin-Elon/trellis/infra/mqtt"
	"github.com/Benjamin-Elon/trellis/internal/eventbus"
)

// ErrNotFound marks lookups of plants or cities missing from the catalog.
var ErrNotFound = errors.New("not found")

// PlanRequest names the inputs of one planning run. Zero fields fall back
// to the configured policy.
type PlanRequest struct {
	Plant     string
	City      string
	Method    string
	Year      int
	Start     time.Time
	SeasonEnd time.Time
	// YieldTargetKg overrides the configured season yield target when
	// positive.
	YieldTargetKg float64
}

// Service wires the catalog, planning policy, metrics sinks, history store
// and MQTT publisher behind the planning operations.
type Service struct {
	cfg     *config.Config
	catalog model.Catalog
	sink    coremetrics.MetricsSink
	pub     coremqtt.Publisher
	history planlog.LogStore
	bus     *eventbus.Bus
	log     logger.Logger
	cancel  context.CancelFunc
}

// New creates a Service from the configuration, loading the catalog from
// the configured paths.
func New(cfg *config.Config) (*Service, error) {
	catalog, err := model.LoadCatalog(cfg.Catalog.PlantsPath, cfg.Catalog.CitiesPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return NewWithCatalog(cfg, catalog)
}

// NewWithCatalog creates a Service around an already-loaded catalog.
func NewWithCatalog(cfg *config.Config, catalog model.Catalog) (*Service, error) {
	logg := logger.New("service")
	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var pub coremqtt.Publisher = coremqtt.NopPublisher{}
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}
	history, err := planlog.Open(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	metrics.StartEventCollector(ctx, bus, sink)

	return &Service{
		cfg:     cfg,
		catalog: catalog,
		sink:    sink,
		pub:     pub,
		history: history,
		bus:     bus,
		log:     logg,
		cancel:  cancel,
	}, nil
}

// Plants lists the catalog's plant names.
func (s *Service) Plants() []string { return s.catalog.PlantNames() }

// Cities lists the catalog's city names.
func (s *Service) Cities() []string { return s.catalog.CityNames() }

func (s *Service) resolve(req PlanRequest) (model.Plant, model.CityClimate, model.SowMethod, error) {
	plant, ok := s.catalog.Plant(req.Plant)
	if !ok {
		return model.Plant{}, model.CityClimate{}, "", fmt.Errorf("%w: plant %q", ErrNotFound, req.Plant)
	}
	city, ok := s.catalog.City(req.City)
	if !ok {
		return model.Plant{}, model.CityClimate{}, "", fmt.Errorf("%w: city %q", ErrNotFound, req.City)
	}
	var method model.SowMethod
	if req.Method != "" {
		m, err := model.ParseSowMethod(req.Method)
		if err != nil {
			return model.Plant{}, model.CityClimate{}, "", err
		}
		method = m
	}
	return plant, city, method, nil
}

func (s *Service) newPlanner(req PlanRequest) (*planner.Planner, error) {
	plant, city, method, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	target := s.cfg.Planner.SeasonYieldTargetKg
	if req.YieldTargetKg > 0 {
		target = req.YieldTargetKg
	}
	return planner.New(planner.Request{
		Plant:               plant,
		City:                city,
		Method:              method,
		Year:                req.Year,
		Start:               req.Start,
		SeasonEnd:           req.SeasonEnd,
		Succession:          s.cfg.Planner.Succession,
		Policy:              s.cfg.Planner.Policy,
		SeasonYieldTargetKg: target,
	})
}

// Plan computes the succession schedule for the request, appends it to the
// history store and publishes it. Recording failures are logged, not
// returned: the schedule is already computed and still useful.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (planner.Schedule, error) {
	pl, err := s.newPlanner(req)
	if err != nil {
		return planner.Schedule{}, err
	}
	sched := pl.BuildSuccessionSchedule()
	now := time.Now().UTC()
	s.bus.Publish(events.PlanComputed{Schedule: sched, At: now})
	if err := s.history.Append(ctx, planlog.NewRecord(sched, now)); err != nil {
		s.log.Errorf("history append: %v", err)
	}
	if !sched.Empty() {
		if err := s.pub.PublishSchedule(ctx, sched); err != nil {
			s.log.Errorf("mqtt publish: %v", err)
		}
	}
	return sched, nil
}

// Window solves the feasible sowing window for the request's season.
func (s *Service) Window(_ context.Context, req PlanRequest) (planner.AutoWindow, error) {
	plant, city, method, err := s.resolve(req)
	if err != nil {
		return planner.AutoWindow{}, err
	}
	if method == "" {
		method = plant.AllowedSowingMethods()[0]
	}
	budget, err := plant.MaturityBudget()
	if err != nil {
		return planner.AutoWindow{}, err
	}
	env := plant.TemperatureEnvelope()
	policy := s.cfg.Planner.Policy
	windowDays := plant.HarvestWindowDays
	if o := s.cfg.Planner.Succession.HarvestWindowDays; o != nil {
		windowDays = *o
	}
	year := req.Year
	if year == 0 && !req.Start.IsZero() {
		year = req.Start.Year()
	}
	frost := planner.FrostOrdinal(city, policy.SpringFrostRisk)
	w, err := planner.ComputeAutoWindow(planner.AutoWindowParams{
		Year:              year,
		Method:            method,
		TransplantLagDays: plant.TransplantLagDays,
		Budget:            budget,
		HarvestWindowDays: windowDays,
		Env:               env,
		Rates:             city.DailyGDDRates(env.BaseC),
		Means:             city.MonthlyMeans(),
		SeasonEnd:         req.SeasonEnd,
		Policy:            policy,
		FrostDOY:          &frost,
		CoolingTrigC:      plant.CoolingTrigC,
		SoilMinC:          plant.SoilMinC,
		SuccessionEnabled: s.cfg.Planner.Succession.Enabled,
	})
	if err != nil {
		return planner.AutoWindow{}, err
	}
	s.bus.Publish(events.WindowSolved{Plant: plant.Name, City: city.Name, Window: w, At: time.Now().UTC()})
	return w, nil
}

// Explain returns the day-by-day verdicts across the request's season.
func (s *Service) Explain(_ context.Context, req PlanRequest) ([]planner.DayEntry, error) {
	pl, err := s.newPlanner(req)
	if err != nil {
		return nil, err
	}
	entries := pl.ExplainSeason()
	c := pl.Context()
	s.bus.Publish(events.SeasonExplained{
		Plant:   c.PlantName,
		City:    c.CityName,
		Entries: entries,
		At:      time.Now().UTC(),
	})
	return entries, nil
}

// History returns recorded plans matching the query.
func (s *Service) History(ctx context.Context, q planlog.LogQuery) ([]planlog.LogRecord, error) {
	return s.history.Query(ctx, q)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.cancel()
	s.bus.Close()
	err := s.history.Close()
	if cerr := s.pub.Close(); err == nil {
		err = cerr
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return err
}
