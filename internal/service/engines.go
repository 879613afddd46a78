package service

import (
	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// EngineFactory строит движок доступности в часовом поясе специалиста
type EngineFactory struct {
	opts availability.Options
}

func NewEngineFactory(opts availability.Options) *EngineFactory {
	return &EngineFactory{opts: availability.NewEngine(opts).Options()}
}

func (f *EngineFactory) For(p *model.Professional) *availability.Engine {
	opts := f.opts
	opts.Location = p.Location(f.opts.Location)
	return availability.NewEngine(opts)
}

// Default движок с часовым поясом из конфига
func (f *EngineFactory) Default() *availability.Engine {
	return availability.NewEngine(f.opts)
}
