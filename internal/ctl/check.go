package ctl

import (
	"time"

	"github.com/okian/headlights/internal/config"
	"github.com/okian/headlights/internal/domain/classify"
	"github.com/okian/headlights/internal/domain/model"
)

// Classify runs the classifier on wire values.
func Classify(action, orig, dest string) model.EventType {
	return classify.Classify(model.RawEvent{
		Action: action,
		Orig:   model.ParseCode(orig),
		Dest:   model.ParseCode(dest),
	})
}

// Quiet reports whether at falls in quiet hours under cfg.
func Quiet(cfg config.QuietHours, at time.Time) (bool, error) {
	g, err := cfg.Gate()
	if err != nil {
		return false, err
	}
	return g.IsQuiet(at), nil
}
