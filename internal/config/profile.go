package config

import (
	"github.com/inkstone-ai/quorum/internal/redflag"
	"github.com/inkstone-ai/quorum/internal/task"
)

// ProfileFor merges a task class's default profile with any override from
// the loaded config. When the config carries model parameters, the margin
// is derived from them; an explicit k override wins over derivation.
func (c *ProjectConfig) ProfileFor(kind task.Kind, steps int) (task.Profile, error) {
	p := task.DefaultProfile(kind)

	if c.Model.P > 0 && c.Model.Target > 0 && steps > 0 {
		derived, err := p.DeriveMargin(c.Model.P, steps, c.Model.Target)
		if err != nil {
			return p, err
		}
		p = derived
	}

	o, ok := c.Tasks[string(kind)]
	if !ok {
		return p, nil
	}
	if o.K > 0 {
		p.K = o.K
	}
	if o.MaxRounds > 0 {
		p.MaxRounds = o.MaxRounds
	}
	if o.MaxTokens > 0 {
		p.MaxTokens = o.MaxTokens
	}
	if len(o.Checks) > 0 {
		p.Checks = p.Checks[:0]
		for _, c := range o.Checks {
			p.Checks = append(p.Checks, redflag.Check(c))
		}
	}
	return p, nil
}
