package bridge

import (
	"context"
	"fmt"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

// JobDispatcher submits a dispatch request to the job service.
type JobDispatcher interface {
	Dispatch(ctx context.Context, prompt string, agent core.Profile) (core.Job, error)
}

// DefaultBuildingProfiles maps each building type to the profile a
// building-targeted dispatch routes to.
var DefaultBuildingProfiles = map[core.BuildingType]core.Profile{
	core.BuildingHeadquarters: core.ProfileRichard,
	core.BuildingBarracks:     core.ProfileGilfoyle,
	core.BuildingMarket:       core.ProfileMonica,
	core.BuildingAcademy:      core.ProfileJared,
	core.BuildingFortress:     core.ProfileDinesh,
}

// Target identifies what the operator had selected when submitting a prompt.
// At most one of Unit and Building is set; neither means fan-out.
type Target struct {
	Unit     core.Profile
	Building core.BuildingType
}

// Dispatcher routes operator prompts to dispatch requests.
type Dispatcher struct {
	Jobs     JobDispatcher
	Profiles map[core.BuildingType]core.Profile
}

func NewDispatcher(jobs JobDispatcher) *Dispatcher {
	return &Dispatcher{Jobs: jobs, Profiles: DefaultBuildingProfiles}
}

// Dispatch submits one request per routed target: a selected unit's profile,
// a building type's table entry, or villagers-many villager dispatches when
// nothing is selected. The prompt text is passed through unchanged. The
// first service error stops the fan-out; jobs already created are returned
// alongside it.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target, prompt string, villagers int) ([]core.Job, error) {
	switch {
	case target.Unit != "":
		job, err := d.Jobs.Dispatch(ctx, prompt, target.Unit)
		if err != nil {
			return nil, err
		}
		return []core.Job{job}, nil

	case target.Building != "":
		profile, ok := d.Profiles[target.Building]
		if !ok {
			return nil, fmt.Errorf("no profile mapped for building type %q", target.Building)
		}
		job, err := d.Jobs.Dispatch(ctx, prompt, profile)
		if err != nil {
			return nil, err
		}
		return []core.Job{job}, nil

	default:
		if villagers < 1 {
			villagers = 1
		}
		jobs := make([]core.Job, 0, villagers)
		for i := 0; i < villagers; i++ {
			job, err := d.Jobs.Dispatch(ctx, prompt, core.ProfileVillager)
			if err != nil {
				return jobs, err
			}
			jobs = append(jobs, job)
		}
		return jobs, nil
	}
}
