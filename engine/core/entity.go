package core

import "github.com/unarmedpuppy/command-grid/engine/grid"

// Profile selects which animation/sprite set a unit uses and which agent
// persona a dispatch targets.
type Profile string

const (
	ProfileGilfoyle Profile = "gilfoyle"
	ProfileDinesh   Profile = "dinesh"
	ProfileRichard  Profile = "richard"
	ProfileJared    Profile = "jared"
	ProfileMonica   Profile = "monica"
	ProfileVillager Profile = "villager"
)

// Profiles lists every known profile in display order.
var Profiles = []Profile{
	ProfileGilfoyle, ProfileDinesh, ProfileRichard,
	ProfileJared, ProfileMonica, ProfileVillager,
}

// BuildingType is the closed set of work categories a building can represent.
type BuildingType string

const (
	BuildingHeadquarters BuildingType = "headquarters"
	BuildingBarracks     BuildingType = "barracks"
	BuildingMarket       BuildingType = "market"
	BuildingAcademy      BuildingType = "academy"
	BuildingFortress     BuildingType = "fortress"
)

// BuildingTypes lists every building type in placement-menu order.
var BuildingTypes = []BuildingType{
	BuildingHeadquarters, BuildingBarracks, BuildingMarket,
	BuildingAcademy, BuildingFortress,
}

// Render depth bases. The gap is smaller than one col+row step so position
// always dominates: an entity further down-and-right draws in front no
// matter its kind, and only at the same cell sum does a unit sit above a
// building.
const (
	BuildingDepthBase = 100
	UnitDepthBase     = 101
)

// Unit is an addressable actor tied to a dispatched job. Its status is
// mutated by the reconciliation pass only, never by rendering code; the one
// exception is the animator's celebrate/error auto-revert.
type Unit struct {
	ID      string
	Profile Profile
	Status  UnitStatus
	Cell    grid.Cell

	// Fractional position while walking, in cell units.
	X, Y float64

	Anim Animator

	// Last job status the bridge applied. The animator may fold Status
	// back to Idle when a terminal clip finishes; this field keeps
	// repeated identical snapshots from counting as a change and
	// restarting the clip.
	Job JobStatus

	Path    []grid.Cell
	PathIdx int
}

// NewUnit creates an idle unit at a cell.
func NewUnit(id string, profile Profile, cell grid.Cell) *Unit {
	return &Unit{
		ID:      id,
		Profile: profile,
		Status:  UnitIdle,
		Cell:    cell,
		X:       float64(cell.Col),
		Y:       float64(cell.Row),
		Anim:    NewAnimator(),
	}
}

// Depth returns the unit's painter's-algorithm render depth.
func (u *Unit) Depth() int { return grid.Depth(UnitDepthBase, u.Cell.Col, u.Cell.Row) }

// SetStatus applies an externally-driven status change and resets the
// animator clip. A no-op when the status is unchanged, so repeated identical
// syncs never restart an animation.
func (u *Unit) SetStatus(s UnitStatus) bool {
	if u.Status == s {
		return false
	}
	u.Status = s
	u.Anim.Start(s)
	return true
}

// ApplyJobStatus maps a polled job status onto the unit. A snapshot carrying
// the same job status as the last one applied is a no-op, even after the
// celebrate/error clip has auto-reverted the presentation to idle.
func (u *Unit) ApplyJobStatus(js JobStatus) bool {
	if u.Job == js {
		return false
	}
	u.Job = js
	return u.SetStatus(UnitStatusForJob(js))
}

// Building is a persistent work category placed once per type.
type Building struct {
	ID       string
	Type     BuildingType
	Status   BuildingStatus
	Cell     grid.Cell
	Name     string
	GroupKey string // external classification key, optional
}

// NewBuilding creates an idle building of a type at a cell.
func NewBuilding(id string, bt BuildingType, cell grid.Cell, name string) *Building {
	return &Building{ID: id, Type: bt, Status: BuildingIdle, Cell: cell, Name: name}
}

// Depth returns the building's painter's-algorithm render depth.
func (b *Building) Depth() int { return grid.Depth(BuildingDepthBase, b.Cell.Col, b.Cell.Row) }

// Footprint returns the cells the building occupies; these are blocked for
// pathfinding.
func (b *Building) Footprint() []grid.Cell {
	return []grid.Cell{
		b.Cell,
		{Col: b.Cell.Col + 1, Row: b.Cell.Row},
	}
}

// Job is the external job service's record, consumed read-only.
type Job struct {
	ID     string    `json:"id"`
	Agent  Profile   `json:"agent"`
	Status JobStatus `json:"status"`
}

// Task is the external task service's record, consumed read-only.
// BuildingType is optional; classification falls back on Type.
type Task struct {
	ID           string       `json:"id"`
	Status       TaskStatus   `json:"status"`
	Type         string       `json:"type"`
	BuildingType BuildingType `json:"building_type,omitempty"`
}
