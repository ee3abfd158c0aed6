package core

// UnitStatus drives which animation set a unit presents.
type UnitStatus uint8

const (
	UnitIdle UnitStatus = iota
	UnitWalking
	UnitWorking
	UnitCelebrating
	UnitError
)

func (s UnitStatus) String() string {
	switch s {
	case UnitIdle:
		return "idle"
	case UnitWalking:
		return "walking"
	case UnitWorking:
		return "working"
	case UnitCelebrating:
		return "celebrating"
	case UnitError:
		return "error"
	}
	return "unknown"
}

// BuildingStatus toggles the active pulse on a building.
type BuildingStatus uint8

const (
	BuildingIdle BuildingStatus = iota
	BuildingActive
)

func (s BuildingStatus) String() string {
	if s == BuildingActive {
		return "active"
	}
	return "idle"
}

// JobStatus is the external job service's status enum, consumed read-only.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether a job can no longer change status.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// TaskStatus is the external task service's status enum, consumed read-only.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskClosed     TaskStatus = "CLOSED"
)

// UnitStatusForJob maps a polled job status onto the unit that carries it.
func UnitStatusForJob(s JobStatus) UnitStatus {
	switch s {
	case JobPending:
		return UnitWalking
	case JobRunning:
		return UnitWorking
	case JobCompleted:
		return UnitCelebrating
	case JobFailed, JobCancelled:
		return UnitError
	}
	return UnitIdle
}
