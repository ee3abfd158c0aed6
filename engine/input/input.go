package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// State tracks mouse and keyboard state per frame
type State struct {
	// Mouse
	MouseX, MouseY    int
	MouseDX, MouseDY  int // delta since last frame
	prevMouseX        int
	prevMouseY        int
	LeftPressed       bool
	RightPressed      bool
	LeftJustPressed   bool
	RightJustPressed  bool
	LeftJustReleased  bool
	RightJustReleased bool
	ScrollY           float64

	// Drag (middle or held-left camera pan)
	DragStartX, DragStartY int
	Dragging               bool
	DragThreshold          int

	KeysPressed map[ebiten.Key]bool
}

func New() *State {
	return &State{
		DragThreshold: 5,
		KeysPressed:   make(map[ebiten.Key]bool),
	}
}

// watchedKeys is the set polled every frame: camera pan, placement menu
// digits, report/export shortcuts.
var watchedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeyEscape,
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.KeyF12,
}

// Update should be called once at the top of every frame
func (s *State) Update() {
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.RightJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.RightJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight)
	s.LeftPressed = leftDown
	s.RightPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	_, scrollY := ebiten.Wheel()
	s.ScrollY = scrollY

	s.trackDrag(s.LeftJustPressed, leftDown)

	for _, k := range watchedKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
	}
}

// trackDrag decides click vs camera drag: a click only counts as a click if
// the cursor stayed inside the threshold. Dragging is cleared on the next
// press, not on release, so the release frame still reads as a drag.
func (s *State) trackDrag(justPressed, down bool) {
	if justPressed {
		s.DragStartX = s.MouseX
		s.DragStartY = s.MouseY
		s.Dragging = false
	}
	if down && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
}

// JustPressed returns true if key was pressed this frame
func (s *State) JustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// PanVector maps WASD/arrow keys to a camera pan direction.
func (s *State) PanVector() (dx, dy float64) {
	if s.KeysPressed[ebiten.KeyA] || s.KeysPressed[ebiten.KeyLeft] {
		dx -= 1
	}
	if s.KeysPressed[ebiten.KeyD] || s.KeysPressed[ebiten.KeyRight] {
		dx += 1
	}
	if s.KeysPressed[ebiten.KeyW] || s.KeysPressed[ebiten.KeyUp] {
		dy -= 1
	}
	if s.KeysPressed[ebiten.KeyS] || s.KeysPressed[ebiten.KeyDown] {
		dy += 1
	}
	return dx, dy
}
