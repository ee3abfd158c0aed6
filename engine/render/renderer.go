package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
	"github.com/unarmedpuppy/command-grid/engine/scene"
)

// ProfileColors tints each unit profile (placeholder until real sprite
// sheets are baked in).
var ProfileColors = map[core.Profile]color.RGBA{
	core.ProfileGilfoyle: {180, 60, 60, 255},
	core.ProfileDinesh:   {60, 120, 200, 255},
	core.ProfileRichard:  {90, 170, 90, 255},
	core.ProfileJared:    {200, 170, 70, 255},
	core.ProfileMonica:   {170, 90, 180, 255},
	core.ProfileVillager: {150, 150, 150, 255},
}

// BuildingColors tints each building type.
var BuildingColors = map[core.BuildingType]color.RGBA{
	core.BuildingHeadquarters: {70, 110, 180, 255},
	core.BuildingBarracks:     {140, 90, 50, 255},
	core.BuildingMarket:       {190, 150, 60, 255},
	core.BuildingAcademy:      {90, 160, 170, 255},
	core.BuildingFortress:     {110, 110, 120, 255},
}

var statusColors = map[core.UnitStatus]color.RGBA{
	core.UnitIdle:        {220, 220, 220, 255},
	core.UnitWalking:     {120, 190, 255, 255},
	core.UnitWorking:     {120, 230, 120, 255},
	core.UnitCelebrating: {255, 220, 90, 255},
	core.UnitError:       {255, 90, 90, 255},
}

// Renderer draws the scene each frame.
type Renderer struct {
	Camera *Camera
	Grid   grid.Grid

	tileImg *ebiten.Image
	elapsed float64 // drives the active-building pulse
}

// New creates an isometric renderer for a grid.
func New(screenW, screenH int, g grid.Grid) *Renderer {
	r := &Renderer{
		Camera: NewCamera(screenW, screenH),
		Grid:   g,
	}
	r.Camera.CenterOnCell(g, g.Size/2, g.Size/2)
	return r
}

// Advance progresses time-based visual effects.
func (r *Renderer) Advance(dt float64) {
	r.elapsed += dt
}

// Draw renders the whole frame: ground, hover highlight, entities in depth
// order, selection markers, labels.
func (r *Renderer) Draw(screen *ebiten.Image, sc *scene.Scene, hover grid.Cell, hoverValid bool) {
	r.drawGround(screen)
	if hoverValid {
		r.strokeDiamond(screen, hover, color.RGBA{255, 255, 255, 120}, 2)
	}

	for _, ent := range sc.DrawOrder() {
		switch {
		case ent.Building != nil:
			r.drawBuilding(screen, ent.Building, ent.Building == sc.SelectedBuilding())
		case ent.Unit != nil:
			r.drawUnit(screen, ent.Unit, ent.Unit == sc.SelectedUnit())
		}
	}
}

func (r *Renderer) drawGround(screen *ebiten.Image) {
	tile := r.groundTile()
	tw := float64(r.Grid.TileWidth) * r.Camera.Zoom
	for row := 0; row < r.Grid.Size; row++ {
		for col := 0; col < r.Grid.Size; col++ {
			wx, wy := r.Grid.TileToWorld(col, row)
			sx, sy := r.Camera.WorldToScreen(wx, wy)
			if sx < -tw || sx > float64(r.Camera.ScreenW)+tw ||
				sy < -tw || sy > float64(r.Camera.ScreenH)+tw {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(r.Camera.Zoom, r.Camera.Zoom)
			op.GeoM.Translate(sx-float64(r.Grid.TileWidth)/2*r.Camera.Zoom, sy)
			screen.DrawImage(tile, op)
		}
	}
}

// groundTile lazily builds the cached grass diamond.
func (r *Renderer) groundTile() *ebiten.Image {
	if r.tileImg != nil {
		return r.tileImg
	}
	tw := r.Grid.TileWidth
	th := r.Grid.TileHeight
	img := ebiten.NewImage(tw, th)

	hw := float32(tw) / 2
	hh := float32(th) / 2
	var path vector.Path
	path.MoveTo(hw, 0)
	path.LineTo(float32(tw), hh)
	path.LineTo(hw, float32(th))
	path.LineTo(0, hh)
	path.Close()

	clr := color.RGBA{58, 112, 58, 255}
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = 1
	}
	whiteImg := ebiten.NewImage(3, 3)
	whiteImg.Fill(color.White)
	img.DrawTriangles(vs, is, whiteImg, nil)

	edge := color.RGBA{0, 0, 0, 60}
	vector.StrokeLine(img, hw, 0, float32(tw), hh, 1, edge, false)
	vector.StrokeLine(img, float32(tw), hh, hw, float32(th), 1, edge, false)
	vector.StrokeLine(img, hw, float32(th), 0, hh, 1, edge, false)
	vector.StrokeLine(img, 0, hh, hw, 0, 1, edge, false)

	r.tileImg = img
	return img
}

func (r *Renderer) strokeDiamond(screen *ebiten.Image, c grid.Cell, clr color.RGBA, width float32) {
	pts := r.Grid.DiamondPoints(c.Col, c.Row)
	var sx [4]float32
	var sy [4]float32
	for i, p := range pts {
		x, y := r.Camera.WorldToScreen(p.X, p.Y)
		sx[i] = float32(x)
		sy[i] = float32(y)
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		vector.StrokeLine(screen, sx[i], sy[i], sx[j], sy[j], width, clr, false)
	}
}

func (r *Renderer) drawBuilding(screen *ebiten.Image, b *core.Building, selected bool) {
	clr, ok := BuildingColors[b.Type]
	if !ok {
		clr = color.RGBA{255, 0, 255, 255}
	}
	alpha := float32(1.0)
	if b.Status == core.BuildingActive {
		// Looping alpha pulse while the building is active.
		alpha = 0.7 + 0.3*float32(math.Sin(r.elapsed*4))
	}

	wx, wy := r.Grid.TileToWorld(b.Cell.Col, b.Cell.Row)
	sx, sy := r.Camera.WorldToScreen(wx, wy)
	zoom := float32(r.Camera.Zoom)
	w := float32(r.Grid.TileWidth) * zoom
	h := float32(r.Grid.TileHeight) * 2 * zoom

	// Shadow under the footprint.
	for _, fc := range b.Footprint() {
		r.fillDiamond(screen, fc, color.RGBA{0, 0, 0, 50})
	}

	vector.DrawFilledRect(screen, float32(sx)-w/2, float32(sy)-h*0.75, w, h, scaleAlpha(clr, alpha), false)
	if selected {
		for _, fc := range b.Footprint() {
			r.strokeDiamond(screen, fc, color.RGBA{0, 255, 0, 200}, 2)
		}
	}

	label := b.Name
	lw := font.MeasureString(labelFace, label).Ceil()
	lx := int(sx) - lw/2
	ly := int(float32(sy) - h*0.75 - 6)
	text.Draw(screen, label, labelFace, lx, ly, color.White)
}

var labelFace = basicfont.Face7x13

func (r *Renderer) drawUnit(screen *ebiten.Image, u *core.Unit, selected bool) {
	clr, ok := ProfileColors[u.Profile]
	if !ok {
		clr = color.RGBA{255, 0, 255, 255}
	}
	// Fractional position while walking.
	wx, wy := fractionalWorld(r.Grid, u.X, u.Y)
	sx, sy := r.Camera.WorldToScreen(wx, wy+float64(r.Grid.TileHeight)/2)
	zoom := float32(r.Camera.Zoom)
	radius := 8 * zoom

	// Shadow.
	vector.DrawFilledCircle(screen, float32(sx), float32(sy)+radius*0.6, radius*0.8, color.RGBA{0, 0, 0, 60}, false)

	// Body, bobbing through the animation frames.
	bob := float32(0)
	if u.Anim.Clip == core.UnitWalking || u.Anim.Clip == core.UnitCelebrating {
		bob = 2 * zoom * float32(math.Abs(math.Sin(float64(u.Anim.Frame)*math.Pi/4)))
	}
	vector.DrawFilledCircle(screen, float32(sx), float32(sy)-radius-bob, radius, clr, false)

	// Status ring.
	ring := statusColors[u.Status]
	vector.StrokeCircle(screen, float32(sx), float32(sy)-radius-bob, radius+2, 1.5, ring, false)

	if selected {
		vector.StrokeCircle(screen, float32(sx), float32(sy)-radius-bob, radius+5, 2, color.RGBA{0, 255, 0, 220}, false)
	}

	ebitenutil.DebugPrintAt(screen, string(u.Profile), int(sx)-len(u.Profile)*3, int(sy)+4)
}

func (r *Renderer) fillDiamond(screen *ebiten.Image, c grid.Cell, clr color.RGBA) {
	pts := r.Grid.DiamondPoints(c.Col, c.Row)
	var path vector.Path
	for i, p := range pts {
		x, y := r.Camera.WorldToScreen(p.X, p.Y)
		if i == 0 {
			path.MoveTo(float32(x), float32(y))
		} else {
			path.LineTo(float32(x), float32(y))
		}
	}
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}
	whiteImg := ebiten.NewImage(3, 3)
	whiteImg.Fill(color.White)
	screen.DrawTriangles(vs, is, whiteImg, nil)
}

// fractionalWorld projects a fractional cell position into world space.
func fractionalWorld(g grid.Grid, col, row float64) (float64, float64) {
	hw := float64(g.TileWidth) / 2
	hh := float64(g.TileHeight) / 2
	return (col - row) * hw, (col + row) * hh
}

func scaleAlpha(c color.RGBA, a float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * a),
		G: uint8(float32(c.G) * a),
		B: uint8(float32(c.B) * a),
		A: uint8(float32(c.A) * a),
	}
}
