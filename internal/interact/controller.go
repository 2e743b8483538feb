package interact

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/lorastack/internal/layout"
	"github.com/javiermolinar/lorastack/internal/slot"
)

// Defaults for Options.
const (
	DefaultDragScale         = 0.01
	DefaultDragThreshold     = 2.0
	DefaultDoubleClickWindow = 500 * time.Millisecond
	DefaultArrowStep         = 0.05
)

// State is the pointer state of the controller.
type State int

const (
	StateIdle     State = iota
	StateArmed          // Pressed, not yet a drag
	StateDragging       // Adjusting a strength value
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Options configures a Controller.
type Options struct {
	// DragScale is the strength change per pixel of displacement from the press
	// point, applied on every move event. The total change therefore depends on
	// how many move events the host delivers, not only on the distance.
	DragScale float64
	// DragThreshold is the horizontal distance a press must travel to become a drag.
	DragThreshold float64
	// DoubleClickWindow is the maximum delay between two presses of a double click.
	DoubleClickWindow time.Duration
	// ArrowStep is the strength change of one arrow click.
	ArrowStep float64
	// Now is used for events without a timestamp.
	Now func() time.Time
	// Trace, if set, receives controller events for debugging.
	Trace func(event string, data map[string]any)
}

func (o Options) withDefaults() Options {
	if o.DragScale == 0 {
		o.DragScale = DefaultDragScale
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if o.DoubleClickWindow <= 0 {
		o.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if o.ArrowStep <= 0 {
		o.ArrowStep = DefaultArrowStep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// gesture is the press being tracked between press and release.
type gesture struct {
	row    layout.RowKind
	id     uint64 // Record ID for slot rows
	zone   layout.Zone
	startX float64
}

// lastPress remembers the previous press on a value field for double clicks.
type lastPress struct {
	valid bool
	id    uint64
	zone  layout.Zone
	at    time.Time
}

// editSession is an open numeric editor.
type editSession struct {
	id    uint64
	which slot.Which
	done  bool
}

// Controller is the per-widget pointer state machine. It addresses records by
// ID so gestures and pending callbacks survive reorders and are dropped when
// their record disappears. It never returns errors to the host.
type Controller struct {
	store *slot.Store
	hit   layout.HitTester
	host  Host
	names NameSource
	opts  Options

	width float64

	state State
	g     gesture
	last  lastPress
	edit  *editSession

	unsubscribe func()
}

// New creates a controller bound to store. It subscribes to store changes to
// cancel gestures whose record is removed or replaced; call Close to detach.
func New(store *slot.Store, hit layout.HitTester, host Host, names NameSource, opts Options) *Controller {
	c := &Controller{
		store: store,
		hit:   hit,
		host:  host,
		names: names,
		opts:  opts.withDefaults(),
	}
	c.unsubscribe = store.Subscribe(c.onStoreChange)
	return c
}

// Close detaches the controller from its store.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// SetWidth sets the row width used for zone computation.
func (c *Controller) SetWidth(width float64) {
	c.width = width
}

// State returns the current pointer state.
func (c *Controller) State() State {
	return c.state
}

// Editing reports whether a numeric editor session is open.
func (c *Controller) Editing() bool {
	return c.edit != nil && !c.edit.done
}

// Dragging returns the record ID and zone of the value being dragged.
func (c *Controller) Dragging() (uint64, layout.Zone, bool) {
	if c.state != StateDragging {
		return 0, layout.ZoneNone, false
	}
	return c.g.id, c.g.zone, true
}

// Pointer feeds one pointer event to the state machine.
func (c *Controller) Pointer(ev PointerEvent) {
	if ev.At.IsZero() {
		ev.At = c.opts.Now()
	}
	if c.Editing() {
		c.trace("pointer_dropped", map[string]any{"reason": "editing", "kind": ev.Kind.String()})
		return
	}
	switch ev.Kind {
	case PointerPress:
		c.press(ev)
	case PointerMove:
		c.move(ev)
	case PointerRelease:
		c.release(ev)
	}
}

// Key handles a key press. It returns true if the key was consumed.
func (c *Controller) Key(ev KeyEvent) bool {
	switch ev.Key {
	case KeyEscape:
		if c.Editing() {
			c.cancelEdit(c.edit)
			return true
		}
		if c.state != StateIdle {
			c.reset("escape")
			return true
		}
	case KeyEnter:
		if !c.Editing() {
			return false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(ev.Text), 64)
		if err != nil || math.IsNaN(v) {
			c.trace("edit_invalid", map[string]any{"text": ev.Text})
			c.cancelEdit(c.edit)
			return true
		}
		c.confirmEdit(c.edit, v)
		return true
	}
	return false
}

func (c *Controller) press(ev PointerEvent) {
	c.reset("press")

	h, ok := c.hitTest(ev)
	if !ok {
		return
	}

	if ev.Button == ButtonRight {
		if h.Row.Kind == layout.RowSlot {
			c.openContextMenu(h.Row.Index)
		}
		return
	}

	g := gesture{row: h.Row.Kind, zone: h.Zone, startX: ev.X}
	switch h.Row.Kind {
	case layout.RowHeader:
		if h.Zone != layout.ZoneToggle {
			return
		}
	case layout.RowAdd:
	case layout.RowSlot:
		if h.Zone == layout.ZoneNone {
			return
		}
		r, ok := c.store.At(h.Row.Index)
		if !ok {
			return
		}
		g.id = r.ID
		if h.Zone.IsValue() {
			if c.isDoubleClick(r.ID, h.Zone, ev.At) {
				c.last = lastPress{}
				c.openEditor(r.ID, c.whichFor(h.Zone))
				return
			}
			c.last = lastPress{valid: true, id: r.ID, zone: h.Zone, at: ev.At}
		}
	}

	c.g = g
	c.setState(StateArmed)
}

func (c *Controller) move(ev PointerEvent) {
	switch c.state {
	case StateArmed:
		if c.g.row != layout.RowSlot || !c.g.zone.IsValue() {
			return
		}
		if math.Abs(ev.X-c.g.startX) <= c.opts.DragThreshold {
			return
		}
		// A drag is not the first half of a double click.
		c.last = lastPress{}
		c.setState(StateDragging)
		c.drag(ev)
	case StateDragging:
		c.drag(ev)
	}
}

// drag advances the dragged value by the displacement from the press point,
// so holding the pointer further away adjusts faster.
func (c *Controller) drag(ev PointerEvent) {
	idx := c.store.IndexOf(c.g.id)
	if idx < 0 {
		c.reset("record gone")
		return
	}
	delta := (ev.X - c.g.startX) * c.opts.DragScale
	if delta == 0 {
		return
	}
	if _, err := c.store.AdjustStrength(idx, c.whichFor(c.g.zone), delta); err != nil {
		c.trace("drag_failed", map[string]any{"err": err.Error()})
	}
}

func (c *Controller) release(ev PointerEvent) {
	state, g := c.state, c.g
	c.reset("release")
	if state != StateArmed {
		return
	}

	h, ok := c.hitTest(ev)
	if !ok || h.Row.Kind != g.row || h.Zone != g.zone {
		return
	}

	switch g.row {
	case layout.RowHeader:
		c.apply("toggle_all", c.store.SetAllEnabled(!c.store.AllOn()))
	case layout.RowAdd:
		c.openAddMenu()
	case layout.RowSlot:
		idx := c.store.IndexOf(g.id)
		if idx < 0 || idx != h.Row.Index {
			c.trace("click_dropped", map[string]any{"id": g.id})
			return
		}
		c.click(idx, g.zone)
	}
}

func (c *Controller) click(idx int, zone layout.Zone) {
	switch {
	case zone == layout.ZoneToggle:
		c.apply("toggle", c.store.ToggleEnabled(idx))
	case zone == layout.ZoneName:
		c.openSelectMenu(idx)
	case zone.Step() != 0:
		_, err := c.store.AdjustStrength(idx, c.whichFor(zone), float64(zone.Step())*c.opts.ArrowStep)
		c.apply("arrow", err)
	}
}

func (c *Controller) isDoubleClick(id uint64, zone layout.Zone, at time.Time) bool {
	if !c.last.valid || c.last.id != id || c.last.zone != zone {
		return false
	}
	d := at.Sub(c.last.at)
	return d >= 0 && d <= c.opts.DoubleClickWindow
}

// whichFor maps a strength zone to the scalar it edits in the current mode.
func (c *Controller) whichFor(zone layout.Zone) slot.Which {
	if c.store.Mode() == slot.ModeSingle {
		return slot.Primary
	}
	return zone.Which()
}

func (c *Controller) openEditor(id uint64, which slot.Which) {
	idx := c.store.IndexOf(id)
	r, ok := c.store.At(idx)
	if !ok {
		return
	}
	initial, present := r.StrengthFor(which)
	if !present {
		initial = r.Strength
	}
	s := &editSession{id: id, which: which}
	c.edit = s
	c.trace("editor_open", map[string]any{"id": id, "which": which.String(), "initial": initial})
	c.host.OpenNumericEditor(initial,
		func(v float64) { c.confirmEdit(s, v) },
		func() { c.cancelEdit(s) },
	)
}

func (c *Controller) confirmEdit(s *editSession, v float64) {
	if s == nil || s.done {
		return
	}
	s.done = true
	if c.edit == s {
		c.edit = nil
	}
	idx := c.store.IndexOf(s.id)
	if idx < 0 {
		c.trace("edit_dropped", map[string]any{"id": s.id})
		return
	}
	_, err := c.store.SetStrength(idx, s.which, v)
	c.apply("edit_confirm", err)
}

func (c *Controller) cancelEdit(s *editSession) {
	if s == nil || s.done {
		return
	}
	s.done = true
	if c.edit == s {
		c.edit = nil
	}
	c.trace("edit_cancel", map[string]any{"id": s.id})
}

func (c *Controller) openSelectMenu(idx int) {
	r, ok := c.store.At(idx)
	if !ok {
		return
	}
	id := r.ID
	entries := BuildMenu(c.modelNames())
	c.host.OpenSelectionMenu(entries, func(name string) {
		if !selectable(entries, name) {
			return
		}
		i := c.store.IndexOf(id)
		if i < 0 {
			c.trace("select_dropped", map[string]any{"id": id})
			return
		}
		c.apply("select", c.store.SelectModel(i, name))
	})
}

func (c *Controller) openAddMenu() {
	entries := BuildMenu(c.modelNames())
	c.host.OpenSelectionMenu(entries, func(name string) {
		if !selectable(entries, name) {
			return
		}
		_, err := c.store.Insert(name)
		c.apply("insert", err)
	})
}

func (c *Controller) openContextMenu(idx int) {
	r, ok := c.store.At(idx)
	if !ok {
		return
	}
	id := r.ID
	// withIndex resolves the record at invocation time.
	withIndex := func(op string, fn func(int) error) func() {
		return func() {
			i := c.store.IndexOf(id)
			if i < 0 {
				c.trace("menu_dropped", map[string]any{"id": id, "op": op})
				return
			}
			c.apply(op, fn(i))
		}
	}

	label := "Enable"
	if r.Enabled {
		label = "Disable"
	}
	// The label fixes the intent even if the record changes while the menu is open.
	setEnabled := withIndex("set_enabled", func(i int) error {
		return c.store.SetEnabled(i, !r.Enabled)
	})
	items := []MenuItem{{
		Label:    label,
		OnInvoke: setEnabled,
	}}
	if idx > 0 {
		items = append(items, MenuItem{Label: "Move Up", OnInvoke: withIndex("move_up", c.store.MoveUp)})
	}
	if idx < c.store.Len()-1 {
		items = append(items, MenuItem{Label: "Move Down", OnInvoke: withIndex("move_down", c.store.MoveDown)})
	}
	items = append(items, MenuItem{Label: "Remove", OnInvoke: withIndex("remove", c.store.Remove)})
	c.host.OpenContextMenu(items)
}

func (c *Controller) modelNames() []string {
	if c.names == nil {
		return nil
	}
	return c.names.ModelNames()
}

func (c *Controller) hitTest(ev PointerEvent) (layout.Hit, bool) {
	p := layout.Point{X: ev.X, Y: ev.Y}
	return c.hit.Hit(p, c.width, c.store.Mode(), c.store.Len())
}

// onStoreChange cancels an in-flight gesture whose record was removed.
func (c *Controller) onStoreChange(ch slot.Change) {
	if c.state == StateIdle || c.g.row != layout.RowSlot {
		return
	}
	for _, id := range ch.Removed {
		if id == c.g.id {
			c.reset("record removed")
			return
		}
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.trace("state", map[string]any{"from": c.state.String(), "to": s.String()})
	c.state = s
}

func (c *Controller) reset(reason string) {
	if c.state != StateIdle {
		c.trace("gesture_end", map[string]any{"reason": reason})
	}
	c.state = StateIdle
	c.g = gesture{}
}

func (c *Controller) apply(op string, err error) {
	if err != nil {
		c.trace("op_failed", map[string]any{"op": op, "err": err.Error()})
	}
}

func (c *Controller) trace(event string, data map[string]any) {
	if c.opts.Trace != nil {
		c.opts.Trace(event, data)
	}
}

func selectable(entries []MenuEntry, name string) bool {
	if slot.IsNone(name) {
		return true
	}
	e, ok := FindEntry(entries, name)
	return ok && !e.Disabled
}
