package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/pebbledraw/internal/clipboard"
	"github.com/example/pebbledraw/internal/notify"
	"github.com/example/pebbledraw/internal/palette"
	"github.com/example/pebbledraw/internal/session"
	"github.com/example/pebbledraw/internal/theme"
)

// ProgramTitle is shown in the title bar and used as the default window title.
const ProgramTitle = "pebbledraw"

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 2 * time.Second

// ErrWindowClosed is returned by Do once the window has gone away.
var ErrWindowClosed = errors.New("window closed")

// AppState holds application configuration for the UI.
type AppState struct {
	Session  *session.Session
	Output   string
	Open     string
	Title    string
	Theme    *theme.Theme
	Notifier *notify.Notifier

	mu          sync.Mutex
	sendControl func(controlEvent)
	ready       chan struct{}
	closed      chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession draws into an existing session.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithOutput sets the file written by the save action.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithOpen imports the named image once the window is up.
func WithOpen(path string) Option { return func(a *AppState) { a.Open = path } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithTheme sets the chrome colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier reports save, copy and import results through n.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

func New(opts ...Option) *AppState {
	a := &AppState{
		Output: session.DefaultExportName,
		Title:  ProgramTitle,
		ready:  make(chan struct{}),
		closed: make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Session == nil {
		s, err := session.New(session.DefaultOptions())
		if err != nil {
			log.Fatalf("new session: %v", err)
		}
		a.Session = s
	}
	return a
}

type controlEvent struct {
	run  func(*session.Session)
	done chan struct{}
}

// importEvent carries a finished decode back onto the event loop.
type importEvent struct {
	source string
	res    session.ImportResult
}

// Do runs fn against the session on the UI event loop and waits for it to
// finish. Before the window opens fn runs on the calling goroutine.
func (a *AppState) Do(fn func(*session.Session)) error {
	select {
	case <-a.closed:
		return ErrWindowClosed
	default:
	}
	a.mu.Lock()
	sender := a.sendControl
	a.mu.Unlock()
	if sender == nil {
		fn(a.Session)
		return nil
	}
	done := make(chan struct{})
	sender(controlEvent{run: fn, done: done})
	select {
	case <-done:
		return nil
	case <-a.closed:
		return ErrWindowClosed
	}
}

// SelectColor picks a palette entry from outside the UI.
func (a *AppState) SelectColor(index int) error {
	var err error
	if derr := a.Do(func(s *session.Session) { err = s.SelectColor(index) }); derr != nil {
		return derr
	}
	return err
}

// Ready is closed once the window is up and Do runs on its event loop.
func (a *AppState) Ready() <-chan struct{} { return a.ready }

// Done is closed once the window has gone away.
func (a *AppState) Done() <-chan struct{} { return a.closed }

func (a *AppState) setControlSender(fn func(controlEvent)) {
	a.mu.Lock()
	a.sendControl = fn
	a.mu.Unlock()
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setControlSender(nil)
		a.Session.Close()
		close(a.closed)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	sess := a.Session
	th := a.Theme
	output := a.Output
	var colors []color.RGBA
	for _, row := range sess.Palette().Rows() {
		colors = append(colors, row...)
	}

	type command struct {
		label, action string
	}
	commands := []command{
		{"Undo", "undo"}, {"Redo", "redo"}, {"Clear", "clear"},
		{"Save", "save"}, {"Copy", "copy"}, {"Paste", "paste"},
	}
	labels := make([]string, len(commands))
	for i, c := range commands {
		labels[i] = c.label
	}
	layout := newLayout(sess.Image().Bounds().Size(), sess.Palette(), ProgramTitle, labels)

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: layout.Width, Height: layout.Height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	a.setControlSender(func(ev controlEvent) { w.Send(ev) })
	close(a.ready)

	var message string
	var messageUntil time.Time
	var messageTimer *time.Timer
	defer func() {
		if messageTimer != nil {
			messageTimer.Stop()
		}
	}()
	say := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(messageDuration)
		log.Print(msg)
		if messageTimer != nil {
			messageTimer.Stop()
		}
		messageTimer = time.AfterFunc(messageDuration+50*time.Millisecond, func() { w.Send(paint.Event{}) })
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	bd := &backdrop{}
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, bd, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	cancelPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	deliver := func(source string) func(session.ImportResult) {
		return func(res session.ImportResult) { w.Send(importEvent{source: source, res: res}) }
	}
	importFile := func(path string) {
		f, err := os.Open(path)
		if err != nil {
			deliver(path)(session.ImportResult{Err: err})
			return
		}
		sess.StartImport(f, deliver(path))
	}

	actions := map[string]func(){}
	keys := keymap{}
	register := func(name string, sc KeyboardShortcuts, fn func()) {
		actions[name] = fn
		keys.bind(name, sc)
	}
	quit := false

	register("undo", shortcutList{
		{Rune: 'z', Modifiers: key.ModControl},
		{Code: key.CodeZ, Modifiers: key.ModControl},
	}, func() {
		if !sess.Undo() {
			say("nothing to undo")
		}
	})
	register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Code: key.CodeY, Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
	}, func() {
		if !sess.Redo() {
			say("nothing to redo")
		}
	})
	register("clear", shortcutList{
		{Rune: 'l', Modifiers: key.ModControl},
		{Code: key.CodeL, Modifiers: key.ModControl},
	}, sess.Clear)
	register("save", shortcutList{
		{Rune: 's', Modifiers: key.ModControl},
		{Code: key.CodeS, Modifiers: key.ModControl},
	}, func() {
		if err := sess.ExportFile(output); err != nil {
			log.Printf("save: %v", err)
			a.Notifier.Failed(notify.EventExport, output, err)
			say("save failed")
			return
		}
		a.Notifier.Export(output)
		say(fmt.Sprintf("saved %s", output))
	})
	register("copy", shortcutList{
		{Rune: 'c', Modifiers: key.ModControl},
		{Code: key.CodeC, Modifiers: key.ModControl},
	}, func() {
		img := cloneRGBA(sess.Image())
		if err := clipboard.WriteImage(img); err != nil {
			log.Printf("copy: %v", err)
			a.Notifier.Failed(notify.EventCopy, "drawing", err)
			say("copy failed")
			return
		}
		a.Notifier.Copy("drawing", img)
		say("image copied to clipboard")
	})
	register("paste", shortcutList{
		{Rune: 'v', Modifiers: key.ModControl},
		{Code: key.CodeV, Modifiers: key.ModControl},
	}, func() {
		go func() {
			img, err := clipboard.ReadImage()
			deliver("clipboard")(session.ImportResult{Image: img, Format: "png", Err: err})
		}()
	})
	register("quit", shortcutList{{Rune: 'q'}, {Code: key.CodeQ}}, func() { quit = true })

	buttons := make([]*CacheButton, len(commands))
	for i, c := range commands {
		fn := actions[c.action]
		buttons[i] = &CacheButton{Button: &CommandButton{label: c.label, theme: th, rect: layout.Buttons[i], onActivate: fn}}
	}

	shortcuts := []Shortcut{
		{label: "^Z:undo", action: actions["undo"]},
		{label: "^Y:redo", action: actions["redo"]},
		{label: "^L:clear", action: actions["clear"]},
		{label: "^S:save", action: actions["save"]},
		{label: "^C:copy", action: actions["copy"]},
		{label: "^V:paste", action: actions["paste"]},
		{label: "Q:quit", action: actions["quit"]},
	}
	placeShortcuts := func() {
		labels := make([]string, len(shortcuts))
		for i := range shortcuts {
			labels[i] = shortcuts[i].label
		}
		for i, r := range layout.shortcutRects(labels) {
			shortcuts[i].rect = r
		}
	}
	placeShortcuts()

	hoverButton, hoverSwatch, hoverShortcut := -1, -1, -1
	var lastX, lastY float64

	if a.Open != "" {
		importFile(a.Open)
	}

	for {
		if quit {
			cancelPaint()
			return
		}
		switch e := w.NextEvent().(type) {
		case controlEvent:
			if e.run != nil {
				e.run(sess)
			}
			if e.done != nil {
				close(e.done)
			}
			w.Send(paint.Event{})
		case importEvent:
			if err := sess.ApplyImport(e.res); err != nil {
				log.Printf("import %s: %v", e.source, err)
				a.Notifier.Failed(notify.EventImport, e.source, err)
				if errors.Is(err, clipboard.ErrNoImage) {
					say("clipboard has no image")
				} else {
					say("import failed")
				}
			} else {
				a.Notifier.Import(e.source)
				say(fmt.Sprintf("imported %s", e.source))
			}
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				cancelPaint()
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && sess.Drawing() {
				sess.PointerLeave(lastX, lastY)
				w.Send(paint.Event{})
			}
		case size.Event:
			layout = layout.withSize(e.WidthPx, e.HeightPx)
			placeShortcuts()
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()

			canvas := image.NewRGBA(sess.Image().Bounds())
			sess.View().Present(canvas, canvas.Bounds())
			states := make([]ButtonState, len(buttons))
			for i := range buttons {
				switch {
				case commands[i].action == "undo" && !sess.CanUndo(),
					commands[i].action == "redo" && !sess.CanRedo():
					states[i] = StateDisabled
				case i == hoverButton:
					states[i] = StateHover
				}
			}
			sc := make([]Shortcut, len(shortcuts))
			copy(sc, shortcuts)
			cur := sess.Color()
			st := paintState{
				layout:        layout,
				theme:         th,
				canvas:        canvas,
				buttons:       buttons,
				buttonStates:  states,
				colors:        colors,
				selected:      sess.Palette().IndexOf(cur),
				hoverSwatch:   hoverSwatch,
				shortcuts:     sc,
				hoverShortcut: hoverShortcut,
				status:        statusText(cur, sess),
			}
			if message != "" && time.Now().Before(messageUntil) {
				st.message = message
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			x, y := layout.Origin().Local(float64(e.X), float64(e.Y))
			if e.Direction == mouse.DirPress && time.Now().Before(messageUntil) {
				messageUntil = time.Time{}
			}
			if sess.Drawing() {
				switch {
				case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
					if p.In(layout.Canvas) {
						sess.PointerMove(x, y)
					}
					sess.PointerUp()
				case e.Direction == mouse.DirNone:
					if p.In(layout.Canvas) {
						sess.PointerMove(x, y)
					} else {
						sess.PointerLeave(x, y)
					}
				}
				lastX, lastY = x, y
				w.Send(paint.Event{})
				continue
			}
			lastX, lastY = x, y

			reg, idx := layout.hit(p)
			prevButton, prevSwatch, prevShortcut := hoverButton, hoverSwatch, hoverShortcut
			hoverButton, hoverSwatch, hoverShortcut = -1, -1, -1
			press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
			switch reg {
			case regionCanvas:
				if press {
					sess.PointerDown(x, y)
				}
			case regionButton:
				hoverButton = idx
				if press {
					buttons[idx].Activate()
				}
			case regionSwatch:
				hoverSwatch = idx
				if press {
					if err := sess.SelectColor(idx); err != nil {
						log.Printf("select color: %v", err)
					}
				}
			case regionStatus:
				for i := range shortcuts {
					if p.In(shortcuts[i].rect) {
						hoverShortcut = i
						if press {
							shortcuts[i].Activate()
						}
						break
					}
				}
			}
			if press || prevButton != hoverButton || prevSwatch != hoverSwatch || prevShortcut != hoverShortcut {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if name, ok := keys.lookup(e); ok {
				actions[name]()
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

// statusText describes the current color and line mode for the bottom bar.
func statusText(c color.RGBA, sess *session.Session) string {
	hex := palette.Hex(c)
	if name := palette.Name(c); name != hex {
		hex += " " + name
	}
	return fmt.Sprintf("%s  %s", hex, sess.Mode())
}

type paintState struct {
	layout        Layout
	theme         *theme.Theme
	canvas        *image.RGBA
	buttons       []*CacheButton
	buttonStates  []ButtonState
	colors        []color.RGBA
	selected      int
	hoverSwatch   int
	shortcuts     []Shortcut
	hoverShortcut int
	status        string
	message       string
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, bd *backdrop, st paintState) {
	l := st.layout
	th := st.theme
	b, err := s.NewBuffer(image.Point{l.Width, l.Height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, titleHeight, l.Toolbar, l.Height-bottomHeight), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	bd.draw(dst, l.Canvas, th)
	draw.Draw(dst, l.Canvas, st.canvas, st.canvas.Bounds().Min, draw.Over)
	if ctx.Err() != nil {
		return
	}

	drawTitle(dst, l, th, ProgramTitle)
	for i, cb := range st.buttons {
		cb.Draw(dst, st.buttonStates[i])
	}
	drawSwatches(dst, l, th, st.colors, st.selected, st.hoverSwatch)
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, l.Status(), &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	for i := range st.shortcuts {
		state := StateDefault
		if i == st.hoverShortcut {
			state = StateHover
		}
		st.shortcuts[i].draw(dst, th, state)
	}
	drawStatus(dst, l, th, st.status)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" {
		drawMessage(dst, l.Width, l.Height, th, st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
