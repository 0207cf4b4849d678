package tictactoe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

type moveService interface {
	Move(ctx context.Context, board entity.Board) (entity.Board, error)
}

type sessionStore interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
}

// Delays are the cosmetic pauses of the board. Zero values apply changes immediately.
type Delays struct {
	Think     time.Duration
	Highlight time.Duration
	Reset     time.Duration
}

// Controller runs one game session: it validates clicks, asks the Move Service for the
// opponent's move and pushes frames to its View.
type Controller struct {
	mu     sync.Mutex
	logger *slog.Logger

	session *entity.Session
	view    View
	moves   moveService
	store   sessionStore
	delays  Delays

	status       string
	tone         string
	inputEnabled bool
	highlight    []int

	// generation changes on every reset; responses from an older generation are dropped.
	generation    uint64
	cancelRequest context.CancelFunc

	onIdle func()
}

type opponentTurn struct {
	generation uint64
	board      entity.Board
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewGameController - creates a controller for session. store may be nil.
func NewGameController(logger *slog.Logger, session *entity.Session, moves moveService, store sessionStore, delays Delays) *Controller {
	if session == nil {
		session = entity.NewSession("")
	}

	status, tone := statusFor(session)

	return &Controller{
		logger:       logger.With("component", "controller", "session", session.ID),
		session:      session,
		moves:        moves,
		store:        store,
		delays:       delays,
		status:       status,
		tone:         tone,
		inputEnabled: !session.IsWaiting(),
		highlight:    append([]int(nil), session.Line...),
	}
}

// SetView - replaces the view and paints the current frame on it.
func (that *Controller) SetView(view View) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.view = view
	that.render()
}

// AttachView - replaces the view without painting; call Render once the caller is ready.
func (that *Controller) AttachView(view View) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.view = view
}

// OnIdle - registers fn to run after every opponent request finishes, outside the controller lock.
func (that *Controller) OnIdle(fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onIdle = fn
}

// Idle - reports whether nobody watches the session and no opponent move is pending.
func (that *Controller) Idle() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.view == nil && !that.session.IsWaiting()
}

// DetachView - drops view if it is still the current one.
func (that *Controller) DetachView(view View) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.view != view {
		return false
	}

	that.view = nil

	return true
}

// Render - paints the current frame on the view, if any.
func (that *Controller) Render() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.render()
}

// HandleCellClick - plays the player's mark on cell and, unless the game ended, waits for the
// opponent. It reports whether the click was accepted; rejected clicks change nothing.
func (that *Controller) HandleCellClick(ctx context.Context, cell int) bool {
	accepted, done := that.Click(ctx, cell)
	<-done

	return accepted
}

// Click - same as HandleCellClick but returns as soon as the player's move is applied.
// done is closed once the opponent's reply (if any) has been handled.
func (that *Controller) Click(ctx context.Context, cell int) (bool, <-chan struct{}) {
	done := make(chan struct{})

	that.mu.Lock()

	if !that.session.CanPlay(cell) {
		that.mu.Unlock()
		close(done)

		return false, done
	}

	that.session.Board[cell] = entity.PlayerX
	that.session.PlayerTurn = false
	that.inputEnabled = false
	that.status, that.tone = StatusThinking, ToneThinking

	if that.evaluateTerminal() {
		that.inputEnabled = true
		that.render()
		that.persist(ctx)
		that.mu.Unlock()
		close(done)

		return true, done
	}

	that.render()
	that.persist(ctx)

	turn := that.beginOpponentTurn(ctx)
	that.mu.Unlock()

	go func() {
		defer close(done)
		that.playOpponentTurn(ctx, turn)
	}()

	return true, done
}

// Resume - re-issues the opponent request of a session restored while waiting for it.
func (that *Controller) Resume(ctx context.Context) bool {
	that.mu.Lock()

	if !that.session.IsWaiting() || that.cancelRequest != nil {
		that.mu.Unlock()
		return false
	}

	that.inputEnabled = false
	that.status, that.tone = StatusThinking, ToneThinking
	that.render()

	turn := that.beginOpponentTurn(ctx)
	that.mu.Unlock()

	that.playOpponentTurn(ctx, turn)

	return true
}

// EvaluateTerminal - checks the board for a win, then for a draw, and ends the session if found.
func (that *Controller) EvaluateTerminal() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	terminal := that.evaluateTerminal()
	if terminal {
		that.render()
	}

	return terminal
}

// Reset - starts a new game on the same session, abandoning any outstanding request.
func (that *Controller) Reset(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.generation++
	if that.cancelRequest != nil {
		that.cancelRequest()
		that.cancelRequest = nil
	}

	// the old board fades out before the new one is drawn
	transition := that.frame()
	transition.Dimmed = true
	transition.InputEnabled = false
	for i := range transition.Cells {
		transition.Cells[i].Playable = false
	}

	that.session.Reset()
	that.highlight = nil
	that.inputEnabled = true
	that.status, that.tone = StatusPlayerTurn, TonePlayer

	that.persist(ctx)

	if that.delays.Reset <= 0 {
		that.render()
		return
	}

	that.paint(transition)

	generation := that.generation
	time.AfterFunc(that.delays.Reset, func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if that.generation == generation {
			that.render()
		}
	})
}

// State - returns the session state, one of the entity.State constants.
func (that *Controller) State() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.State()
}

// Snapshot - returns a copy of the session.
func (that *Controller) Snapshot() *entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Clone()
}

// Frame - returns the frame the view would currently show.
func (that *Controller) Frame() Frame {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.frame()
}

func (that *Controller) beginOpponentTurn(ctx context.Context) opponentTurn {
	reqCtx, cancel := context.WithCancel(ctx)
	that.cancelRequest = cancel

	return opponentTurn{
		generation: that.generation,
		board:      that.session.Board,
		ctx:        reqCtx,
		cancel:     cancel,
	}
}

func (that *Controller) playOpponentTurn(ctx context.Context, turn opponentTurn) {
	next, err := that.requestMove(turn.ctx, turn.board)
	turn.cancel()

	that.mu.Lock()
	that.applyOpponentTurn(ctx, turn, next, err)
	onIdle := that.onIdle
	that.mu.Unlock()

	if onIdle != nil {
		onIdle()
	}
}

// applyOpponentTurn - must be called with mu held.
func (that *Controller) applyOpponentTurn(ctx context.Context, turn opponentTurn, next entity.Board, err error) {
	log := that.logger.With("method", "applyOpponentTurn")

	if that.generation != turn.generation {
		log.Debug("dropping response of a reset game")
		return
	}

	that.cancelRequest = nil

	if err != nil && ctx.Err() != nil {
		// shutting down: keep the session waiting so it can be resumed
		log.Info("opponent request abandoned", "error", err)
		return
	}

	if err != nil {
		log.Error("move service call failed", "error", err)

		that.session.Active = false
		that.session.Failed = true
		that.status, that.tone = StatusError, ToneError
		that.inputEnabled = true
		that.render()
		that.persist(ctx)

		return
	}

	that.session.Board = next
	if !that.evaluateTerminal() {
		that.session.PlayerTurn = true
		that.status, that.tone = StatusPlayerTurn, TonePlayer
	}

	that.inputEnabled = true
	that.render()
	that.persist(ctx)
}

func (that *Controller) requestMove(ctx context.Context, board entity.Board) (entity.Board, error) {
	if that.delays.Think > 0 {
		timer := time.NewTimer(that.delays.Think)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return entity.Board{}, ctx.Err()
		}
	}

	next, err := that.moves.Move(ctx, board)
	if err != nil {
		return entity.Board{}, err
	}

	return next, nil
}

// evaluateTerminal - must be called with mu held.
func (that *Controller) evaluateTerminal() bool {
	winner, line := that.session.Board.Result()

	switch winner {
	case entity.PlayerX, entity.PlayerO:
		that.session.Winner = winner
		that.session.Line = line
		that.session.Active = false
		that.session.PlayerTurn = false

		if winner == entity.PlayerX {
			that.status, that.tone = StatusPlayerWon, ToneWon
		} else {
			that.status, that.tone = StatusMachineWon, ToneLost
		}

		that.highlightLine(line)

		return true
	case entity.PlayerTie:
		that.session.Winner = entity.PlayerTie
		that.session.Active = false
		that.session.PlayerTurn = false
		that.status, that.tone = StatusDraw, ToneDraw

		return true
	default:
		return false
	}
}

func (that *Controller) highlightLine(line []int) {
	if that.delays.Highlight <= 0 {
		that.highlight = line
		return
	}

	generation := that.generation
	time.AfterFunc(that.delays.Highlight, func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if that.generation != generation {
			return
		}

		that.highlight = line
		that.render()
	})
}

func (that *Controller) frame() Frame {
	cells := make([]Cell, 0, entity.BoardSize)
	for i, mark := range that.session.Board {
		cells = append(cells, Cell{
			Mark:     mark,
			Playable: that.session.CanPlay(i),
		})
	}

	return Frame{
		Cells:        cells,
		Status:       that.status,
		Tone:         that.tone,
		InputEnabled: that.inputEnabled,
		Highlight:    append([]int(nil), that.highlight...),
	}
}

func (that *Controller) render() {
	that.paint(that.frame())
}

func (that *Controller) paint(frame Frame) {
	if that.view != nil {
		that.view.Render(frame)
	}
}

func (that *Controller) persist(ctx context.Context) {
	if that.store == nil {
		return
	}

	// store failures never change the game
	if err := that.store.CreateOrUpdate(context.WithoutCancel(ctx), that.session.Clone()); err != nil {
		that.logger.Error("failed to persist session", "error", err)
	}
}
