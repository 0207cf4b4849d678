package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

// SessionManager keeps one game controller per browser session.
type SessionManager interface {
	// Attach - returns the controller of sessionID painting on view, restoring or creating it.
	// ctx must outlive the connection: it bounds requests made on behalf of the session.
	Attach(ctx context.Context, sessionID string, view tictactoe.View) *tictactoe.Controller
	Detach(sessionID string, view tictactoe.View)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type moveService interface {
	Move(ctx context.Context, board entity.Board) (entity.Board, error)
}

type sessionManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	moveService moveService
	delays      tictactoe.Delays

	mu          sync.Mutex
	controllers map[string]*tictactoe.Controller
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo, moveService moveService, delays tictactoe.Delays) SessionManager {
	return &sessionManager{
		logger:      logger.With("component", "session_manager"),
		sessionRepo: sessionRepo,
		moveService: moveService,
		delays:      delays,
		controllers: make(map[string]*tictactoe.Controller),
	}
}

func (that *sessionManager) Attach(ctx context.Context, sessionID string, view tictactoe.View) *tictactoe.Controller {
	that.mu.Lock()
	controller, ok := that.controllers[sessionID]
	if ok {
		controller.AttachView(view)
	}
	that.mu.Unlock()

	restored := false
	if !ok {
		// the store is read without the lock; a concurrent attach may win the insert
		candidate := that.restore(ctx, sessionID)

		that.mu.Lock()
		if controller, ok = that.controllers[sessionID]; !ok {
			controller = candidate
			that.controllers[sessionID] = controller
			restored = true
		}
		controller.AttachView(view)
		that.mu.Unlock()
	}

	controller.Render()

	if restored && controller.State() == entity.StateWaitingForOpponent {
		go controller.Resume(ctx)
	}

	return controller
}

func (that *sessionManager) Detach(sessionID string, view tictactoe.View) {
	that.mu.Lock()
	defer that.mu.Unlock()

	controller, ok := that.controllers[sessionID]
	if !ok || !controller.DetachView(view) {
		return
	}

	// a waiting controller still owns its request; release drops it once the reply lands
	if controller.Idle() {
		delete(that.controllers, sessionID)
	}
}

// release - forgets controller once nobody watches it and its request is done.
func (that *sessionManager) release(sessionID string, controller *tictactoe.Controller) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.controllers[sessionID] == controller && controller.Idle() {
		delete(that.controllers, sessionID)
		that.logger.Debug("released detached session", "session", sessionID)
	}
}

func (that *sessionManager) restore(ctx context.Context, sessionID string) *tictactoe.Controller {
	log := that.logger.With("method", "restore", "session", sessionID)

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	switch {
	case err == nil:
		log.Debug("session restored", "state", session.State())
	case errors.Is(err, apperror.ErrSessionNotFound):
		session = that.create(ctx, sessionID)
	default:
		log.Error("failed to restore session, starting a new one", "error", err)
		session = that.create(ctx, sessionID)
	}

	controller := tictactoe.NewGameController(that.logger, session, that.moveService, that.sessionRepo, that.delays)
	controller.OnIdle(func() { that.release(sessionID, controller) })

	return controller
}

func (that *sessionManager) create(ctx context.Context, sessionID string) *entity.Session {
	session := entity.NewSession(sessionID)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session.Clone()); err != nil {
		that.logger.Error("failed to save new session", "session", sessionID, "error", err)
	}

	return session
}
