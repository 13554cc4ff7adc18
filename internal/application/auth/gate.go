// Package auth implements the campus login gate: student verification
// by identifier, an admin passcode branch, a transient in-process
// session and an optional remembered identifier that survives restarts.
package auth

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-hub/campus-ops-hub/internal/domain/session"
	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ОТКАЗЫ ВХОДА
// Причины отказа намеренно расплывчаты: форма входа не должна выдавать,
// существует ли студент или совпал ли пароль администратора.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// ReasonVerificationFailed - идентификатор студента не прошёл проверку.
	ReasonVerificationFailed = "verification failed"

	// ReasonInvalidAdminCredentials - пароль администратора не совпал.
	ReasonInvalidAdminCredentials = "invalid admin credentials"
)

// ══════════════════════════════════════════════════════════════════════════════
// GATE
// ══════════════════════════════════════════════════════════════════════════════

// Config настраивает административную ветку входа.
type Config struct {
	// AdminIdentifier - идентификатор администратора (без учёта регистра).
	AdminIdentifier string

	// AdminPasscode - пароль администратора в открытом виде из окружения.
	// Хешируется при создании Gate и больше нигде не хранится.
	AdminPasscode string

	// DisableRemember - выключает сохранение идентификатора между
	// рестартами: remember=true в форме входа тогда игнорируется.
	DisableRemember bool
}

// Gate проверяет вход и хранит текущую сессию процесса.
// Транзиентная сессия живёт в памяти и исчезает с процессом;
// запомненный идентификатор хранится отдельно и переживает рестарт.
type Gate struct {
	mu      sync.RWMutex
	current *session.Session

	students   student.Repository
	remembered session.RememberedStore

	adminID         string
	adminHash       []byte
	disableRemember bool

	log *logger.Logger
}

// NewGate создаёт Gate и хеширует пароль администратора.
func NewGate(cfg Config, students student.Repository, remembered session.RememberedStore, log *logger.Logger) (*Gate, error) {
	if log == nil {
		log = logger.Default()
	}
	if cfg.AdminIdentifier == "" {
		cfg.AdminIdentifier = "ADMIN"
	}

	var adminHash []byte
	if cfg.AdminPasscode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPasscode), bcrypt.DefaultCost)
		if err != nil {
			return nil, shared.WrapError("auth", "NewGate", shared.ErrInternal, "hash admin passcode", err)
		}
		adminHash = hash
	}

	return &Gate{
		students:        students,
		remembered:      remembered,
		adminID:         strings.ToUpper(strings.TrimSpace(cfg.AdminIdentifier)),
		adminHash:       adminHash,
		disableRemember: cfg.DisableRemember,
		log:             log.With(logger.Component("auth-gate")),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN / LOGOUT
// ══════════════════════════════════════════════════════════════════════════════

// LoginInput - данные формы входа.
type LoginInput struct {
	// Identifier - идентификатор студента или администратора в любом регистре.
	Identifier string

	// Passcode - пароль; проверяется только в административной ветке.
	Passcode string

	// Remember - сохранить идентификатор студента между рестартами.
	Remember bool
}

// LoginResult - итог попытки входа.
type LoginResult struct {
	// OK - удалась ли попытка.
	OK bool `json:"ok"`

	// Reason - причина отказа (пустая при успехе).
	Reason string `json:"reason,omitempty"`

	// Identity - установленная личность (при успехе).
	Identity session.Identity `json:"identity,omitempty"`

	// Student - профиль студента (только для студенческого входа).
	Student *student.Student `json:"student,omitempty"`
}

// Login проверяет вход и при успехе открывает транзиентную сессию.
func (g *Gate) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	id := student.Normalize(input.Identifier)
	if id == "" {
		return &LoginResult{OK: false, Reason: ReasonVerificationFailed}, nil
	}

	// Административная ветка: идентификатор совпал без учёта регистра.
	if string(id) == g.adminID {
		return g.loginAdmin(input.Passcode)
	}

	return g.loginStudent(ctx, id, input.Remember)
}

func (g *Gate) loginAdmin(passcode string) (*LoginResult, error) {
	if len(g.adminHash) == 0 {
		g.log.Warn("admin login attempted with no passcode configured")
		return &LoginResult{OK: false, Reason: ReasonInvalidAdminCredentials}, nil
	}
	if err := bcrypt.CompareHashAndPassword(g.adminHash, []byte(passcode)); err != nil {
		return &LoginResult{OK: false, Reason: ReasonInvalidAdminCredentials}, nil
	}

	identity := session.AdminIdentity()
	g.setSession(session.NewSession(identity))

	g.log.Info("admin logged in")
	return &LoginResult{OK: true, Identity: identity}, nil
}

func (g *Gate) loginStudent(ctx context.Context, id student.ID, remember bool) (*LoginResult, error) {
	s, err := g.students.GetByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return &LoginResult{OK: false, Reason: ReasonVerificationFailed}, nil
		}
		return nil, err
	}

	identity := session.StudentIdentity(s.ID)
	g.setSession(session.NewSession(identity))

	// Запоминание - best effort: отказ хранилища не отменяет вход.
	if g.disableRemember {
		remember = false
	}
	if remember {
		if err := g.remembered.SaveRemembered(ctx, s.ID); err != nil {
			g.log.Warn("failed to save remembered id", logger.Err(err), logger.StudentID(string(s.ID)))
		}
	} else {
		if err := g.remembered.ClearRemembered(ctx); err != nil {
			g.log.Warn("failed to clear remembered id", logger.Err(err))
		}
	}

	g.log.Info("student logged in", logger.StudentID(string(s.ID)))
	return &LoginResult{OK: true, Identity: identity, Student: s}, nil
}

// Logout закрывает транзиентную сессию. Запомненный идентификатор
// не трогается: выход и "забыть меня" - разные действия.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = nil
}

// Forget стирает запомненный идентификатор.
func (g *Gate) Forget(ctx context.Context) error {
	return g.remembered.ClearRemembered(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STATE
// ══════════════════════════════════════════════════════════════════════════════

// Restore восстанавливает сессию из запомненного идентификатора,
// если транзиентной сессии нет. Устаревший идентификатор (студент
// больше не существует) стирается, и состояние остаётся "не в системе".
func (g *Gate) Restore(ctx context.Context) (*session.Session, error) {
	if current := g.Current(); current != nil {
		return current, nil
	}

	// Запомненный ярус выключен - восстанавливать нечего.
	if g.disableRemember {
		return nil, nil
	}

	id, err := g.remembered.GetRemembered(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	s, err := g.students.GetByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			g.log.Warn("remembered id is stale, clearing", logger.StudentID(string(id)))
			if clearErr := g.remembered.ClearRemembered(ctx); clearErr != nil {
				g.log.Warn("failed to clear stale remembered id", logger.Err(clearErr))
			}
			return nil, nil
		}
		return nil, err
	}

	sess := session.NewSession(session.StudentIdentity(s.ID))
	g.setSession(sess)
	return sess, nil
}

// Current возвращает текущую транзиентную сессию (nil, если её нет).
func (g *Gate) Current() *session.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// State возвращает состояние сессии процесса.
func (g *Gate) State() session.State {
	return g.Current().State()
}

// RememberedIdentifier возвращает запомненный идентификатор ("" если нет).
func (g *Gate) RememberedIdentifier(ctx context.Context) (student.ID, error) {
	return g.remembered.GetRemembered(ctx)
}

func (g *Gate) setSession(s *session.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = s
}
